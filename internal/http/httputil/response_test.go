package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func record(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not the envelope: %v", err)
	}
	return w, resp
}

func TestSuccessEnvelope(t *testing.T) {
	w, resp := record(t, func(c *gin.Context) {
		Success(c, gin.H{"value": 42})
	})
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !resp.Success || resp.Error != "" || resp.Data == nil {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	testCases := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest},
		{"not found", func(c *gin.Context) { NotFound(c, "nope") }, http.StatusNotFound},
		{"internal error", func(c *gin.Context) { InternalError(c, "nope") }, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := record(t, tc.write)
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if resp.Success || resp.Error != "nope" {
				t.Errorf("envelope = %+v", resp)
			}
		})
	}
}

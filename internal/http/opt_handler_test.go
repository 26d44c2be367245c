package http

import (
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/http/httputil"
)

const (
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	solMint  = "So11111111111111111111111111111111111111112"
)

func postOptRequest(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(gohttp.MethodPost, "/api/v1/opt", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestParseOptRequest(t *testing.T) {
	w, c := postOptRequest(t, `{"quoteMint":"`+usdcMint+`","baseMint":"`+solMint+`","amount":"100","excludeVenues":"saber"}`)

	h := NewOptHandler(nil)
	req, ok := h.parseOptRequest(c)
	if !ok {
		t.Fatalf("parse failed with status %d: %s", w.Code, w.Body.String())
	}
	if req.QuoteMint.String() != usdcMint || req.BaseMint.String() != solMint {
		t.Errorf("mints not carried over: %s -> %s", req.QuoteMint, req.BaseMint)
	}
	if !req.Slippage.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("default slippage = %s, want 0.5", req.Slippage)
	}
	if len(req.ExcludeVenues) != 1 || req.ExcludeVenues[0] != "saber" {
		t.Errorf("excludeVenues = %v", req.ExcludeVenues)
	}
}

func TestParseOptRequestRejectsBadInput(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"identical mints", `{"quoteMint":"` + usdcMint + `","baseMint":"` + usdcMint + `","amount":"100"}`},
		{"bad quote mint", `{"quoteMint":"nope","baseMint":"` + solMint + `","amount":"100"}`},
		{"zero amount", `{"quoteMint":"` + usdcMint + `","baseMint":"` + solMint + `","amount":"0"}`},
		{"negative slippage", `{"quoteMint":"` + usdcMint + `","baseMint":"` + solMint + `","amount":"100","slippage":"-1"}`},
		{"missing amount", `{"quoteMint":"` + usdcMint + `","baseMint":"` + solMint + `"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, c := postOptRequest(t, tc.body)

			h := NewOptHandler(nil)
			if _, ok := h.parseOptRequest(c); ok {
				t.Fatal("expected parse to fail")
			}
			if w.Code != gohttp.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, gohttp.StatusBadRequest)
			}

			var resp httputil.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response is not the envelope: %v", err)
			}
			if resp.Success || resp.Error == "" {
				t.Errorf("envelope = %+v, want success=false with an error", resp)
			}
		})
	}
}

package httputil

import "github.com/gin-gonic/gin"

// IHttpHandler is one mounted route tree. Root names the group prefix;
// SetRoutes registers the handler's endpoints on the public, private and
// admin groups for that prefix.
type IHttpHandler interface {
	Root() string
	SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup)
}

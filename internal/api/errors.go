package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/covernet/covernet/pkg/logging"
)

// renderError writes the uniform error body and aborts the request
func renderError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func badRequest(c *gin.Context, message string) {
	renderError(c, http.StatusBadRequest, message)
}

func unauthorized(c *gin.Context, scheme string) {
	c.Header("WWW-Authenticate", scheme)
	renderError(c, http.StatusUnauthorized, "authentication required")
}

func forbidden(c *gin.Context) {
	renderError(c, http.StatusForbidden, "insufficient permissions")
}

func notFound(c *gin.Context, message string) {
	renderError(c, http.StatusNotFound, message)
}

func internalError(c *gin.Context, err error) {
	logging.WithComponent("api").Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	renderError(c, http.StatusInternalServerError, "internal server error")
}

func serviceUnavailable(c *gin.Context, message string) {
	renderError(c, http.StatusServiceUnavailable, message)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// issueToken exchanges basic-auth credentials for a bearer token
func (s *Server) issueToken(c *gin.Context) {
	user := currentUser(c)

	token, expiration, err := s.auth.IssueToken(c.Request.Context(), user)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expiration": renderTime(expiration),
	})
}

// revokeToken expires the current bearer token immediately
func (s *Server) revokeToken(c *gin.Context) {
	user := currentUser(c)

	if err := s.auth.RevokeToken(c.Request.Context(), user); err != nil {
		internalError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

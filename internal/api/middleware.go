package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/covernet/covernet/internal/models"
)

const currentUserKey = "currentUser"

// basicAuth authenticates username/password credentials. Used only by the
// token issuance endpoint.
func (s *Server) basicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c, "Basic")
			return
		}
		user, err := s.auth.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			internalError(c, err)
			return
		}
		if user == nil {
			unauthorized(c, "Basic")
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// tokenAuth authenticates the Bearer token and stores the current user on
// the context. Expired or unknown tokens are indistinguishable from absent
// ones.
func (s *Server) tokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "Bearer")
			return
		}
		user, err := s.auth.CheckToken(c.Request.Context(), token)
		if err != nil {
			internalError(c, err)
			return
		}
		if user == nil {
			unauthorized(c, "Bearer")
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// currentUser returns the authenticated user set by the auth middleware
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// canActFor reports whether the current user may operate on the target
// user's resources.
func canActFor(c *gin.Context, targetID int64) bool {
	user := currentUser(c)
	return user != nil && (user.ID == targetID || user.IsAdmin)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizhub/backoffice/internal/models"
)

const (
	sessionCookie  = "session_token"
	contextUserKey = "current_user"
)

// authRequired resolves the session cookie to a user and aborts with 401
// when the cookie is missing, unknown or expired.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		user, err := s.authService.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired session"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// adminRequired aborts with 403 unless the authenticated user is an admin
func (s *Server) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

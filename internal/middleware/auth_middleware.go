package middleware

import (
	"errors"
	"net/http"

	"github.com/mcpward/mcpward/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthMiddleware authenticates every request on the protected surface and
// stores the principal in the gin context. Rejections carry the
// WWW-Authenticate challenge so clients can discover the authorization
// server.
type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

func (m *AuthMiddleware) Init() error {
	return nil
}

func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.auth.Authenticate(c.Request)

		if err != nil {
			reason := m.rejectReason(err)
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Authentication rejected")
			c.Header("WWW-Authenticate", m.auth.Challenge(reason))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "invalid_token",
				"error_description": reason,
			})
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}

func (m *AuthMiddleware) rejectReason(err error) string {
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		return "Authentication required"
	case errors.Is(err, service.ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, service.ErrTokenRevoked):
		return "Token revoked"
	case errors.Is(err, service.ErrUnknownUser):
		return "Unknown user"
	default:
		return "Invalid token"
	}
}

package http

import (
	"strings"

	"social-feed/pkg/logger"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/usecase"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

type AuthMiddleware struct {
	resolver usecase.IdentityResolver
	logger   *logger.Logger
}

func NewAuthMiddleware(resolver usecase.IdentityResolver, logger *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, logger: logger}
}

// Required rejects requests without a valid bearer token.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return m.handle(true)
}

// Optional lets requests without an Authorization header through as
// anonymous. A header carrying a bad token is still rejected.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return m.handle(false)
}

func (m *AuthMiddleware) handle(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				unauthorized(c, entity.ErrMissingToken)
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, entity.ErrInvalidToken)
			return
		}

		identity, err := m.resolver.Resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			respondError(c, m.logger, err, "Authentication failed")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID())
		c.Next()
	}
}

// currentIdentity returns the resolved caller, or nil for anonymous requests.
func currentIdentity(c *gin.Context) *entity.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*entity.Identity)
	return identity
}

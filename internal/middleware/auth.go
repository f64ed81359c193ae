package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
)

// UserContextKey is the gin context key under which the authenticated user
// is stored.
const UserContextKey = "user"

// AuthMiddleware creates a Gin middleware for bearer-token authentication.
// It verifies the token, resolves the subject to a stored user and puts the
// full user record into the context. Every failure path produces the same
// 401 response with a WWW-Authenticate challenge; the logs distinguish the
// causes, the client does not get to.
func AuthMiddleware(tokens *auth.TokenService, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("Missing Authorization header")
			unauthenticated(c)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.Debug("Authorization header is not a bearer credential")
			unauthenticated(c)
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				logger.Debug("Token expired")
			case errors.Is(err, auth.ErrInvalidSignature):
				logger.Warn("Token signature invalid")
			default:
				logger.Debug("Token malformed", zap.Error(err))
			}
			unauthenticated(c)
			return
		}

		user, err := users.GetUserByID(userID)
		if err != nil {
			logger.Error("Failed to resolve token subject", zap.Int64("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			c.Abort()
			return
		}
		if user == nil {
			// Valid token whose subject no longer exists. Same response as
			// any other credential failure.
			logger.Debug("Token subject no longer exists", zap.Int64("user_id", userID))
			unauthenticated(c)
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(UserContextKey).(*models.User)
}

func unauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	c.Abort()
}

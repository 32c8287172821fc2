package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/helper"
	"threadline/models"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

// ActorLoader resolves the user a verified token belongs to.
type ActorLoader interface {
	Actor(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAuth verifies the session cookie and stores the user on the
// context for helper.ExtractActor.
func RequireAuth(actors ActorLoader, secret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookie)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login first"})
			return
		}

		userID, err := helper.ParseToken(tokenString, secret)
		if err != nil {
			logger.Debug("rejected session token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		user, err := actors.Actor(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set(helper.ActorKey, user)
		c.Next()
	}
}

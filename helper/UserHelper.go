package helper

import (
	"github.com/gin-gonic/gin"

	"threadline/models"
)

// ActorKey is the gin context key RequireAuth stores the actor under.
const ActorKey = "user"

// ExtractActor returns the authenticated user set by RequireAuth.
func ExtractActor(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

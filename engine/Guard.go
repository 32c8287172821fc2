package engine

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// authorize allows a destructive action only for the entity's author. The
// message does not say anything about the entity beyond what the caller
// already addressed.
func authorize(op string, actor *models.User, author primitive.ObjectID) error {
	if actor == nil || actor.ID != author {
		return forbidden(op, "you are not the author of this resource")
	}
	return nil
}

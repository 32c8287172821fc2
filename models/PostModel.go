package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Post struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id"`
	Admin     primitive.ObjectID   `json:"admin" bson:"admin"`
	Text      string               `json:"text,omitempty" bson:"text,omitempty"`
	Media     string               `json:"media,omitempty" bson:"media,omitempty"`
	PublicID  string               `json:"-" bson:"public_id,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

func NewPost(admin primitive.ObjectID, text string, now time.Time) Post {
	return Post{
		ID:        primitive.NewObjectID(),
		Admin:     admin,
		Text:      text,
		Likes:     []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

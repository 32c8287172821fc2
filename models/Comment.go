package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Text      string             `json:"text" bson:"text"`
	Admin     primitive.ObjectID `json:"admin" bson:"admin"`
	Post      primitive.ObjectID `json:"post" bson:"post"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

func NewComment(admin, post primitive.ObjectID, text string, now time.Time) Comment {
	return Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Admin:     admin,
		Post:      post,
		CreatedAt: now,
	}
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

const DefaultProfilePic = "https://image.shutterstock.com/image-vector/vector-flat-illustration-grayscale-avatar-260nw-2281862025.jpg"

type User struct {
	ID         primitive.ObjectID   `json:"_id" bson:"_id"`
	Username   string               `json:"username" bson:"username"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password"`
	Bio        string               `json:"bio" bson:"bio"`
	ProfilePic string               `json:"profilePic" bson:"profilePic"`
	PublicID   string               `json:"-" bson:"public_id,omitempty"`
	Followers  []primitive.ObjectID `json:"followers" bson:"followers"`
	Threads    []primitive.ObjectID `json:"threads" bson:"threads"`
	Replies    []primitive.ObjectID `json:"replies" bson:"replies"`
	Reposts    []primitive.ObjectID `json:"reposts" bson:"reposts"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// NewUser returns a user with empty reference lists so they encode as
// arrays rather than null, which $addToSet requires.
func NewUser(username, email, passwordHash string, now time.Time) User {
	return User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		Email:      email,
		Password:   passwordHash,
		ProfilePic: DefaultProfilePic,
		Followers:  []primitive.ObjectID{},
		Threads:    []primitive.ObjectID{},
		Replies:    []primitive.ObjectID{},
		Reposts:    []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ProfileUpdate carries the fields update-profile may change. Nil means
// leave the field as is.
type ProfileUpdate struct {
	Bio        *string
	ProfilePic *string
	PublicID   *string
}

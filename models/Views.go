package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// The view types are read-side shapes with references resolved. A reference
// whose target is gone is omitted (lists) or left nil (single references).

type UserSummary struct {
	ID         primitive.ObjectID `json:"_id"`
	Username   string             `json:"username"`
	Email      string             `json:"email"`
	Bio        string             `json:"bio"`
	ProfilePic string             `json:"profilePic"`
}

func Summarize(u *User) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Bio:        u.Bio,
		ProfilePic: u.ProfilePic,
	}
}

type CommentView struct {
	ID        primitive.ObjectID `json:"_id"`
	Text      string             `json:"text"`
	Admin     *UserSummary       `json:"admin"`
	Post      primitive.ObjectID `json:"post"`
	CreatedAt time.Time          `json:"createdAt"`
}

type PostView struct {
	ID        primitive.ObjectID `json:"_id"`
	Admin     *UserSummary       `json:"admin"`
	Text      string             `json:"text,omitempty"`
	Media     string             `json:"media,omitempty"`
	Likes     []UserSummary      `json:"likes"`
	Comments  []CommentView      `json:"comments"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ProfileView struct {
	UserSummary
	Followers []UserSummary `json:"followers"`
	Threads   []PostView    `json:"threads"`
	Replies   []CommentView `json:"replies"`
	Reposts   []PostView    `json:"reposts"`
	CreatedAt time.Time     `json:"createdAt"`
}

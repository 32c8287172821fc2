package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Collection names. Every list-valued reference field lives on exactly one
// of the two owner collections.
const (
	UserCollection    = "users"
	PostCollection    = "posts"
	CommentCollection = "comments"
)

// Relation names one reference list: the collection of the owning document
// and the field that holds member ids.
type Relation string

const (
	// Followers on user A holds the ids of users following A.
	Followers Relation = "followers"
	// Threads holds the ids of posts a user authored.
	Threads Relation = "threads"
	// Replies holds the ids of comments a user authored.
	Replies Relation = "replies"
	// Reposts holds the ids of posts a user reposted.
	Reposts Relation = "reposts"
	// Likes holds the ids of users who like a post.
	Likes Relation = "likes"
	// Comments holds the ids of comments attached to a post.
	Comments Relation = "comments"
)

var Relations = []Relation{Followers, Threads, Replies, Reposts, Likes, Comments}

// Owner returns the collection whose documents carry this list.
func (r Relation) Owner() string {
	switch r {
	case Likes, Comments:
		return PostCollection
	default:
		return UserCollection
	}
}

// Field is the bson field name of the list.
func (r Relation) Field() string {
	return string(r)
}

// Pull asks for members to be removed from relation r on every document of
// the owning collection that holds them.
type Pull struct {
	Relation Relation
	Members  []primitive.ObjectID
}

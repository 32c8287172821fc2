package engine

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// Store implementations return mongo.ErrNoDocuments (possibly wrapped) when
// an addressed document does not exist. Batch finds silently skip ids that do
// not resolve.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) error
	ScanUsers(ctx context.Context, fn func(models.User) error) error
}

type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	FindPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindPosts(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	// ListPosts returns posts newest first.
	ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	SetPostMedia(ctx context.Context, id primitive.ObjectID, url, handle string) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	ScanPosts(ctx context.Context, fn func(models.Post) error) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindComments(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error)
	FindCommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteComments(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	ScanComments(ctx context.Context, fn func(models.Comment) error) error
}

// ReferenceIndex mutates reference lists with set semantics. Adding a
// present member or removing an absent one is a successful no-op, so every
// propagation step can be retried.
type ReferenceIndex interface {
	AddMember(ctx context.Context, rel models.Relation, owner, member primitive.ObjectID) error
	RemoveMember(ctx context.Context, rel models.Relation, owner, member primitive.ObjectID) error
	// PurgeMembers removes the given members from every document of the
	// owning collections and reports how many documents changed.
	PurgeMembers(ctx context.Context, pulls ...models.Pull) (int64, error)
}

type Store interface {
	UserStore
	PostStore
	CommentStore
	ReferenceIndex
}

// Upload is a media file on its way to the media store.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// StoredMedia is what the media store hands back: a public URL and the
// handle needed to destroy it.
type StoredMedia struct {
	URL    string
	Handle string
}

type MediaStore interface {
	Upload(ctx context.Context, file Upload) (StoredMedia, error)
	// Destroy removes a stored file. Destroying a handle that is already
	// gone succeeds.
	Destroy(ctx context.Context, handle string) error
	// Open streams a stored file and reports its content type.
	Open(ctx context.Context, handle string) (io.ReadCloser, string, error)
}

// Package database is the MongoDB implementation of the engine's entity
// store, reference index and media store.
package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"threadline/models"
)

const opTimeout = 10 * time.Second

// Store keeps users, posts and comments in three collections. Each method
// is a single-document write or a single updateMany; no method opens a
// multi-document transaction.
type Store struct {
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
	now      func() time.Time
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		users:    db.Collection(models.UserCollection),
		posts:    db.Collection(models.PostCollection),
		comments: db.Collection(models.CommentCollection),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) collection(name string) *mongo.Collection {
	switch name {
	case models.PostCollection:
		return s.posts
	case models.CommentCollection:
		return s.comments
	default:
		return s.users
	}
}

// withTimeout bounds one store round trip.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// scan decodes every document of cursor into T and hands it to fn.
func scan[T any](ctx context.Context, cursor *mongo.Cursor, fn func(T) error) error {
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func all[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

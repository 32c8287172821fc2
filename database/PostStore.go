package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"threadline/models"
)

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *Store) FindPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var post models.Post
	if err := s.posts.FindOne(ctx, byID(id)).Decode(&post); err != nil {
		return nil, fmt.Errorf("find post %s: %w", id.Hex(), err)
	}
	return &post, nil
}

func (s *Store) FindPosts(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	cursor, err := s.posts.Find(ctx, byIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return all[models.Post](ctx, cursor)
}

func (s *Store) ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := s.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts (skip=%d, limit=%d): %w", skip, limit, err)
	}
	return all[models.Post](ctx, cursor)
}

func (s *Store) SetPostMedia(ctx context.Context, id primitive.ObjectID, url, handle string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.updateOne(ctx, s.posts, id, mediaUpdate(url, handle, s.now()))
}

func (s *Store) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	result, err := s.posts.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) ScanPosts(ctx context.Context, fn func(models.Post) error) error {
	cursor, err := s.posts.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("scan posts: %w", err)
	}
	return scan(ctx, cursor, fn)
}

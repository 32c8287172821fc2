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

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *Store) FindComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var comment models.Comment
	if err := s.comments.FindOne(ctx, byID(id)).Decode(&comment); err != nil {
		return nil, fmt.Errorf("find comment %s: %w", id.Hex(), err)
	}
	return &comment, nil
}

func (s *Store) FindComments(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	cursor, err := s.comments.Find(ctx, byIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	return all[models.Comment](ctx, cursor)
}

func (s *Store) FindCommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.comments.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments of post %s: %w", postID.Hex(), err)
	}
	return all[models.Comment](ctx, cursor)
}

func (s *Store) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	result, err := s.comments.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) DeleteComments(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	result, err := s.comments.DeleteMany(ctx, byIDs(ids))
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	return result.DeletedCount, nil
}

func (s *Store) ScanComments(ctx context.Context, fn func(models.Comment) error) error {
	cursor, err := s.comments.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("scan comments: %w", err)
	}
	return scan(ctx, cursor, fn)
}

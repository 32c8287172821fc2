package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var user models.User
	if err := s.users.FindOne(ctx, byID(id)).Decode(&user); err != nil {
		return nil, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *Store) FindUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	cursor, err := s.users.Find(ctx, byIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return all[models.User](ctx, cursor)
}

func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	cursor, err := s.users.Find(ctx, searchFilter(query))
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return all[models.User](ctx, cursor)
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.updateOne(ctx, s.users, id, profileUpdate(update, s.now()))
}

func (s *Store) ScanUsers(ctx context.Context, fn func(models.User) error) error {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("scan users: %w", err)
	}
	return scan(ctx, cursor, fn)
}

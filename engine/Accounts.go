package engine

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"threadline/helper"
	"threadline/models"
)

// Register creates an account. Emails are unique.
func (e *Engine) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "register"

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, validationError(op, "username, email and password are required")
	}

	_, err := e.store.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, conflict(op, "user already exists, please login")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storageFailure(op, "check email", err)
	}

	hash, err := helper.HashPassword(password)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Msg: "password cannot be used", Err: err}
	}

	user := models.NewUser(username, email, hash, e.now())
	if err := e.store.CreateUser(ctx, &user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, conflict(op, "user already exists, please login")
		}
		return nil, storageFailure(op, "create user", err)
	}
	e.logger.Info("user registered", "user_id", user.ID.Hex())
	return &user, nil
}

// Authenticate checks an email/password pair.
func (e *Engine) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	const op = "login"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError(op, "email and password are required")
	}
	user, err := e.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(op, "email")
		}
		return nil, storageFailure(op, "load user", err)
	}
	if !helper.CheckPassword(user.Password, password) {
		return nil, forbidden(op, "incorrect credentials")
	}
	return user, nil
}

// Actor loads the authenticated user for a request.
func (e *Engine) Actor(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := e.store.FindUser(ctx, id)
	if err != nil {
		return nil, lookupFailure("auth", "user", err)
	}
	return user, nil
}

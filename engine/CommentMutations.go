package engine

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// AddComment writes the comment, then links it from the post and from the
// actor's replies.
func (e *Engine) AddComment(ctx context.Context, actor *models.User, postID primitive.ObjectID, text string) (*models.Comment, error) {
	const op = "add-comment"

	if postID.IsZero() {
		return nil, validationError(op, "post id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationError(op, "comment cannot be empty")
	}
	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return nil, lookupFailure(op, "post", err)
	}

	comment := models.NewComment(actor.ID, post.ID, text, e.now())
	if err := e.store.CreateComment(ctx, &comment); err != nil {
		return nil, storageFailure(op, "create comment", err)
	}
	if err := e.link(ctx, op, models.Comments, post.ID, comment.ID); err != nil {
		return nil, err
	}
	if err := e.link(ctx, op, models.Replies, actor.ID, comment.ID); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment unlinks a comment from its post and its author, then
// deletes it. A comment the post no longer references is reported as a
// conflict rather than deleted.
func (e *Engine) DeleteComment(ctx context.Context, actor *models.User, postID, commentID primitive.ObjectID) error {
	const op = "delete-comment"

	if postID.IsZero() || commentID.IsZero() {
		return validationError(op, "post id and comment id are required")
	}
	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return lookupFailure(op, "post", err)
	}
	comment, err := e.store.FindComment(ctx, commentID)
	if err != nil {
		return lookupFailure(op, "comment", err)
	}
	if !contains(post.Comments, comment.ID) {
		return conflict(op, "this post does not have that comment")
	}
	if err := authorize(op, actor, comment.Admin); err != nil {
		return err
	}

	if err := e.unlink(ctx, op, models.Comments, post.ID, comment.ID); err != nil {
		return err
	}
	if err := e.unlink(ctx, op, models.Replies, comment.Admin, comment.ID); err != nil {
		return err
	}
	if err := e.store.DeleteComment(ctx, comment.ID); err != nil {
		return storageFailure(op, "delete comment", err)
	}
	return nil
}

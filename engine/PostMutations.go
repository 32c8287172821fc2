package engine

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// AddPost creates a post authored by actor. The post record is written
// first, media is attached second and the actor's threads list is updated
// last.
//
// A failed media upload does not undo the post: the post stays (without
// media), is still linked to the actor, and AddPost returns it together with
// a KindMedia error.
func (e *Engine) AddPost(ctx context.Context, actor *models.User, text string, media *Upload) (*models.Post, error) {
	const op = "add-post"

	if strings.TrimSpace(text) == "" && media == nil {
		return nil, validationError(op, "post must have text or media")
	}

	post := models.NewPost(actor.ID, text, e.now())
	if err := e.store.CreatePost(ctx, &post); err != nil {
		return nil, storageFailure(op, "create post", err)
	}

	var attachErr error
	if media != nil {
		attachErr = e.attachPostMedia(ctx, op, &post, *media)
	}

	if err := e.link(ctx, op, models.Threads, actor.ID, post.ID); err != nil {
		return nil, err
	}

	e.logger.Info("post created", "post_id", post.ID.Hex(), "actor_id", actor.ID.Hex(), "has_media", post.Media != "")
	return &post, attachErr
}

func (e *Engine) attachPostMedia(ctx context.Context, op string, post *models.Post, file Upload) error {
	stored, err := e.media.Upload(ctx, file)
	if err != nil {
		e.logger.Warn("post media upload failed, keeping post without media", "post_id", post.ID.Hex(), "error", err)
		return mediaFailure(op, "upload", err)
	}
	if err := e.store.SetPostMedia(ctx, post.ID, stored.URL, stored.Handle); err != nil {
		e.release(ctx, op, stored.Handle)
		return storageFailure(op, "attach media", err)
	}
	post.Media = stored.URL
	post.PublicID = stored.Handle
	return nil
}

// DeletePost removes a post and cascades: media, then the post's comments,
// then every user reference to the post or its comments, then the post
// record itself. A failure stops the cascade; the post record is the last
// thing to go, so a retry by the author finds it and resumes. Media
// destroy is a no-op for a handle that is already gone.
func (e *Engine) DeletePost(ctx context.Context, actor *models.User, postID primitive.ObjectID) error {
	const op = "delete-post"

	if postID.IsZero() {
		return validationError(op, "post id is required")
	}
	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return lookupFailure(op, "post", err)
	}
	if err := authorize(op, actor, post.Admin); err != nil {
		return err
	}

	if post.PublicID != "" {
		if err := e.media.Destroy(ctx, post.PublicID); err != nil {
			return mediaFailure(op, "destroy media", err)
		}
	}

	// Comments deleted by an earlier, interrupted attempt no longer resolve
	// by parent but are still listed on the post, and may still sit in
	// some user's replies.
	comments, err := e.store.FindCommentsByPost(ctx, postID)
	if err != nil {
		return storageFailure(op, "load comments", err)
	}
	pending := newIDSet(post.Comments...)
	for _, c := range comments {
		pending.add(c.ID)
	}
	commentIDs := pending.slice()
	if len(commentIDs) > 0 {
		if _, err := e.store.DeleteComments(ctx, commentIDs); err != nil {
			return storageFailure(op, "delete comments", err)
		}
	}

	modified, err := e.store.PurgeMembers(ctx,
		models.Pull{Relation: models.Threads, Members: []primitive.ObjectID{postID}},
		models.Pull{Relation: models.Reposts, Members: []primitive.ObjectID{postID}},
		models.Pull{Relation: models.Replies, Members: commentIDs},
	)
	if err != nil {
		e.logger.Error("user reference cleanup failed", "post_id", postID.Hex(), "step", "purge references", "error", err)
		return storageFailure(op, "purge user references", err)
	}

	if err := e.store.DeletePost(ctx, postID); err != nil {
		return storageFailure(op, "delete post", err)
	}

	e.logger.Info("post deleted",
		"post_id", postID.Hex(),
		"actor_id", actor.ID.Hex(),
		"comments_deleted", len(commentIDs),
		"users_updated", modified,
	)
	return nil
}

// LikePost toggles actor's like on a post and reports whether the actor
// likes it afterwards.
func (e *Engine) LikePost(ctx context.Context, actor *models.User, postID primitive.ObjectID) (bool, error) {
	const op = "like-post"

	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return false, lookupFailure(op, "post", err)
	}
	return e.toggle(ctx, op, models.Likes, post.ID, actor.ID, post.Likes)
}

// Repost records that actor reposted a post. Reposting twice is a conflict.
func (e *Engine) Repost(ctx context.Context, actor *models.User, postID primitive.ObjectID) error {
	const op = "repost"

	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return lookupFailure(op, "post", err)
	}
	current, err := e.store.FindUser(ctx, actor.ID)
	if err != nil {
		return lookupFailure(op, "user", err)
	}
	if contains(current.Reposts, post.ID) {
		return conflict(op, "this post is already reposted")
	}
	return e.link(ctx, op, models.Reposts, actor.ID, post.ID)
}

// Unrepost removes a repost. Removing a repost that does not exist is a
// conflict, mirroring Repost.
func (e *Engine) Unrepost(ctx context.Context, actor *models.User, postID primitive.ObjectID) error {
	const op = "unrepost"

	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return lookupFailure(op, "post", err)
	}
	current, err := e.store.FindUser(ctx, actor.ID)
	if err != nil {
		return lookupFailure(op, "user", err)
	}
	if !contains(current.Reposts, post.ID) {
		return conflict(op, "this post is not reposted")
	}
	return e.unlink(ctx, op, models.Reposts, actor.ID, post.ID)
}

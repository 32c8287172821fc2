package engine

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// Follow toggles actor in the target's followers list and reports whether
// actor follows the target afterwards. Following is stored only on the
// followed user's document. Following yourself is rejected.
func (e *Engine) Follow(ctx context.Context, actor *models.User, targetID primitive.ObjectID) (bool, error) {
	const op = "follow"

	if targetID.IsZero() {
		return false, validationError(op, "user id is required")
	}
	if targetID == actor.ID {
		return false, validationError(op, "you cannot follow yourself")
	}
	target, err := e.store.FindUser(ctx, targetID)
	if err != nil {
		return false, lookupFailure(op, "user", err)
	}
	return e.toggle(ctx, op, models.Followers, target.ID, actor.ID, target.Followers)
}

// UpdateProfile replaces the actor's bio and/or profile picture. A new
// picture is uploaded and written first; the previous picture is destroyed
// once nothing points at it any more. If the write fails the fresh upload is
// destroyed instead.
func (e *Engine) UpdateProfile(ctx context.Context, actor *models.User, bio *string, media *Upload) (*models.User, error) {
	const op = "update-profile"

	if bio == nil && media == nil {
		return nil, validationError(op, "nothing to update")
	}
	current, err := e.store.FindUser(ctx, actor.ID)
	if err != nil {
		return nil, lookupFailure(op, "user", err)
	}

	update := models.ProfileUpdate{Bio: bio}
	var stored *StoredMedia
	if media != nil {
		s, err := e.media.Upload(ctx, *media)
		if err != nil {
			return nil, mediaFailure(op, "upload", err)
		}
		stored = &s
		update.ProfilePic = &s.URL
		update.PublicID = &s.Handle
	}

	if err := e.store.UpdateProfile(ctx, actor.ID, update); err != nil {
		if stored != nil {
			e.release(ctx, op, stored.Handle)
		}
		return nil, lookupFailure(op, "user", err)
	}

	var releaseErr error
	if stored != nil && current.PublicID != "" {
		if err := e.media.Destroy(ctx, current.PublicID); err != nil {
			e.logger.Error("previous profile picture not released", "actor_id", actor.ID.Hex(), "handle", current.PublicID, "error", err)
			releaseErr = mediaFailure(op, "destroy previous picture", err)
		}
	}

	updated, err := e.store.FindUser(ctx, actor.ID)
	if err != nil {
		return nil, lookupFailure(op, "user", err)
	}
	return updated, releaseErr
}

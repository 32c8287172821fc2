// Package engine keeps the denormalized social graph coherent. Every
// mutation writes one primary document and then propagates set-membership
// changes to the documents that reference it, in a fixed order.
//
// There are no multi-document transactions: each step is a single-document
// (or single updateMany) write, so a failure mid-sequence leaves the earlier
// steps committed. Steps only add or remove set members, which makes a
// repeated step harmless; Reconcile repairs what a crashed sequence left
// behind.
package engine

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

const DefaultPageSize = 3

type Engine struct {
	store    Store
	media    MediaStore
	logger   *slog.Logger
	pageSize int64
	now      func() time.Time
}

type Option func(*Engine)

// WithPageSize sets the number of posts per ListPosts page.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = int64(n)
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(store Store, media MediaStore, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		media:    media,
		logger:   logger,
		pageSize: DefaultPageSize,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Media exposes the media store for read paths that stream files.
func (e *Engine) Media() MediaStore {
	return e.media
}

// link adds member to rel on owner. All add propagation goes through here.
func (e *Engine) link(ctx context.Context, op string, rel models.Relation, owner, member primitive.ObjectID) error {
	if err := e.store.AddMember(ctx, rel, owner, member); err != nil {
		e.logger.Error("reference add failed",
			"op", op,
			"relation", rel,
			"owner", owner.Hex(),
			"member", member.Hex(),
			"error", err,
		)
		return writeFailure(op, ownerNoun(rel), err)
	}
	return nil
}

// unlink removes member from rel on owner. All remove propagation goes
// through here.
func (e *Engine) unlink(ctx context.Context, op string, rel models.Relation, owner, member primitive.ObjectID) error {
	if err := e.store.RemoveMember(ctx, rel, owner, member); err != nil {
		e.logger.Error("reference remove failed",
			"op", op,
			"relation", rel,
			"owner", owner.Hex(),
			"member", member.Hex(),
			"error", err,
		)
		return writeFailure(op, ownerNoun(rel), err)
	}
	return nil
}

// toggle flips member's presence in rel on owner, given the list as last
// read, and reports whether member is present afterwards. Two concurrent
// toggles by the same member race; the last write wins.
func (e *Engine) toggle(ctx context.Context, op string, rel models.Relation, owner, member primitive.ObjectID, current []primitive.ObjectID) (bool, error) {
	if contains(current, member) {
		return false, e.unlink(ctx, op, rel, owner, member)
	}
	return true, e.link(ctx, op, rel, owner, member)
}

// release destroys a media handle whose owning write did not happen.
func (e *Engine) release(ctx context.Context, op, handle string) {
	if err := e.media.Destroy(ctx, handle); err != nil {
		e.logger.Error("failed to release media", "op", op, "handle", handle, "error", err)
	}
}

func ownerNoun(rel models.Relation) string {
	if rel.Owner() == models.PostCollection {
		return "post"
	}
	return "user"
}

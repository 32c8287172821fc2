package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/engine"
)

func TestErrorMatching(t *testing.T) {
	err := &engine.Error{Kind: engine.KindNotFound, Op: "get-post", Msg: "post not found"}

	assert.True(t, errors.Is(err, engine.ErrNotFound))
	assert.False(t, errors.Is(err, engine.ErrConflict))
	assert.Equal(t, "get-post: post not found", err.Error())
	assert.Equal(t, "post not found", engine.Message(err))
	assert.Equal(t, "NOT_FOUND", engine.KindNotFound.String())
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("socket closed")
	err := &engine.Error{Kind: engine.KindStorage, Op: "repost", Msg: "storage failure during load post", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, engine.ErrStorage)
	assert.Contains(t, err.Error(), "socket closed")
	assert.Equal(t, engine.KindStorage, engine.KindOf(err))
}

func TestErrorHelpersOnForeignErrors(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, engine.Kind(0), engine.KindOf(err))
	assert.Equal(t, "internal error", engine.Message(err))
	assert.Equal(t, "UNKNOWN", engine.Kind(0).String())
}

func TestOperationsReturnTypedErrors(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.engine.GetPost(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	var e *engine.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "get-post", e.Op)
	assert.Equal(t, "post not found", e.Msg)

	_, err = f.engine.LikePost(context.Background(), alice, primitive.NewObjectID())
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

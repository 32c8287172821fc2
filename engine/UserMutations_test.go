package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/engine"
	"threadline/models"
)

func TestFollow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	following, err := f.engine.Follow(ctx, alice, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, []primitive.ObjectID{alice.ID}, f.reload(t, bob.ID).Followers)
	assert.Empty(t, f.reload(t, alice.ID).Followers)

	following, err = f.engine.Follow(ctx, alice, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Empty(t, f.reload(t, bob.ID).Followers)
}

func TestFollowErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.engine.Follow(ctx, alice, alice.ID)
	requireKind(t, err, engine.KindValidation)
	assert.Empty(t, f.reload(t, alice.ID).Followers)

	_, err = f.engine.Follow(ctx, alice, primitive.NewObjectID())
	requireKind(t, err, engine.KindNotFound)

	_, err = f.engine.Follow(ctx, alice, primitive.NilObjectID)
	requireKind(t, err, engine.KindValidation)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("bio only", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")
		bio := "I post things"

		updated, err := f.engine.UpdateProfile(ctx, alice, &bio, nil)
		require.NoError(t, err)
		assert.Equal(t, bio, updated.Bio)
		assert.Equal(t, models.DefaultProfilePic, updated.ProfilePic)
	})

	t.Run("new picture replaces the previous one", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")

		first, err := f.engine.UpdateProfile(ctx, alice, nil, imageUpload("one"))
		require.NoError(t, err)
		require.Equal(t, 1, f.media.Len())

		second, err := f.engine.UpdateProfile(ctx, alice, nil, imageUpload("two"))
		require.NoError(t, err)
		assert.Equal(t, 1, f.media.Len())
		assert.NotEqual(t, first.ProfilePic, second.ProfilePic)
		assert.NotEqual(t, first.PublicID, second.PublicID)

		_, _, err = f.media.Open(ctx, first.PublicID)
		assert.Error(t, err)
		_, _, err = f.media.Open(ctx, second.PublicID)
		assert.NoError(t, err)
	})

	t.Run("failed write releases the fresh upload", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")

		e := f.withStore(&faultyStore{Store: f.store, updateErr: errors.New("write conflict")}, f.media)
		_, err := e.UpdateProfile(ctx, alice, nil, imageUpload("one"))
		requireKind(t, err, engine.KindStorage)
		assert.Equal(t, 0, f.media.Len())
		assert.Equal(t, models.DefaultProfilePic, f.reload(t, alice.ID).ProfilePic)
	})

	t.Run("failed upload changes nothing", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")
		bio := "new bio"

		e := f.withStore(f.store, &brokenMedia{MediaStore: f.media, uploadErr: errors.New("too large")})
		_, err := e.UpdateProfile(ctx, alice, &bio, imageUpload("one"))
		requireKind(t, err, engine.KindMedia)
		assert.Empty(t, f.reload(t, alice.ID).Bio)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice")
		_, err := f.engine.UpdateProfile(ctx, alice, nil, nil)
		requireKind(t, err, engine.KindValidation)
	})
}

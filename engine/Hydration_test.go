package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/engine"
	"threadline/models"
)

func TestListPostsPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	for _, text := range []string{"one", "two", "three", "four"} {
		f.textPost(t, alice, text)
	}

	first, err := f.engine.ListPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, engine.DefaultPageSize)
	assert.Equal(t, "four", first[0].Text)
	assert.Equal(t, "three", first[1].Text)
	assert.Equal(t, "two", first[2].Text)

	second, err := f.engine.ListPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "one", second[0].Text)

	empty, err := f.engine.ListPosts(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)

	clamped, err := f.engine.ListPosts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first, clamped)
}

func TestListPostsPageSizeOption(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	for i := 0; i < 3; i++ {
		f.textPost(t, alice, "post")
	}

	e := engine.New(f.store, f.media, discardLogger(), engine.WithPageSize(2))
	page, err := e.ListPosts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestGetPostHydratesReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.textPost(t, alice, "hello")
	comment, err := f.engine.AddComment(ctx, bob, post.ID, "hi")
	require.NoError(t, err)
	_, err = f.engine.LikePost(ctx, bob, post.ID)
	require.NoError(t, err)

	view, err := f.engine.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Admin)
	assert.Equal(t, "alice", view.Admin.Username)
	require.Len(t, view.Likes, 1)
	assert.Equal(t, "bob", view.Likes[0].Username)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, comment.ID, view.Comments[0].ID)
	require.NotNil(t, view.Comments[0].Admin)
	assert.Equal(t, "bob", view.Comments[0].Admin.Username)

	_, err = f.engine.GetPost(ctx, primitive.NewObjectID())
	requireKind(t, err, engine.KindNotFound)
}

func TestHydrationDropsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	post := f.textPost(t, alice, "hello")
	comment, err := f.engine.AddComment(ctx, bob, post.ID, "hi")
	require.NoError(t, err)

	ghost := primitive.NewObjectID()
	require.NoError(t, f.store.AddMember(ctx, models.Likes, post.ID, ghost))
	require.NoError(t, f.store.AddMember(ctx, models.Reposts, bob.ID, primitive.NewObjectID()))
	require.NoError(t, f.store.AddMember(ctx, models.Followers, alice.ID, ghost))
	require.NoError(t, f.store.DeleteComment(ctx, comment.ID))

	view, err := f.engine.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Likes)
	assert.Empty(t, view.Comments)

	profile, err := f.engine.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Replies)
	assert.Empty(t, profile.Reposts)

	profile, err = f.engine.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Followers)
	require.Len(t, profile.Threads, 1)
	assert.Equal(t, post.ID, profile.Threads[0].ID)
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	own := f.textPost(t, alice, "mine")
	theirs := f.textPost(t, bob, "theirs")
	require.NoError(t, f.engine.Repost(ctx, alice, theirs.ID))
	reply, err := f.engine.AddComment(ctx, alice, theirs.ID, "nice")
	require.NoError(t, err)
	_, err = f.engine.Follow(ctx, bob, alice.ID)
	require.NoError(t, err)

	profile, err := f.engine.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, bob.ID, profile.Followers[0].ID)
	require.Len(t, profile.Threads, 1)
	assert.Equal(t, own.ID, profile.Threads[0].ID)
	require.Len(t, profile.Reposts, 1)
	assert.Equal(t, theirs.ID, profile.Reposts[0].ID)
	assert.Equal(t, "bob", profile.Reposts[0].Admin.Username)
	require.Len(t, profile.Replies, 1)
	assert.Equal(t, reply.ID, profile.Replies[0].ID)

	_, err = f.engine.GetProfile(ctx, primitive.NewObjectID())
	requireKind(t, err, engine.KindNotFound)
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "alice")
	f.user(t, "bob")

	found, err := f.engine.SearchUsers(ctx, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)

	found, err = f.engine.SearchUsers(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = f.engine.SearchUsers(ctx, "a.*")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = f.engine.SearchUsers(ctx, "  ")
	requireKind(t, err, engine.KindValidation)
}

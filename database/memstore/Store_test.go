package memstore

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"threadline/engine"
	"threadline/models"
)

var _ engine.Store = (*Store)(nil)
var _ engine.MediaStore = (*Media)(nil)

func TestDuplicateEmailIsADuplicateKeyError(t *testing.T) {
	ctx := context.Background()
	s := New()
	first := models.NewUser("alice", "alice@example.com", "x", time.Now())
	require.NoError(t, s.CreateUser(ctx, &first))

	second := models.NewUser("alice2", "alice@example.com", "y", time.Now())
	err := s.CreateUser(ctx, &second)
	require.Error(t, err)
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestMissingDocuments(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := primitive.NewObjectID()

	_, err := s.FindUser(ctx, id)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	_, err = s.FindPost(ctx, id)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.ErrorIs(t, s.DeletePost(ctx, id), mongo.ErrNoDocuments)
	assert.ErrorIs(t, s.DeleteComment(ctx, id), mongo.ErrNoDocuments)
	assert.ErrorIs(t, s.AddMember(ctx, models.Likes, id, id), mongo.ErrNoDocuments)
	assert.ErrorIs(t, s.RemoveMember(ctx, models.Followers, id, id), mongo.ErrNoDocuments)
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := models.NewUser("alice", "alice@example.com", "x", time.Now())
	require.NoError(t, s.CreateUser(ctx, &u))

	got, err := s.FindUser(ctx, u.ID)
	require.NoError(t, err)
	got.Followers = append(got.Followers, primitive.NewObjectID())

	again, err := s.FindUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Followers)
}

func TestMembersHaveSetSemantics(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := models.NewPost(primitive.NewObjectID(), "hello", time.Now())
	require.NoError(t, s.CreatePost(ctx, &p))
	liker := primitive.NewObjectID()

	require.NoError(t, s.AddMember(ctx, models.Likes, p.ID, liker))
	require.NoError(t, s.AddMember(ctx, models.Likes, p.ID, liker))
	got, err := s.FindPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{liker}, got.Likes)

	require.NoError(t, s.RemoveMember(ctx, models.Likes, p.ID, liker))
	require.NoError(t, s.RemoveMember(ctx, models.Likes, p.ID, liker))
	got, err = s.FindPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestPurgeMembers(t *testing.T) {
	ctx := context.Background()
	s := New()
	post := primitive.NewObjectID()
	other := primitive.NewObjectID()

	a := models.NewUser("a", "a@example.com", "x", time.Now())
	a.Threads = []primitive.ObjectID{post, other}
	b := models.NewUser("b", "b@example.com", "x", time.Now())
	b.Reposts = []primitive.ObjectID{post}
	c := models.NewUser("c", "c@example.com", "x", time.Now())
	c.Threads = []primitive.ObjectID{other}
	for _, u := range []*models.User{&a, &b, &c} {
		require.NoError(t, s.CreateUser(ctx, u))
	}

	n, err := s.PurgeMembers(ctx,
		models.Pull{Relation: models.Threads, Members: []primitive.ObjectID{post}},
		models.Pull{Relation: models.Reposts, Members: []primitive.ObjectID{post}},
		models.Pull{Relation: models.Replies},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, _ := s.FindUser(ctx, a.ID)
	assert.Equal(t, []primitive.ObjectID{other}, got.Threads)
	got, _ = s.FindUser(ctx, b.ID)
	assert.Empty(t, got.Reposts)
	got, _ = s.FindUser(ctx, c.ID)
	assert.Equal(t, []primitive.ObjectID{other}, got.Threads)
}

func TestListPostsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []primitive.ObjectID
	for i := 0; i < 5; i++ {
		p := models.NewPost(primitive.NewObjectID(), "p", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreatePost(ctx, &p))
		ids = append(ids, p.ID)
	}

	page, err := s.ListPosts(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, err = s.ListPosts(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	page, err = s.ListPosts(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSearchUsersIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := models.NewUser("Alice", "alice@example.com", "x", time.Now())
	require.NoError(t, s.CreateUser(ctx, &u))

	found, err := s.SearchUsers(ctx, "aLiC")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMedia(t *testing.T) {
	ctx := context.Background()
	m := NewMedia("http://localhost:8000/")

	stored, err := m.Upload(ctx, engine.Upload{Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("bytes")})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/images/"+stored.Handle, stored.URL)

	rc, contentType, err := m.Open(ctx, stored.Handle)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(body))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, m.Destroy(ctx, stored.Handle))
	assert.NoError(t, m.Destroy(ctx, stored.Handle), "destroying a released handle succeeds")
	_, _, err = m.Open(ctx, stored.Handle)
	assert.ErrorIs(t, err, ErrMediaNotFound)
	assert.Equal(t, 0, m.Len())
}

package engine_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/database/memstore"
	"threadline/engine"
	"threadline/models"
)

type fixture struct {
	engine *engine.Engine
	store  *memstore.Store
	media  *memstore.Media
	clock  *fakeClock
}

type fakeClock struct {
	t time.Time
}

// Now advances one second per call so creation order is strict.
func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	media := memstore.NewMedia("http://localhost:8000/")
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return &fixture{
		engine: engine.New(store, media, discardLogger(), engine.WithClock(clock.Now)),
		store:  store,
		media:  media,
		clock:  clock,
	}
}

// withStore rebuilds the engine over a wrapped store and media store.
func (f *fixture) withStore(store engine.Store, media engine.MediaStore) *engine.Engine {
	return engine.New(store, media, discardLogger(), engine.WithClock(f.clock.Now))
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.engine.Register(context.Background(), name, name+"@example.com", "secret-"+name)
	require.NoError(t, err)
	return u
}

func (f *fixture) reload(t *testing.T, id primitive.ObjectID) *models.User {
	t.Helper()
	u, err := f.store.FindUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, id primitive.ObjectID) *models.Post {
	t.Helper()
	p, err := f.store.FindPost(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) textPost(t *testing.T, actor *models.User, text string) *models.Post {
	t.Helper()
	p, err := f.engine.AddPost(context.Background(), actor, text, nil)
	require.NoError(t, err)
	return p
}

func imageUpload(body string) *engine.Upload {
	return &engine.Upload{Filename: "pic.png", ContentType: "image/png", Body: strings.NewReader(body)}
}

func requireKind(t *testing.T, err error, kind engine.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, engine.KindOf(err), "error: %v", err)
}

// faultyStore fails selected steps to reproduce a crash mid-cascade.
type faultyStore struct {
	engine.Store
	purgeErr      error
	deletePostErr error
	addErr        error
	addRel        models.Relation
	updateErr     error
}

func (s *faultyStore) PurgeMembers(ctx context.Context, pulls ...models.Pull) (int64, error) {
	if s.purgeErr != nil {
		return 0, s.purgeErr
	}
	return s.Store.PurgeMembers(ctx, pulls...)
}

func (s *faultyStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	if s.deletePostErr != nil {
		return s.deletePostErr
	}
	return s.Store.DeletePost(ctx, id)
}

func (s *faultyStore) AddMember(ctx context.Context, rel models.Relation, owner, member primitive.ObjectID) error {
	if s.addErr != nil && rel == s.addRel {
		return s.addErr
	}
	return s.Store.AddMember(ctx, rel, owner, member)
}

func (s *faultyStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.UpdateProfile(ctx, id, update)
}

type brokenMedia struct {
	engine.MediaStore
	uploadErr  error
	destroyErr error
}

func (m *brokenMedia) Upload(ctx context.Context, file engine.Upload) (engine.StoredMedia, error) {
	if m.uploadErr != nil {
		return engine.StoredMedia{}, m.uploadErr
	}
	return m.MediaStore.Upload(ctx, file)
}

func (m *brokenMedia) Destroy(ctx context.Context, handle string) error {
	if m.destroyErr != nil {
		return m.destroyErr
	}
	return m.MediaStore.Destroy(ctx, handle)
}

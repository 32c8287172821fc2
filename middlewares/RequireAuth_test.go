package middlewares

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"threadline/helper"
	"threadline/models"
)

type actorMap map[primitive.ObjectID]*models.User

func (m actorMap) Actor(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func newAuthRouter(actors ActorLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", RequireAuth(actors, "s3cret", slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *gin.Context) {
		user, ok := helper.ExtractActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.Username)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	router := newAuthRouter(actorMap{alice.ID: alice})

	do := func(cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: cookie})
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("no cookie", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"login first"}`, w.Body.String())
	})

	t.Run("tampered token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("abc.def.ghi").Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		token, err := helper.IssueToken(primitive.NewObjectID(), "s3cret", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do(token).Code)
	})

	t.Run("valid session", func(t *testing.T) {
		token, err := helper.IssueToken(alice.ID, "s3cret", time.Hour)
		require.NoError(t, err)
		w := do(token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})
}

func TestRequestIDReusesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

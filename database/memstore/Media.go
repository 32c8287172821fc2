package memstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/engine"
)

var ErrMediaNotFound = errors.New("media not found")

type object struct {
	contentType string
	data        []byte
}

// Media keeps uploaded files in memory. URLs are baseURL + "images/" + handle,
// the same shape the GridFS store produces.
type Media struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]object
}

func NewMedia(baseURL string) *Media {
	return &Media{baseURL: baseURL, objects: make(map[string]object)}
}

func (m *Media) Upload(_ context.Context, file engine.Upload) (engine.StoredMedia, error) {
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return engine.StoredMedia{}, err
	}
	handle := primitive.NewObjectID().Hex()
	m.mu.Lock()
	m.objects[handle] = object{contentType: file.ContentType, data: data}
	m.mu.Unlock()
	return engine.StoredMedia{URL: m.baseURL + "images/" + handle, Handle: handle}, nil
}

func (m *Media) Destroy(_ context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, handle)
	return nil
}

func (m *Media) Open(_ context.Context, handle string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[handle]
	if !ok {
		return nil, "", ErrMediaNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

// Len reports how many files are stored.
func (m *Media) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

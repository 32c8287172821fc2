package database

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"threadline/engine"
)

const defaultContentType = "image/png"

// GridFSMedia stores post and profile images in a GridFS bucket. The handle
// is the file's ObjectID in hex and the public URL points at the image route.
type GridFSMedia struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSMedia(db *mongo.Database, baseURL string) (*GridFSMedia, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSMedia{bucket: bucket, baseURL: baseURL}, nil
}

func (m *GridFSMedia) Upload(ctx context.Context, file engine.Upload) (engine.StoredMedia, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	fileID := primitive.NewObjectID()
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	uploadStream, err := m.bucket.OpenUploadStreamWithID(fileID, file.Filename, opts)
	if err != nil {
		return engine.StoredMedia{}, fmt.Errorf("open upload stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = uploadStream.SetWriteDeadline(deadline)
	}

	if _, err := io.Copy(uploadStream, file.Body); err != nil {
		_ = uploadStream.Abort()
		return engine.StoredMedia{}, fmt.Errorf("write upload stream: %w", err)
	}
	if err := uploadStream.Close(); err != nil {
		return engine.StoredMedia{}, fmt.Errorf("close upload stream: %w", err)
	}

	handle := fileID.Hex()
	return engine.StoredMedia{URL: m.baseURL + "images/" + handle, Handle: handle}, nil
}

func (m *GridFSMedia) Destroy(ctx context.Context, handle string) error {
	fileID, err := primitive.ObjectIDFromHex(handle)
	if err != nil {
		return fmt.Errorf("invalid media handle %q: %w", handle, err)
	}
	if err := m.bucket.DeleteContext(ctx, fileID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("delete media %s: %w", handle, err)
	}
	return nil
}

func (m *GridFSMedia) Open(ctx context.Context, handle string) (io.ReadCloser, string, error) {
	fileID, err := primitive.ObjectIDFromHex(handle)
	if err != nil {
		return nil, "", fmt.Errorf("invalid media handle %q: %w", handle, err)
	}
	stream, err := m.bucket.OpenDownloadStream(fileID)
	if err != nil {
		return nil, "", fmt.Errorf("open media %s: %w", handle, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	contentType := defaultContentType
	if meta := stream.GetFile().Metadata; meta != nil {
		if v, ok := meta.Lookup("contentType").StringValueOK(); ok && v != "" {
			contentType = v
		}
	}
	return stream, contentType, nil
}

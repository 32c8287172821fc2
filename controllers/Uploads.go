package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"threadline/engine"
)

// formUpload opens the multipart file in field. It returns a nil upload when
// the request carries no such file. The caller must call the returned close
// func.
func formUpload(c *gin.Context, field string) (*engine.Upload, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("error in form parse: %w", err)
	}
	src, err := header.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("open %s: %w", field, err)
	}
	upload := &engine.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        src,
	}
	return upload, func() { src.Close() }, nil
}

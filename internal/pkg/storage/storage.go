package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores a file and returns its cleaned relative path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// GetURL returns the public URL of a stored path
	GetURL(ctx context.Context, path string) (string, error)

	// PathFromURL maps a URL produced by GetURL back to its stored path
	PathFromURL(url string) (string, bool)
}

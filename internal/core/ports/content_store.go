package ports

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by ContentStore when a path has no file.
// Callers deleting files treat it as success.
var ErrObjectNotFound = errors.New("content store: object not found")

// ContentStore keeps uploaded files. Paths are the public URLs the files are
// served under, e.g. /uploads/artwork/artwork-1700000000000-42.jpg.
type ContentStore interface {
	// Write stores r under key (e.g. "artwork/artwork-1-2.jpg") and returns its path.
	// It never overwrites an existing object.
	Write(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// Open streams a stored file. The caller closes the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
}

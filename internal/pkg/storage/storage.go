package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage persists uploaded audio blobs.
//
// Put stores content under a freshly generated key and returns the key.
// LocalPath materializes the blob as a local file; the second result is
// true when a temporary file was created and the caller must remove it.
// Delete is idempotent - a missing object is not an error.
type FileStorage interface {
	Put(ctx context.Context, name string, reader io.Reader) (string, error)
	LocalPath(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// newKey makes a collision resistant storage key. The caller supplied name
// contributes the extension only, never the addressing.
func newKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return uuid.New().String() + ext
}

package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid storage key")

// FileStorage keeps uploaded files. Keys are slash separated relative paths
// such as "posters/abc123.png".
type FileStorage interface {
	Upload(ctx context.Context, key string, src io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// PublicURL is the reference stored on the owning record.
	PublicURL(key string) string
	// KeyFromURL reverses PublicURL; ok is false for references this backend does not own.
	KeyFromURL(ref string) (key string, ok bool)
}

package storage

import (
	"context"
	"fmt"
)

// ObjectStore is the binary media boundary. Upload returns the public
// download URL for the stored object; only that URL is ever persisted on a
// note. DeletePrefix is best-effort cleanup and must not block callers on
// failure.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
	PublicURL(key string) string
}

// UploadError means a generated media payload could not be persisted to
// object storage after bounded retries. The content entry it would have
// backed is left untouched; no partial URL is ever stored.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// MediaKey builds the deterministic object key for a note's media kind.
func MediaKey(userId, noteId, kind, ext string) string {
	return fmt.Sprintf("media/%s/%s/%s.%s", userId, noteId, kind, ext)
}

// MediaPrefix is the key prefix holding all media for one note.
func MediaPrefix(userId, noteId string) string {
	return fmt.Sprintf("media/%s/%s/", userId, noteId)
}

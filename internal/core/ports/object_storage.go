package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores uploaded files (category icons, task attachments).
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL for key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is the subset of remote object metadata the app cares
// about.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the only surface through which the app touches the
// object store. The S3 implementation lives in s3.go; tests use
// in-memory fakes.
type ObjectStore interface {
	Save(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SignedURLTTL is how long generated read URLs stay valid. URLs are
// regenerated on every fetch and never persisted.
const SignedURLTTL = 24 * time.Hour

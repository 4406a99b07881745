// Package filestore defines the unified interface for the object storage
// backends that hold exported schema documents.
//
// All providers (MinIO, S3-compatible services, …) implement the Store
// interface. Callers depend only on this package — never on a specific
// provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	key := filestore.SnapshotKey("inventory")
//	_, err = store.PutObject(ctx, cfg.DefaultBucket, key, buf, int64(buf.Len()), "application/yaml")
package filestore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store is the single interface all storage providers must implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources (connections, goroutines, etc.).
	Close() error

	// EnsureBucket creates the bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject uploads size bytes from r to key inside bucket.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// GetObject opens a streaming handle to the object at key inside bucket.
	// The caller MUST call Object.Close() after reading.
	GetObject(ctx context.Context, bucket, key string) (Object, error)

	// StatObject returns metadata for the object at key inside bucket
	// without downloading its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)
}

// SnapshotKey builds a unique object key for one exported schema snapshot
// of the named database: snapshots/<db>/<date>-<uuid>.yaml.
func SnapshotKey(db string) string {
	return fmt.Sprintf("snapshots/%s/%s-%s.yaml",
		db, time.Now().UTC().Format("20060102"), uuid.NewString())
}

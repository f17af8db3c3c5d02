// Package storage abstracts blob persistence for uploaded files.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// Upload carries one request-scoped file payload into the services.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Store defines the blob operations the services depend on.
type Store interface {
	// Put stores the upload under the given bucket and returns the blob path.
	Put(ctx context.Context, bucket string, up Upload) (string, error)

	// URL returns the public URL for a stored blob path.
	URL(blobPath string) string

	// Delete removes a stored blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, blobPath string) error

	// Exists checks whether a blob is present.
	Exists(ctx context.Context, blobPath string) (bool, error)

	// List returns all blob paths under a bucket.
	List(ctx context.Context, bucket string) ([]string, error)
}

// Config holds storage configuration.
type Config struct {
	Driver    string // local or s3
	BasePath  string // for local storage
	BaseURL   string // public URL base
	Bucket    string // for S3-compatible backends
	Region    string
	Endpoint  string // for R2 or custom S3
	AccessKey string
	SecretKey string
}

// New creates a Store based on configuration.
func New(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalStore(cfg)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}

// blobName builds a collision-free name preserving the upload's extension.
func blobName(bucket, filename string) string {
	return path.Join(bucket, uuid.NewString()+path.Ext(filename))
}

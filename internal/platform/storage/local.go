package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements Store on the local filesystem. Blobs live under
// BasePath and are served from BaseURL by the HTTP layer.
type LocalStore struct {
	basePath string
	baseURL  string
}

// NewLocalStore constructs a LocalStore, creating the base directory.
func NewLocalStore(cfg Config) (*LocalStore, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base path: %w", err)
	}
	return &LocalStore{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// BasePath returns the directory blobs are written to.
func (s *LocalStore) BasePath() string {
	return s.basePath
}

// Put writes the upload to disk and returns the blob path.
func (s *LocalStore) Put(ctx context.Context, bucket string, up Upload) (string, error) {
	name := blobName(bucket, up.Filename)
	full := filepath.Join(s.basePath, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: create bucket dir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage: create blob: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, up.Content); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: write blob: %w", err)
	}
	return name, nil
}

// URL returns the public URL for a blob path.
func (s *LocalStore) URL(blobPath string) string {
	return s.baseURL + "/" + blobPath
}

// Delete removes a blob. A missing blob is not an error.
func (s *LocalStore) Delete(ctx context.Context, blobPath string) error {
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(blobPath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete blob: %w", err)
	}
	return nil
}

// Exists checks whether a blob is present on disk.
func (s *LocalStore) Exists(ctx context.Context, blobPath string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.basePath, filepath.FromSlash(blobPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns all blob paths under a bucket.
func (s *LocalStore) List(ctx context.Context, bucket string) ([]string, error) {
	root := filepath.Join(s.basePath, bucket)
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list bucket: %w", err)
	}
	return paths, nil
}

var _ Store = (*LocalStore)(nil)

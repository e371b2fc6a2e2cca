// Package storage keeps uploaded resumes, answer recordings and proctoring
// snapshots. Keys are opaque slash-separated paths chosen by the caller.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"go-interview-backend/config"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// FileStore is the blob store used by intake, the resolver and the
// interview endpoints.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds a unique key under prefix that keeps the original extension.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, uuid.NewString()+ext)
}

// NewFromConfig selects the backend named by STORAGE_DRIVER.
func NewFromConfig(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStore(cfg.StorageLocalDir)
	case "s3":
		return NewS3Store(ctx, S3ConfigFromApp(cfg))
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
}

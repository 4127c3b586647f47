// Package storage persists product images either on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"storefront/pkg/config"

	"github.com/google/uuid"
)

// ImageStore is satisfied by both drivers.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

// New picks the driver named by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.LocalURL)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// ProductImageKey names an uploaded product image. The original file name
// only contributes its extension.
func ProductImageKey(filename string) string {
	return "products/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
}

package storage

import (
	"context"
	"io"
	"time"
)

// ReceiptRepository abstracts object storage for expense receipts
type ReceiptRepository interface {
	// Upload stores data at objectPath and returns the stored path
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)

	// Delete removes the object at objectPath
	Delete(ctx context.Context, objectPath string) error

	// GeneratePresignedURL returns a temporary GET URL for the object
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

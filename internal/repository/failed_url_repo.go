package repository

import (
	"context"

	"github.com/akazwz/extract/internal/entity"
)

// FailedURLRepository defines the interface for managing URLs whose
// extraction failed.
type FailedURLRepository interface {
	// SaveOrUpdate creates or updates a record for a failed URL.
	SaveOrUpdate(ctx context.Context, failedURL *entity.FailedURL) error
	// FindByURL retrieves the failure record for a specific URL, if any.
	FindByURL(ctx context.Context, url string) (*entity.FailedURL, error)
	// FindRetryable retrieves a batch of URLs that are due for a retry.
	FindRetryable(ctx context.Context, limit int) ([]*entity.FailedURL, error)
	// Delete removes a failed URL record, typically after a successful extraction.
	Delete(ctx context.Context, url string) error
}

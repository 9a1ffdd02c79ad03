package repository

import (
	"context"

	"github.com/akazwz/extract/internal/browser"
	"github.com/akazwz/extract/internal/entity"
)

// ExtractorRepository defines the contract for the actual in-browser image
// extraction mechanism.
type ExtractorRepository interface {
	// Extract loads a URL on the given browser and returns the deduplicated
	// image inventory observed during the page load. Page creation,
	// navigation and render failures propagate; per-image irregularities
	// degrade to best-effort records instead.
	Extract(ctx context.Context, h *browser.Handle, url string) (*entity.ImageInventory, error)
}

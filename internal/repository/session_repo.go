package repository

import (
	"context"

	"github.com/akazwz/extract/internal/browser"
)

// SessionRepository defines the contract for obtaining a usable remote
// browser connection.
type SessionRepository interface {
	// Acquire resolves a browser handle through an ordered set of fallback
	// paths. Individual path failures are absorbed; a nil handle means every
	// path was exhausted. Acquire never returns an error.
	Acquire(ctx context.Context) *browser.Handle
}

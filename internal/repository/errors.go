package repository

import "errors"

var (
	// ErrNoBrowserAvailable reports that every acquisition path (session
	// reuse, launch, direct endpoint) came up empty for one attempt.
	ErrNoBrowserAvailable = errors.New("no browser available through any acquisition path")

	// ErrExtractionTimeout reports that the page did not finish loading and
	// rendering within the configured deadline.
	ErrExtractionTimeout = errors.New("extraction timed out")

	// ErrNavigationFailed reports that the browser could not commit
	// navigation to the target URL.
	ErrNavigationFailed = errors.New("navigation failed")
)

package entity

import "time"

type ExtractionStatus struct {
	URL             string
	CurrentStatus   string // "pending", "extracting", "completed", "failed", "not_found"
	LastExtractedAt *time.Time
	NextRetryAt     *time.Time
	FailureReason   string
}

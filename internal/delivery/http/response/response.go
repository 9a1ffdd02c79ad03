package response

import (
	"time"

	"github.com/akazwz/extract/internal/entity"
)

type SubmitExtractResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	ExtractRequestID string `json:"extract_request_id"`
}

// ExtractionStatusResponse is a DTO for extraction status, mirroring entity.ExtractionStatus
type ExtractionStatusResponse struct {
	URL             string     `json:"url"`
	CurrentStatus   string     `json:"current_status"` // "pending", "extracting", "completed", "failed"
	LastExtractedAt *time.Time `json:"last_extracted_at,omitempty"`
	NextRetryAt     *time.Time `json:"next_retry_at,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
}

// ImagesResponse carries a persisted image inventory for one URL.
type ImagesResponse struct {
	URL          string               `json:"url"`
	PageTitle    string               `json:"page_title"`
	Images       []entity.ImageRecord `json:"images"`
	ImageCount   int                  `json:"image_count"`
	DecodedCount int                  `json:"decoded_count"`
	ExtractedAt  time.Time            `json:"extracted_at"`
}

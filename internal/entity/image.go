package entity

import "time"

// ImageRecord represents one image response observed while a page loaded.
// Width, Height and Decoded stay zero-valued until the in-page decode pass
// succeeds for this record.
type ImageRecord struct {
	Src      string `json:"src"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Width    int64  `json:"width"`
	Height   int64  `json:"height"`
	Decoded  bool   `json:"decoded"`
}

// Key returns the identity used for deduplication. Two records with the
// same (src, mime type) pair are the same image; the first one observed wins.
func (r ImageRecord) Key() string {
	return r.Src + "\x00" + r.MimeType
}

// ImageInventory mirrors the `image_inventories` PostgreSQL table schema.
type ImageInventory struct {
	ID                 int64
	URL                string
	PageTitle          string
	Images             []ImageRecord // Stored as JSONB in PostgreSQL
	ImageCount         int
	DecodedCount       int
	ExtractionTimeMS   int
	ExtractedTimestamp time.Time
}

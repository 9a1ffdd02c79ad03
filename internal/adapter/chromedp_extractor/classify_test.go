package chromedp_extractor

import (
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akazwz/extract/internal/entity"
)

func TestIsImageResponse(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		want        bool
	}{
		{"content type prefix", "https://example.com/asset", "image/png", true},
		{"permissive content type", "https://example.com/asset", "image", true},
		{"svg content type", "https://example.com/logo", "image/svg+xml", true},
		{"extension only, no content type", "https://example.com/photo.JPG", "", true},
		{"extension only, text content type", "https://example.com/pic.webp", "text/plain", true},
		{"query string after extension", "https://example.com/a.png?v=2", "", true},
		{"non-image, no extension", "https://example.com/index.html", "text/html", false},
		{"non-image, unrecognized extension", "https://example.com/movie.mp4", "video/mp4", false},
		{"no content type, no recognized suffix", "https://example.com/api/data", "", false},
		{"extension inside path segment only", "https://example.com/png/listing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isImageResponse(tt.url, tt.contentType))
		})
	}
}

func TestInferMimeType(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		want        string
	}{
		{"header wins", "https://example.com/a.gif", "image/png", "image/png"},
		{"gif from suffix", "https://example.com/banner.gif", "", "image/gif"},
		{"jpeg normalized from jpg suffix", "https://example.com/a.jpg", "", "image/jpeg"},
		{"svg from suffix", "https://example.com/icon.svg", "", "image/svg+xml"},
		{"unknown sentinel", "https://example.com/mystery", "", "image/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferMimeType(tt.url, tt.contentType))
		})
	}
}

func TestRecordFromResponse(t *testing.T) {
	t.Run("builds record from image response", func(t *testing.T) {
		rec, ok := recordFromResponse(&network.Response{
			URL:      "https://example.com/hero.png",
			MimeType: "image/png",
			Headers:  network.Headers{"Content-Length": "12345"},
		})
		require.True(t, ok)
		assert.Equal(t, "https://example.com/hero.png", rec.Src)
		assert.Equal(t, "image/png", rec.MimeType)
		assert.Equal(t, int64(12345), rec.Size)
		assert.False(t, rec.Decoded)
		assert.Zero(t, rec.Width)
		assert.Zero(t, rec.Height)
	})

	t.Run("excludes non-image response", func(t *testing.T) {
		_, ok := recordFromResponse(&network.Response{
			URL:      "https://example.com/app.js",
			MimeType: "application/javascript",
		})
		assert.False(t, ok)
	})

	t.Run("falls back to content-type header when mime missing", func(t *testing.T) {
		rec, ok := recordFromResponse(&network.Response{
			URL:     "https://example.com/resource",
			Headers: network.Headers{"content-type": "image/webp"},
		})
		require.True(t, ok)
		assert.Equal(t, "image/webp", rec.MimeType)
	})

	t.Run("infers mime from gif suffix without content type", func(t *testing.T) {
		rec, ok := recordFromResponse(&network.Response{
			URL: "https://example.com/loader.gif",
		})
		require.True(t, ok)
		assert.Equal(t, "image/gif", rec.MimeType)
	})

	t.Run("data URI sized by its character length", func(t *testing.T) {
		src := "data:image/png;base64,AAAA"
		rec, ok := recordFromResponse(&network.Response{
			URL:      src,
			MimeType: "image/png",
			Headers:  network.Headers{"Content-Length": "999"},
		})
		require.True(t, ok)
		assert.Equal(t, int64(len(src)), rec.Size)
	})

	t.Run("malformed content-length degrades to zero", func(t *testing.T) {
		rec, ok := recordFromResponse(&network.Response{
			URL:      "https://example.com/a.png",
			MimeType: "image/png",
			Headers:  network.Headers{"Content-Length": "not-a-number"},
		})
		require.True(t, ok)
		assert.Zero(t, rec.Size)
	})

	t.Run("non-string header value is ignored", func(t *testing.T) {
		rec, ok := recordFromResponse(&network.Response{
			URL:      "https://example.com/a.png",
			MimeType: "image/png",
			Headers:  network.Headers{"Content-Length": 42},
		})
		require.True(t, ok)
		assert.Zero(t, rec.Size)
	})
}

func TestDedupRecords(t *testing.T) {
	t.Run("keeps first occurrence per src and mime pair", func(t *testing.T) {
		records := []entity.ImageRecord{
			{Src: "https://example.com/a.png", MimeType: "image/png", Size: 100},
			{Src: "https://example.com/b.jpg", MimeType: "image/jpeg", Size: 200},
			{Src: "https://example.com/a.png", MimeType: "image/png", Size: 999},
		}

		deduped := dedupRecords(records)

		require.Len(t, deduped, 2)
		assert.Equal(t, "https://example.com/a.png", deduped[0].Src)
		assert.Equal(t, int64(100), deduped[0].Size, "first occurrence must win")
		assert.Equal(t, "https://example.com/b.jpg", deduped[1].Src)
	})

	t.Run("same src with different mime types are distinct", func(t *testing.T) {
		records := []entity.ImageRecord{
			{Src: "https://example.com/a", MimeType: "image/png"},
			{Src: "https://example.com/a", MimeType: "image/webp"},
		}
		assert.Len(t, dedupRecords(records), 2)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, dedupRecords(nil))
	})
}

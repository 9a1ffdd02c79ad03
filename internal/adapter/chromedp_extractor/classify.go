package chromedp_extractor

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/network"

	"github.com/akazwz/extract/internal/entity"
	"github.com/akazwz/extract/pkg/utils"
)

// mimeTypeUnknown is the sentinel assigned when neither the response headers
// nor the URL suffix identify the image format.
const mimeTypeUnknown = "image/unknown"

// imageExtensions maps recognized image URL suffixes to the MIME type
// inferred when the response carries no content type of its own.
var imageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"ico":  "image/x-icon",
	"svg":  "image/svg+xml",
}

// isImageResponse classifies a network response as an image when its content
// type starts with "image" or its URL path carries a recognized extension.
// Any content type with the "image" prefix qualifies, "image/unknown" included.
func isImageResponse(rawURL, contentType string) bool {
	if strings.HasPrefix(contentType, "image") {
		return true
	}
	_, ok := imageExtensions[urlExtension(rawURL)]
	return ok
}

// inferMimeType resolves the record MIME type: content type header first,
// then URL suffix inference, then the unknown sentinel.
func inferMimeType(rawURL, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if mt, ok := imageExtensions[urlExtension(rawURL)]; ok {
		return mt
	}
	return mimeTypeUnknown
}

// urlExtension returns the lowercased path suffix of a URL without the dot,
// or "" when the URL has none or cannot be parsed.
func urlExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// recordFromResponse builds an ImageRecord for a qualifying network
// response. The bool result is false for non-image responses.
func recordFromResponse(resp *network.Response) (entity.ImageRecord, bool) {
	contentType := resp.MimeType
	if contentType == "" {
		contentType = headerValue(resp.Headers, "content-type")
	}
	if !isImageResponse(resp.URL, contentType) {
		return entity.ImageRecord{}, false
	}
	return entity.ImageRecord{
		Src:      resp.URL,
		Size:     responseSize(resp),
		MimeType: inferMimeType(resp.URL, contentType),
	}, true
}

// responseSize derives the byte size of a response. For data: URIs the
// character length of the URI itself is reported, not the decoded payload
// size.
func responseSize(resp *network.Response) int64 {
	if utils.IsDataURI(resp.URL) {
		return int64(len(resp.URL))
	}
	if v := headerValue(resp.Headers, "content-length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}

func headerValue(headers network.Headers, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// dedupRecords keeps the first record for each distinct (src, mime type)
// pair, preserving discovery order.
func dedupRecords(records []entity.ImageRecord) []entity.ImageRecord {
	seen := make(map[string]struct{}, len(records))
	deduped := make([]entity.ImageRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}

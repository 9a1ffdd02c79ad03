package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// IsDataURI reports whether a URL is an inline data: URI rather than a
// fetchable resource location.
func IsDataURI(rawURL string) bool {
	return strings.HasPrefix(rawURL, "data:")
}

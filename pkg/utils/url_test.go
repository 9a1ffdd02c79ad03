package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashURL(t *testing.T) {
	h := HashURL("https://example.com")

	assert.Len(t, h, 64)
	assert.Equal(t, h, HashURL("https://example.com"))
	assert.NotEqual(t, h, HashURL("https://example.com/"))
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURI("https://example.com/a.png"))
	assert.False(t, IsDataURI(""))
}

package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	png, err := Render("https://example.com")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG\r\n\x1a\n"))
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI("https://example.com")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Greater(t, len(uri), len("data:image/png;base64,"))
}

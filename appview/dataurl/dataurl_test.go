package dataurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}

	u := Encode("image/gif", payload)
	assert.True(t, IsDataURL(u))

	mimeType, data, err := Decode(u)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", mimeType)
	assert.Equal(t, payload, data)
}

func TestDecodeRejectsPlainURLs(t *testing.T) {
	_, _, err := Decode("https://cdn.bsky.app/banner.jpg")
	assert.Error(t, err)
}

func TestDecodeRejectsNonBase64Encoding(t *testing.T) {
	_, _, err := Decode("data:text/plain,hello")
	assert.Error(t, err)
}

func TestEncodeDefaultsMimeType(t *testing.T) {
	u := Encode("", []byte("x"))
	mimeType, _, err := Decode(u)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mimeType)
}

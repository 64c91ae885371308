package dataurl

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode packs raw bytes into a base64 data url, the same shape the
// browser's FileReader produces.
func Encode(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Decode splits a base64 data url back into its mime type and raw
// bytes. Plain urls (http, at, blob refs) are not data urls and
// return an error.
func Decode(u string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}

	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("unsupported data url encoding")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data url payload: %w", err)
	}

	return mimeType, data, nil
}

// IsDataURL reports whether the given image reference is an inline
// data url rather than a remote address.
func IsDataURL(u string) bool {
	return strings.HasPrefix(u, "data:")
}

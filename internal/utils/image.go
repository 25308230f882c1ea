package utils

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64Image decodes a base64 image payload, stripping an optional
// "data:image/...;base64," prefix first.
func DecodeBase64Image(payload string) ([]byte, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
}

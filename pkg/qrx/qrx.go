// Package qrx renders QR codes as PNG images.
package qrx

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrEmptyContent is returned for empty or whitespace-only content.
var ErrEmptyContent = errors.New("qrx: content cannot be empty")

// DefaultSize is the image edge length in pixels used when size <= 0.
const DefaultSize = 256

// PNG encodes content as a QR code with medium error correction.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrx: encode: %w", err)
	}
	return png, nil
}

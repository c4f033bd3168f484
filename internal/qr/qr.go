// Package qr renders QR code images for short URLs.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// Render encodes the given URL as a PNG QR code image.
func Render(url string) ([]byte, error) {
	const op = "qr.Render"

	png, err := qrcode.Encode(url, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode qr code: %w", op, err)
	}

	return png, nil
}

// DataURI renders the QR code for the given URL as a base64 data URI
// suitable for embedding in JSON responses.
func DataURI(url string) (string, error) {
	const op = "qr.DataURI"

	png, err := Render(url)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

package utils

import (
	"bytes"
	"errors"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// GenerateShareQR creates a 300x300 QR code PNG for a listing share link
func GenerateShareQR(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

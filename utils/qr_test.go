package utils

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateShareQR(t *testing.T) {
	data, err := GenerateShareQR("https://mintora.app/nft/507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("GenerateShareQR failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 300 {
		t.Errorf("expected 300x300 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateShareQRRejectsEmpty(t *testing.T) {
	if _, err := GenerateShareQR(""); err == nil {
		t.Error("expected error for empty content")
	}
}

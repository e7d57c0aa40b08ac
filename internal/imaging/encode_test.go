package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"testing"
)

func TestPNGBytes_RoundTrip(t *testing.T) {
	img := createInMemoryImage(30, 20, color.NRGBA{200, 100, 50, 255})

	data, err := PNGBytes(img)
	if err != nil {
		t.Fatalf("PNGBytes failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode produced PNG: %v", err)
	}

	if decoded.Bounds().Dx() != 30 || decoded.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}

	r, g, b := rgbAt(t, decoded, 15, 10)
	if r != 200 || g != 100 || b != 50 {
		t.Errorf("pixel: got (%d,%d,%d), want (200,100,50)", r, g, b)
	}
}

func TestEncodeRender(t *testing.T) {
	img := createInMemoryImage(50, 40, color.NRGBA{255, 0, 0, 255})

	result, err := EncodeRender(img)
	if err != nil {
		t.Fatalf("EncodeRender failed: %v", err)
	}

	if result.Width != 50 || result.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 50x40", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("payload is not valid PNG: %v", err)
	}
}

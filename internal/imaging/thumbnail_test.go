package imaging

import (
	"image/color"
	"strings"
	"testing"
)

func TestThumbnail_PreservesAspectRatio(t *testing.T) {
	tests := []struct {
		name         string
		w, h, target int
		wantW, wantH int
	}{
		{"landscape", 400, 200, 100, 200, 100},
		{"portrait", 200, 400, 100, 50, 100},
		{"square", 300, 300, 64, 64, 64},
		{"extreme aspect clamps width", 1, 1000, 10, 1, 10},
		{"non-positive height", 100, 100, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(tt.w, tt.h, color.NRGBA{50, 60, 70, 255})
			thumb := Thumbnail(img, tt.target)

			if thumb.Bounds().Dx() != tt.wantW || thumb.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					thumb.Bounds().Dx(), thumb.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestThumbnailDataURI(t *testing.T) {
	img := createInMemoryImage(80, 40, color.NRGBA{50, 60, 70, 255})

	uri, err := ThumbnailDataURI(img, 20)
	if err != nil {
		t.Fatalf("ThumbnailDataURI failed: %v", err)
	}

	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("unexpected prefix: %s", uri[:30])
	}
}

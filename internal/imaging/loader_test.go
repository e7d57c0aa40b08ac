package imaging

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG writes a solid-color PNG to dir and returns its path
func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := createInMemoryImage(w, h, color.NRGBA{128, 64, 32, 255})
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png", 40, 30)

	cache := NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestImageCache_LoadCached(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png", 10, 10)

	cache := NewImageCache()
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	// Remove the backing file; the cached copy must still be served.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove test image: %v", err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("cached image width: got %d, want 10", img.Bounds().Dx())
	}
}

func TestImageCache_Evict(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png", 10, 10)

	cache := NewImageCache()
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove test image: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail after eviction of a deleted file")
	}
}

func TestImageCache_LoadMissingFile(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestImageCache_LoadUndecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write junk file: %v", err)
	}

	cache := NewImageCache()
	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for undecodable data")
	}
}

func TestDecode(t *testing.T) {
	img := createInMemoryImage(25, 35, color.NRGBA{1, 2, 3, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	decoded, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %s, want png", format)
	}
	if decoded.Bounds().Dx() != 25 || decoded.Bounds().Dy() != 35 {
		t.Errorf("dimensions: got %dx%d, want 25x35",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("garbage"))); err == nil {
		t.Error("Decode should fail for garbage input")
	}
}

func TestGetDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png", 400, 600)

	cache := NewImageCache()
	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}

	if dims.Width != 400 || dims.Height != 600 {
		t.Errorf("dimensions: got %dx%d, want 400x600", dims.Width, dims.Height)
	}
}

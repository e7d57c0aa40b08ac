// Package fitting implements the virtual fitting room service: photo intake,
// avatar handling, and rendering a clothing item onto a photo.
//
// All state a render depends on travels in an explicit Request; the Room
// itself only owns immutable wiring (directories, catalog, cache, bounds).
package fitting

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/SandySeal/virtualFitting/internal/catalog"
	"github.com/SandySeal/virtualFitting/internal/config"
	"github.com/SandySeal/virtualFitting/internal/fsutil"
	"github.com/SandySeal/virtualFitting/internal/imaging"
)

var (
	// ErrPhotoNotFound indicates the referenced photo does not exist.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrBadPhotoID indicates a photo reference that is neither the avatar
	// nor a valid upload ID.
	ErrBadPhotoID = errors.New("invalid photo id")
)

// AvatarID is the reserved photo ID naming the saved avatar.
const AvatarID = "avatar"

// Request carries everything a single render depends on. It is constructed
// per request and never stored.
type Request struct {
	// PhotoID references an uploaded photo, or AvatarID for the saved
	// avatar.
	PhotoID string `form:"photo" json:"photo"`

	// Item is the clothing item name from the catalog.
	Item string `form:"item" json:"item"`

	// Scale resizes the clothing image. Zero means "not set" and renders
	// at 1.0; other values are clamped to the configured bounds.
	Scale float64 `form:"scale" json:"scale"`

	// OffsetX and OffsetY shift the clothing from the centered position,
	// clamped to half the photo's width and height.
	OffsetX int `form:"dx" json:"dx"`
	OffsetY int `form:"dy" json:"dy"`
}

// Room wires the compositor to its collaborators: the photo directories, the
// clothing catalog, and the image cache. It is safe for concurrent use.
type Room struct {
	log      *slog.Logger
	cache    *imaging.ImageCache
	catalog  *catalog.Catalog
	photoDir string
	avatar   string
	minScale float64
	maxScale float64
}

// NewRoom creates a Room rooted at the configured image directory, creating
// the photo and avatar directories if needed.
func NewRoom(cfg *config.Config, cat *catalog.Catalog, log *slog.Logger) (*Room, error) {
	photoDir := cfg.ImageRoot
	avatarDir := filepath.Join(cfg.ImageRoot, "avatars")

	for _, dir := range []string{photoDir, avatarDir} {
		if err := fsutil.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	return &Room{
		log:      log,
		cache:    imaging.NewImageCache(),
		catalog:  cat,
		photoDir: photoDir,
		avatar:   filepath.Join(avatarDir, "avatar.png"),
		minScale: cfg.MinScale,
		maxScale: cfg.MaxScale,
	}, nil
}

// Catalog returns the room's clothing catalog.
func (room *Room) Catalog() *catalog.Catalog {
	return room.catalog
}

// SavePhoto decodes an uploaded photo and stores it as PNG under a fresh ID.
//
// Any decodable raster (PNG, JPEG, GIF, WebP) is accepted; the stored copy is
// always PNG, so every later read is format-independent.
func (room *Room) SavePhoto(r io.Reader) (string, error) {
	img, format, err := imaging.Decode(r)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	path := room.photoPath(id)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	defer f.Close()

	if err := imaging.EncodePNG(f, img); err != nil {
		return "", err
	}

	room.log.Info("photo stored", "id", id, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return id, nil
}

// PhotoPath resolves a photo ID to its file path.
//
// The reserved ID "avatar" resolves to the saved avatar. Returns
// ErrBadPhotoID for IDs that are not UUIDs and ErrPhotoNotFound when the
// backing file is absent.
func (room *Room) PhotoPath(id string) (string, error) {
	var path string
	switch {
	case id == AvatarID:
		path = room.avatar
	default:
		if _, err := uuid.Parse(id); err != nil {
			return "", fmt.Errorf("%w: %q", ErrBadPhotoID, id)
		}
		path = room.photoPath(id)
	}

	exists, err := fsutil.Exists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrPhotoNotFound, id)
	}
	return path, nil
}

// HasAvatar reports whether a saved avatar exists.
func (room *Room) HasAvatar() bool {
	exists, err := fsutil.Exists(room.avatar)
	return err == nil && exists
}

// SaveAvatar stores the referenced photo as the avatar, replacing any
// previous one. The avatar is reloaded automatically on the next visit.
func (room *Room) SaveAvatar(photoID string) error {
	src, err := room.PhotoPath(photoID)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read photo %s: %w", photoID, err)
	}
	if err := os.WriteFile(room.avatar, data, 0o644); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}

	// The path now refers to different pixels.
	room.cache.Evict(room.avatar)

	room.log.Info("avatar saved", "photo", photoID)
	return nil
}

// BaseDimensions returns the dimensions of the referenced photo. The page
// uses them to bound the offset controls to half the photo size.
func (room *Room) BaseDimensions(photoID string) (*imaging.DimensionsResult, error) {
	path, err := room.PhotoPath(photoID)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(room.cache, path)
}

// ItemImage loads the catalog image for the named clothing item.
func (room *Room) ItemImage(name string) (image.Image, error) {
	path, err := room.catalog.ImagePath(name)
	if err != nil {
		return nil, err
	}
	return room.cache.Load(path)
}

// Render produces the composite for the given request.
//
// The clothing image is scaled (bounded by the configured scale range),
// centered on the photo, shifted by the requested offsets (bounded by half
// the photo size), and alpha-blended onto a copy of the photo. The photo on
// disk is never modified.
func (room *Room) Render(req Request) (*image.NRGBA, error) {
	basePath, err := room.PhotoPath(req.PhotoID)
	if err != nil {
		return nil, err
	}
	base, err := room.cache.Load(basePath)
	if err != nil {
		return nil, err
	}

	overlay, err := room.ItemImage(req.Item)
	if err != nil {
		return nil, err
	}

	scale := req.Scale
	if scale == 0 {
		scale = 1.0
	}
	scale = clampFloat(scale, room.minScale, room.maxScale)

	bounds := base.Bounds()
	dx := clampInt(req.OffsetX, -bounds.Dx()/2, bounds.Dx()/2)
	dy := clampInt(req.OffsetY, -bounds.Dy()/2, bounds.Dy()/2)

	return imaging.Composite(base, overlay, scale, image.Pt(dx, dy)), nil
}

func (room *Room) photoPath(id string) string {
	return filepath.Join(room.photoDir, id+".png")
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// minOverlaySide is the smallest side length the resized overlay may have.
//
// The scale control reaches values where round(side * scale) would hit zero,
// and a zero-sized resize degenerates into a no-op paste. Rather than guess
// at a visually meaningful floor, the overlay is clamped to a single pixel
// per side, which keeps the paste well-defined at any positive scale.
const minOverlaySide = 1

// Composite alpha-blends overlay onto a copy of base and returns the result.
//
// The overlay is resized by scale using Lanczos resampling, centered on the
// base canvas, shifted by offset, and pasted using its per-pixel alpha as the
// blend mask (dst = dst*(1-a) + overlay*a). Overlays without an alpha channel
// are treated as fully opaque.
//
// Parameters:
//   - base: The canvas image. Never mutated.
//   - overlay: The image to blend on top.
//   - scale: Positive resize factor for the overlay. Non-positive or
//     degenerate values are clamped so the resized overlay keeps at least one
//     pixel per side. Values far from 1.0 are accepted but degrade quality.
//   - offset: Pixel shift applied after centering. May be negative or exceed
//     the canvas bounds; overlay pixels outside the canvas are clipped.
//
// Returns a new *image.NRGBA with the same dimensions as base. The result
// shares no pixel storage with either input, so mutating the inputs afterward
// does not affect it.
func Composite(base, overlay image.Image, scale float64, offset image.Point) *image.NRGBA {
	resized := ScaleOverlay(overlay, scale)
	pos := centeredPosition(base.Bounds(), resized.Bounds(), offset)
	return CompositeAt(base, resized, pos)
}

// CompositeAt alpha-blends overlay onto a copy of base at an absolute
// position, without resizing or centering.
//
// pos is the destination coordinate of the overlay's top-left corner, in the
// base canvas's coordinate space. Out-of-canvas overlay pixels are clipped.
// The returned image has base's dimensions and independent storage.
func CompositeAt(base, overlay image.Image, pos image.Point) *image.NRGBA {
	return imaging.Overlay(base, overlay, pos, 1.0)
}

// ScaleOverlay resizes overlay by scale using Lanczos resampling.
//
// Target dimensions are round(width*scale) x round(height*scale), each
// clamped to at least one pixel. Lanczos is used in both directions to avoid
// aliasing whether the clothing image is being enlarged or shrunk.
func ScaleOverlay(overlay image.Image, scale float64) *image.NRGBA {
	bounds := overlay.Bounds()

	w := int(math.Round(float64(bounds.Dx()) * scale))
	h := int(math.Round(float64(bounds.Dy()) * scale))
	if w < minOverlaySide {
		w = minOverlaySide
	}
	if h < minOverlaySide {
		h = minOverlaySide
	}

	return imaging.Resize(overlay, w, h, imaging.Lanczos)
}

// centeredPosition computes the paste coordinate for an overlay centered on
// the base canvas and shifted by offset:
//
//	((W-w)/2 + offset.X, (H-h)/2 + offset.Y)
func centeredPosition(base, overlay image.Rectangle, offset image.Point) image.Point {
	x := (base.Dx()-overlay.Dx())/2 + offset.X
	y := (base.Dy()-overlay.Dy())/2 + offset.Y
	return image.Pt(x, y)
}

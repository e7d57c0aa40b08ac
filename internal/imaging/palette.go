package imaging

import (
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorFrequency represents a color and its occurrence frequency in a
// rendered look.
type ColorFrequency struct {
	// Hex color "#rrggbb" (quantized).
	Hex string `json:"hex"`

	// Percentage of pixels with this color (0-100).
	Percentage float64 `json:"percentage"`

	// HSL components of the quantized color: hue 0-360, saturation and
	// lightness 0-100.
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	Lightness  int `json:"lightness"`
}

// PaletteResult contains the most frequently occurring colors in an image,
// sorted by frequency in descending order (most common first).
type PaletteResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// Palette extracts the N most common colors from an image.
//
// The fitting page shows the palette of the current look so users can match
// the selected clothing against the rest of an outfit.
//
// Parameters:
//   - img: The source image to analyze, typically a rendered composite.
//   - count: Maximum number of colors to return. If the image has fewer
//     distinct colors after quantization, fewer results are returned.
//
// # Color Quantization
//
// To group similar colors, RGB components are quantized to multiples of 16
// ((original / 16) * 16), so colors within 16 units of each other per
// component count as one. Fully transparent pixels are skipped.
func Palette(img image.Image, count int) *PaletteResult {
	bounds := img.Bounds()

	freq := make(map[uint32]int)
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}

			// Convert from 16-bit to 8-bit and quantize
			r8 := (uint32(r>>8) / 16) * 16
			g8 := (uint32(g>>8) / 16) * 16
			b8 := (uint32(b>>8) / 16) * 16

			freq[r8<<16|g8<<8|b8]++
			total++
		}
	}

	type entry struct {
		key   uint32
		count int
	}
	entries := make([]entry, 0, len(freq))
	for k, n := range freq {
		entries = append(entries, entry{key: k, count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	if count < len(entries) {
		entries = entries[:count]
	}

	colors := make([]ColorFrequency, 0, len(entries))
	for _, e := range entries {
		c := colorful.Color{
			R: float64(e.key>>16&0xFF) / 255.0,
			G: float64(e.key>>8&0xFF) / 255.0,
			B: float64(e.key&0xFF) / 255.0,
		}
		h, s, l := c.Hsl()

		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: math.Round(float64(e.count)/float64(total)*10000) / 100,
			Hue:        int(math.Round(h)),
			Saturation: int(math.Round(s * 100)),
			Lightness:  int(math.Round(l * 100)),
		})
	}

	return &PaletteResult{Colors: colors}
}

// Package imaging provides the image operations behind the virtual fitting
// room: loading and caching rasters, compositing a clothing overlay onto a
// user photo, PNG encoding, thumbnail generation, and palette extraction.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Compositing Model
//
// The central operation is Composite: the overlay is resized by a scale
// factor, centered on the base canvas, shifted by a caller-supplied pixel
// offset, and alpha-blended onto a copy of the base. The base image is never
// mutated, the result never shares storage with it, and the result always has
// the base image's dimensions. Overlay pixels that fall outside the canvas
// are silently clipped.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - File I/O errors during image loading
//   - Undecodable image data
//   - Encoding errors during image output
//
// Compositing itself does not fail: degenerate scale factors are clamped so
// the resized overlay never collapses below one pixel per side.
package imaging

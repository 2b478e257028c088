package preview

// Package preview contains the image capability the asset core depends on:
// decoding basic metadata and deriving width-bounded thumbnails.

// Meta holds decoded image properties.
type Meta struct {
	Width  int
	Height int
	Format string
}

// Processor is the injected image capability.
type Processor interface {
	// Decode extracts width, height and format from encoded image bytes.
	Decode(b []byte) (Meta, error)
	// Resize scales the image down so its width does not exceed maxWidth,
	// preserving aspect ratio and never upscaling beyond the original width.
	Resize(b []byte, maxWidth int) ([]byte, error)
}

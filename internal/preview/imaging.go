package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// imagingProcessor implements Processor on top of disintegration/imaging.
type imagingProcessor struct{}

// NewImaging returns the default image processor.
func NewImaging() Processor {
	return imagingProcessor{}
}

func (imagingProcessor) Decode(b []byte) (Meta, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return Meta{}, fmt.Errorf("decode image config: %w", err)
	}
	return Meta{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

func (imagingProcessor) Resize(b []byte, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		return nil, fmt.Errorf("max width must be positive, got %d", maxWidth)
	}

	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	width := img.Bounds().Dx()
	if maxWidth < width {
		width = maxWidth
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, thumb, encodeFormat(format)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeFormat keeps the source format where imaging can encode it and falls
// back to JPEG otherwise.
func encodeFormat(format string) imaging.Format {
	switch format {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	case "bmp":
		return imaging.BMP
	case "tiff":
		return imaging.TIFF
	default:
		return imaging.JPEG
	}
}

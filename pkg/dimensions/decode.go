package dimensions

import (
	"bytes"
	"fmt"
	"image"
	"io"

	// Registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads only the image header from r and returns its size and format
// name ("jpeg", "png", "gif", "webp", "bmp", "tiff").
func Decode(r io.Reader) (Dimensions, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Dimensions{}, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, format, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (Dimensions, string, error) {
	return Decode(bytes.NewReader(data))
}

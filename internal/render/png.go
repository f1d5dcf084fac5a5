package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// EncodePNG writes the frame's smoothed image as PNG, scaled to outWidth x
// outHeight. Non-positive output dimensions keep the frame's own size.
func EncodePNG(w io.Writer, f *Frame, outWidth, outHeight int) error {
	if outWidth <= 0 {
		outWidth = f.Width
	}
	if outHeight <= 0 {
		outHeight = f.Height
	}
	if outWidth > MaxDimension || outHeight > MaxDimension {
		return fmt.Errorf("%w: output %dx%d", ErrInvalidDimensions, outWidth, outHeight)
	}

	var img image.Image = f.Image
	if outWidth != f.Width || outHeight != f.Height {
		dst := image.NewNRGBA(image.Rect(0, 0, outWidth, outHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), f.Image, f.Image.Bounds(), draw.Src, nil)
		img = dst
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("error encoding overlay PNG: %w", err)
	}
	return nil
}

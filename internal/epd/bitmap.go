package epd

import (
	"fmt"
	"image"
	"image/color"
)

// stride is the number of bytes per packed row.
func stride(width int) int { return (width + 7) / 8 }

// PackBitmap converts src into the panel's row-major, MSB-first 1bpp layout
// where a set bit is white. A source of width x height is packed as is; a
// source of height x width (portrait) is rotated onto the landscape panel.
func PackBitmap(src image.Image, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid panel %dx%d", ErrBitmapSize, width, height)
	}
	rowBytes := stride(width)
	buf := make([]byte, rowBytes*height)
	for i := range buf {
		buf[i] = 0xFF
	}

	bounds := src.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()

	var place func(x, y int) (int, int)
	switch {
	case srcWidth == width && srcHeight == height:
		place = func(x, y int) (int, int) { return x, y }
	case srcWidth == height && srcHeight == width:
		place = func(x, y int) (int, int) { return y, height - 1 - x }
	default:
		return nil, fmt.Errorf("%w: source %dx%d for panel %dx%d", ErrBitmapSize, srcWidth, srcHeight, width, height)
	}

	for y := 0; y < srcHeight; y++ {
		for x := 0; x < srcWidth; x++ {
			if !isBlack(src.At(bounds.Min.X+x, bounds.Min.Y+y)) {
				continue
			}
			px, py := place(x, y)
			buf[py*rowBytes+px/8] &^= 0x80 >> uint(px%8)
		}
	}
	return buf, nil
}

// UnpackBitmap is the inverse of PackBitmap for a native-orientation frame.
func UnpackBitmap(buf []byte, width, height int) (*image.Gray, error) {
	rowBytes := stride(width)
	if len(buf) != rowBytes*height {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBitmapSize, len(buf), rowBytes*height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if buf[y*rowBytes+x/8]&(0x80>>uint(x%8)) != 0 {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img, nil
}

func isBlack(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 0x80
}

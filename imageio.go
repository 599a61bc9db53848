package gridplane

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"

	"github.com/gridplane/gridplane/bitpack"
)

// OpenImage opens and decodes an image file. PNG, JPEG, GIF, and BMP are
// supported.
func OpenImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// OpenImageSource opens an image file and wraps it in a LuminanceSource.
func OpenImageSource(path string) (LuminanceSource, error) {
	img, err := OpenImage(path)
	if err != nil {
		return nil, err
	}
	return NewSource(img), nil
}

// NewSource wraps img in the cheapest LuminanceSource for its type.
func NewSource(img image.Image) LuminanceSource {
	if gray, ok := img.(*image.Gray); ok {
		return NewGraySource(gray)
	}
	return NewImageSource(img)
}

// MatrixImage renders a BitMatrix as a grayscale image with set bits drawn
// black, for diagnostics and file output.
func MatrixImage(matrix *bitpack.BitMatrix) *image.Gray {
	w := matrix.Width()
	h := matrix.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

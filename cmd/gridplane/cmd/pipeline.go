package cmd

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	gridplane "github.com/gridplane/gridplane"
	"github.com/gridplane/gridplane/binarize"
	"github.com/gridplane/gridplane/bitpack"
	"github.com/gridplane/gridplane/warp"
)

const (
	formatText = "text"
	formatPNG  = "png"

	binarizerHistogram = "histogram"
	binarizerAdaptive  = "adaptive"
)

// loadSource opens an image file and wraps it in a LuminanceSource,
// downscaling first when either dimension exceeds maxSize pixels.
func loadSource(path string, maxSize int) (gridplane.LuminanceSource, error) {
	start := time.Now()
	img, err := gridplane.OpenImage(path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	slog.Debug("image loaded",
		"path", path,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"duration", time.Since(start))

	if maxSize > 0 && (bounds.Dx() > maxSize || bounds.Dy() > maxSize) {
		img = downscale(img, maxSize)
		slog.Debug("image downscaled",
			"width", img.Bounds().Dx(),
			"height", img.Bounds().Dy())
	}
	return gridplane.NewSource(img), nil
}

// downscale resizes img so its longer side is maxSize pixels, preserving
// aspect ratio.
func downscale(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() >= bounds.Dy() {
		return imaging.Resize(img, maxSize, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxSize, imaging.Lanczos)
}

// blackMatrix runs the chosen binarizer over the source and returns the
// black/white matrix.
func blackMatrix(name string, source gridplane.LuminanceSource) (*bitpack.BitMatrix, error) {
	bin, err := newBinarizer(name, source)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	matrix, err := gridplane.NewBinaryBitmap(bin).BlackMatrix()
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	slog.Debug("image binarized", "binarizer", name, "duration", time.Since(start))
	return matrix, nil
}

func newBinarizer(name string, source gridplane.LuminanceSource) (gridplane.Binarizer, error) {
	switch name {
	case binarizerHistogram:
		return binarize.NewHistogram(source), nil
	case binarizerAdaptive:
		return binarize.NewAdaptive(source), nil
	default:
		return nil, fmt.Errorf("unknown binarizer %q (want %s or %s)", name, binarizerHistogram, binarizerAdaptive)
	}
}

// emitMatrix writes the matrix as delimited text or a PNG image. Text with
// no output path goes to stdout; PNG always needs a path.
func emitMatrix(matrix *bitpack.BitMatrix, format, output, set, unset string) error {
	switch format {
	case formatText:
		text := matrix.Text(set, unset)
		if output == "" {
			fmt.Print(text)
			return nil
		}
		return os.WriteFile(output, []byte(text), 0o644)
	case formatPNG:
		if output == "" {
			return fmt.Errorf("png output needs --output")
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := png.Encode(f, gridplane.MatrixImage(matrix)); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatPNG)
	}
}

// parseQuad parses eight comma-separated coordinates into corner points
// ordered top-left, top-right, bottom-right, bottom-left.
func parseQuad(s string) (warp.Quad, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 8 {
		return warp.Quad{}, fmt.Errorf("corners need 8 comma-separated values, got %d", len(parts))
	}
	var vals [8]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return warp.Quad{}, fmt.Errorf("corner value %q: %w", part, err)
		}
		vals[i] = v
	}
	return warp.Quad{
		{vals[0], vals[1]},
		{vals[2], vals[3]},
		{vals[4], vals[5]},
		{vals[6], vals[7]},
	}, nil
}

// parseGrid parses a WxH module dimension string.
func parseGrid(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("grid must look like 21x21, got %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("grid width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("grid height %q: %w", parts[1], err)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("grid dimensions must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}

package gridio

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
)

// ImageOptions controls how an image becomes a field.
type ImageOptions struct {
	// MaxSide downsamples images whose longer side exceeds it. Zero keeps
	// the original size.
	MaxSide int
	// Invert maps dark pixels to high values.
	Invert bool
}

// DecodeImage reads a PNG, JPEG, BMP or TIFF image and uses its grayscale
// intensity in [0, 1] as z. Row 0 of the image is the top, so the grid
// origin sits at the bottom-left pixel with y growing upwards.
func DecodeImage(r io.Reader, opts ImageOptions) (*Source, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image grid: %w", err)
	}
	return FromImage(img, opts)
}

// FromImage converts a decoded image into a uniform grid source.
func FromImage(img image.Image, opts ImageOptions) (*Source, error) {
	b := img.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return nil, fmt.Errorf("image grid: %dx%d image is too small", b.Dx(), b.Dy())
	}
	if opts.MaxSide > 1 && (b.Dx() > opts.MaxSide || b.Dy() > opts.MaxSide) {
		img = imaging.Fit(img, opts.MaxSide, opts.MaxSide, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	z := make([][]float64, h)
	for r := 0; r < h; r++ {
		z[r] = make([]float64, w)
		// Grid row 0 is the bottom image row.
		off := (h - 1 - r) * gray.Stride
		for c := 0; c < w; c++ {
			v := float64(gray.Pix[off+4*c]) / 255
			if opts.Invert {
				v = 1 - v
			}
			z[r][c] = v
		}
	}
	return &Source{Kind: Uniform, Z: z, Step: [2]float64{1, 1}}, nil
}

// ToImage renders the source's z values as an 8-bit grayscale image scaled
// to the field's range. Missing nodes are black.
func ToImage(s *Source) image.Image {
	lo, hi := valueRange(s.Z)
	h, w := s.Rows(), s.Cols()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			v := s.Z[r][c]
			if math.IsNaN(v) || hi == lo {
				continue
			}
			img.Pix[(h-1-r)*img.Stride+c] = uint8((v-lo)/(hi-lo)*255 + 0.5)
		}
	}
	return img
}

func valueRange(z [][]float64) (lo, hi float64) {
	first := true
	for _, row := range z {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if first {
				lo, hi, first = v, v, false
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi
}

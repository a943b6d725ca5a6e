package gridio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/contours/internal/testutil"
)

func TestDecodeCSV(t *testing.T) {
	src, err := DecodeCSV(strings.NewReader("# sample\n0, 1, 2\n3,,NaN\n"))
	require.NoError(t, err)
	assert.Equal(t, Uniform, src.Kind)
	assert.Equal(t, 2, src.Rows())
	assert.Equal(t, 3, src.Cols())
	assert.InDelta(t, 2, src.Z[0][2], 0)
	assert.True(t, math.IsNaN(src.Z[1][1]))
	assert.True(t, math.IsNaN(src.Z[1][2]))
}

func TestDecodeCSVErrors(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("0,1\n2,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2 column 2")

	_, err = DecodeCSV(strings.NewReader("# nothing\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestDecodeASC(t *testing.T) {
	body := `ncols 3
nrows 2
xllcorner 0
yllcorner 0
cellsize 2
NODATA_value -9999
1 2 3
4 -9999 6
`
	src, err := DecodeASC(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, src.Z[0])
	assert.True(t, math.IsNaN(src.Z[1][1]))
	assert.Equal(t, [2]float64{1, 3}, src.Origin)
	assert.Equal(t, [2]float64{2, -2}, src.Step)

	gen, err := src.Generator()
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Rows())
}

func TestDecodeASCCentre(t *testing.T) {
	body := "NCOLS 2\nNROWS 2\nXLLCENTER 10\nYLLCENTER 20\nCELLSIZE 1\n0 1\n2 3\n"
	src, err := DecodeASC(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, [2]float64{10, 21}, src.Origin)
}

func TestDecodeASCErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"missing cellsize", "ncols 2\nnrows 2\n0 1\n2 3\n", "missing header cellsize"},
		{"short data", "ncols 2\nnrows 2\ncellsize 1\n0 1 2\n", "got 3 values, want 4"},
		{"long data", "ncols 2\nnrows 2\ncellsize 1\n0 1 2 3 4\n", "more than 4 values"},
		{"unknown header", "ncols 2\nnrows 2\nfoo 1\n", "unknown header"},
		{"bad value", "ncols 2\nnrows 2\ncellsize 1\n0 1 2 x\n", "value 4"},
		{"too small", "ncols 1\nnrows 2\ncellsize 1\n0 1\n", "invalid raster"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeASC(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func grayPNG(t *testing.T, w, h int, f func(x, y int) uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: f(x, y)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	data := grayPNG(t, 3, 2, func(x, y int) uint8 {
		if x == 0 && y == 0 {
			return 255
		}
		return 0
	})

	src, err := DecodeImage(bytes.NewReader(data), ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, src.Rows())
	assert.Equal(t, 3, src.Cols())
	// Top-left pixel lands in the last grid row.
	assert.InDelta(t, 1, src.Z[1][0], 1e-9)
	assert.InDelta(t, 0, src.Z[0][0], 1e-9)

	inv, err := DecodeImage(bytes.NewReader(data), ImageOptions{Invert: true})
	require.NoError(t, err)
	assert.InDelta(t, 0, inv.Z[1][0], 1e-9)
	assert.InDelta(t, 1, inv.Z[0][0], 1e-9)
}

func TestDecodeImageResize(t *testing.T) {
	data := grayPNG(t, 40, 10, func(x, _ int) uint8 { return uint8(x * 6) })
	src, err := DecodeImage(bytes.NewReader(data), ImageOptions{MaxSide: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, src.Cols())
	assert.Equal(t, 5, src.Rows())
}

func TestDecodeImageErrors(t *testing.T) {
	_, err := DecodeImage(strings.NewReader("not an image"), ImageOptions{})
	require.Error(t, err)

	_, err = FromImage(imaging.New(1, 5, color.White), ImageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestToImageRoundTrip(t *testing.T) {
	src := &Source{Kind: Uniform, Z: [][]float64{{0, 0.5}, {1, math.NaN()}}}
	img := ToImage(src)
	assert.Equal(t, 2, img.Bounds().Dx())

	back, err := FromImage(img, ImageOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 0, back.Z[0][0], 1e-9)
	assert.InDelta(t, 128.0/255, back.Z[0][1], 1e-9)
	assert.InDelta(t, 1, back.Z[1][0], 1e-9)
	assert.InDelta(t, 0, back.Z[1][1], 1e-9)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.json": `{"z": [[0, 1], [2, 3]]}`,
		"b.yml":  "z: [[0, 1], [2, 3]]\n",
		"c.csv":  "0,1\n2,3\n",
		"d.asc":  "ncols 2\nnrows 2\ncellsize 1\n0 1\n2 3\n",
	}
	for name, body := range files {
		path := testutil.WriteFile(t, dir, name, body)
		src, err := Load(path, LoadOptions{})
		require.NoError(t, err, name)
		assert.Equal(t, name, src.Name)
		assert.Equal(t, 2, src.Rows(), name)
	}

	pngPath := testutil.WriteFile(t, dir, "e.PNG", string(grayPNG(t, 2, 2, func(x, y int) uint8 { return uint8(x + y) })))
	src, err := Load(pngPath, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, src.Cols())

	_, err = Load(filepath.Join(dir, "f.txt"), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported grid file")

	_, err = Load(filepath.Join(dir, "missing.json"), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open grid")
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".asc")
	assert.Contains(t, exts, ".tiff")
	assert.True(t, IsSupported("grid.YAML"))
	assert.False(t, IsSupported("grid.txt"))
	f, ok := FormatFor("x.bmp")
	assert.True(t, ok)
	assert.Equal(t, FormatImage, f)
}

func TestEncodeCSV(t *testing.T) {
	src := &Source{Kind: Uniform, Z: [][]float64{{0, 1.5}, {math.NaN(), -2}}, Step: [2]float64{1, 1}}
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, src))
	assert.Equal(t, "0,1.5\n,-2\n", buf.String())

	back, err := DecodeCSV(&buf)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(back.Z[1][0]))
	assert.InDelta(t, -2, back.Z[1][1], 0)
}

func TestEncodeASC(t *testing.T) {
	// y grows upwards, so the last row is written first.
	src := &Source{
		Kind:   Uniform,
		Z:      [][]float64{{1, 2}, {3, math.NaN()}},
		Origin: [2]float64{10, 20},
		Step:   [2]float64{0.5, 0.5},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeASC(&buf, src))
	assert.Equal(t, "ncols 2\nnrows 2\nxllcenter 10\nyllcenter 20\ncellsize 0.5\nNODATA_value -9999\n3 -9999\n1 2\n", buf.String())

	back, err := DecodeASC(&buf)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{10, 20.5}, back.Origin)
	assert.Equal(t, [2]float64{0.5, -0.5}, back.Step)
	assert.Equal(t, []float64{3}, back.Z[0][:1])
	assert.True(t, math.IsNaN(back.Z[0][1]))
}

func TestEncodeASCRejectsNonSquareCells(t *testing.T) {
	src := &Source{Kind: Uniform, Z: [][]float64{{0, 1}, {1, 0}}, Step: [2]float64{1, 2}}
	err := EncodeASC(&bytes.Buffer{}, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "square")

	err = EncodeASC(&bytes.Buffer{}, &Source{Kind: Rectilinear})
	require.Error(t, err)
}

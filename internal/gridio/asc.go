package gridio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ascHeader is the header of an ESRI ASCII raster.
type ascHeader struct {
	ncols, nrows int
	x, y         float64
	centre       bool
	cellSize     float64
	noData       float64
	hasNoData    bool
}

// DecodeASC reads an ESRI ASCII raster. Rows are stored north to south, so
// the resulting uniform grid has a negative y step. Cells equal to
// NODATA_value become NaN.
func DecodeASC(r io.Reader) (*Source, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	sc.Split(bufio.ScanWords)

	var h ascHeader
	var pending string
	seen := map[string]bool{}
	for sc.Scan() {
		word := sc.Text()
		key := strings.ToLower(word)
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			pending = word
			break
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("decode asc grid: header %s has no value", word)
		}
		val := sc.Text()
		if err := h.set(key, val); err != nil {
			return nil, fmt.Errorf("decode asc grid: %w", err)
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decode asc grid: %w", err)
	}
	for _, k := range []string{"ncols", "nrows", "cellsize"} {
		if !seen[k] {
			return nil, fmt.Errorf("decode asc grid: missing header %s", k)
		}
	}
	if h.ncols < 2 || h.nrows < 2 || h.cellSize <= 0 {
		return nil, fmt.Errorf("decode asc grid: invalid raster %dx%d cellsize %g", h.nrows, h.ncols, h.cellSize)
	}

	z := make([][]float64, h.nrows)
	for r := range z {
		z[r] = make([]float64, h.ncols)
	}
	n := 0
	take := func(word string) error {
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return fmt.Errorf("decode asc grid: value %d: %w", n+1, err)
		}
		if h.hasNoData && v == h.noData {
			v = math.NaN()
		}
		if n >= h.nrows*h.ncols {
			return fmt.Errorf("decode asc grid: more than %d values", h.nrows*h.ncols)
		}
		z[n/h.ncols][n%h.ncols] = v
		n++
		return nil
	}
	if pending != "" {
		if err := take(pending); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		if err := take(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decode asc grid: %w", err)
	}
	if n != h.nrows*h.ncols {
		return nil, fmt.Errorf("decode asc grid: got %d values, want %d", n, h.nrows*h.ncols)
	}

	// Node positions are cell centres.
	x0, y0 := h.x, h.y
	if !h.centre {
		x0 += h.cellSize / 2
		y0 += h.cellSize / 2
	}
	top := y0 + float64(h.nrows-1)*h.cellSize
	return &Source{
		Kind:   Uniform,
		Z:      z,
		Origin: [2]float64{x0, top},
		Step:   [2]float64{h.cellSize, -h.cellSize},
	}, nil
}

func (h *ascHeader) set(key, val string) error {
	parseInt := func() (int, error) { return strconv.Atoi(val) }
	parseFloat := func() (float64, error) { return strconv.ParseFloat(val, 64) }
	var err error
	switch key {
	case "ncols":
		h.ncols, err = parseInt()
	case "nrows":
		h.nrows, err = parseInt()
	case "xllcorner":
		h.x, err = parseFloat()
	case "yllcorner":
		h.y, err = parseFloat()
	case "xllcenter":
		h.x, err = parseFloat()
		h.centre = true
	case "yllcenter":
		h.y, err = parseFloat()
		h.centre = true
	case "cellsize":
		h.cellSize, err = parseFloat()
	case "nodata_value":
		h.noData, err = parseFloat()
		h.hasNoData = true
	default:
		return fmt.Errorf("unknown header %q", key)
	}
	if err != nil {
		return fmt.Errorf("header %s: %w", key, err)
	}
	return nil
}

const ascNoData = -9999

// EncodeASC writes a uniform grid with square cells as an ESRI ASCII
// raster. Rows are written north to south whatever the sign of the y step.
func EncodeASC(w io.Writer, s *Source) error {
	if s.Kind != Uniform {
		return fmt.Errorf("encode asc grid: %s grids are not supported", s.Kind)
	}
	dx, dy := s.Step[0], s.Step[1]
	if dx <= 0 || math.Abs(dy) != dx {
		return fmt.Errorf("encode asc grid: cells must be square, got step (%g, %g)", dx, dy)
	}
	rows := s.Rows()
	bottom := s.Origin[1]
	if dy < 0 {
		bottom += dy * float64(rows-1)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\nnrows %d\n", s.Cols(), rows)
	fmt.Fprintf(bw, "xllcenter %s\nyllcenter %s\n", strconv.FormatFloat(s.Origin[0], 'g', -1, 64), strconv.FormatFloat(bottom, 'g', -1, 64))
	fmt.Fprintf(bw, "cellsize %s\nNODATA_value %d\n", strconv.FormatFloat(dx, 'g', -1, 64), ascNoData)
	for i := range rows {
		row := s.Z[i]
		if dy > 0 {
			row = s.Z[rows-1-i]
		}
		for c, v := range row {
			if c > 0 {
				bw.WriteByte(' ')
			}
			if math.IsNaN(v) {
				bw.WriteString(strconv.Itoa(ascNoData))
				continue
			}
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode asc grid: %w", err)
	}
	return nil
}

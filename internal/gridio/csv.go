package gridio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DecodeCSV reads a uniform grid with one row of z values per record.
// Empty cells and NaN mark missing nodes; lines starting with '#' are
// skipped.
func DecodeCSV(r io.Reader) (*Source, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 0

	var z [][]float64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv grid: %w", err)
		}
		row := make([]float64, len(rec))
		for c, field := range rec {
			v, err := parseValue(field)
			if err != nil {
				line, _ := cr.FieldPos(c)
				return nil, fmt.Errorf("decode csv grid: line %d column %d: %w", line, c+1, err)
			}
			row[c] = v
		}
		z = append(z, row)
	}
	if len(z) == 0 {
		return nil, errors.New("decode csv grid: no rows")
	}
	return &Source{Kind: Uniform, Z: z, Step: [2]float64{1, 1}}, nil
}

func parseValue(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "nan") {
		return nan, nil
	}
	return strconv.ParseFloat(field, 64)
}

// EncodeCSV writes the z values of s one row per record. Missing nodes are
// written as empty fields. Coordinates are not preserved.
func EncodeCSV(w io.Writer, s *Source) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0, s.Cols())
	for _, row := range s.Z {
		rec = rec[:0]
		for _, v := range row {
			if math.IsNaN(v) {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("encode csv grid: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode csv grid: %w", err)
	}
	return nil
}

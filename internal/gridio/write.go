package gridio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/peterstace/simplefeatures/geom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/format"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Output formats written by Write.
const (
	OutputJSON   = "json"
	OutputYAML   = "yaml"
	OutputWKT    = "wkt"
	OutputMatlab = "matlab"
	OutputText   = "text"
)

// Output collects the results of one run over a grid. Exactly one of Lines
// and Polygons is populated.
type Output struct {
	Source   string
	Lines    []*contours.LineSet
	Polygons []*contours.PolygonSet
}

// Filled reports whether the output holds filled bands.
func (o *Output) Filled() bool { return len(o.Polygons) > 0 }

// Vertices returns the total number of vertices in the output.
func (o *Output) Vertices() int {
	n := 0
	for _, set := range o.Lines {
		for _, l := range set.Lines {
			n += len(l.Points)
		}
	}
	for _, set := range o.Polygons {
		for _, p := range set.Polygons {
			n += len(p.Exterior)
			for _, h := range p.Holes {
				n += len(h)
			}
		}
	}
	return n
}

// WriteOptions controls output rendering.
type WriteOptions struct {
	Format string
	// Precision rounds coordinates to this many decimals; negative keeps
	// full precision.
	Precision int
	// Language selects number formatting for text output.
	Language string
}

// Write renders out in the requested format.
func Write(w io.Writer, out *Output, opts WriteOptions) error {
	switch opts.Format {
	case OutputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newResultDoc(out, opts.Precision))
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newResultDoc(out, opts.Precision)); err != nil {
			return err
		}
		return enc.Close()
	case OutputWKT:
		return writeWKT(w, out)
	case OutputMatlab:
		return writeMatlab(w, out, opts.Precision)
	case OutputText:
		return writeText(w, out, opts)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

type resultDoc struct {
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`
	Mode   string     `json:"mode" yaml:"mode"`
	Levels []levelDoc `json:"levels" yaml:"levels"`
}

type levelDoc struct {
	Level    *float64     `json:"level,omitempty" yaml:"level,omitempty"`
	Lower    *float64     `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper    *float64     `json:"upper,omitempty" yaml:"upper,omitempty"`
	Lines    []lineDoc    `json:"lines,omitempty" yaml:"lines,omitempty"`
	Polygons []polygonDoc `json:"polygons,omitempty" yaml:"polygons,omitempty"`
}

type lineDoc struct {
	Closed bool         `json:"closed" yaml:"closed"`
	Points [][2]float64 `json:"points" yaml:"points,flow"`
}

type polygonDoc struct {
	Exterior [][2]float64   `json:"exterior" yaml:"exterior,flow"`
	Holes    [][][2]float64 `json:"holes,omitempty" yaml:"holes,omitempty,flow"`
}

func newResultDoc(out *Output, precision int) resultDoc {
	doc := resultDoc{Source: out.Source, Mode: "lines"}
	for _, set := range out.Lines {
		level := set.Level
		ld := levelDoc{Level: &level, Lines: []lineDoc{}}
		for _, l := range set.Lines {
			ld.Lines = append(ld.Lines, lineDoc{Closed: l.Closed, Points: pairs(l.Points, precision)})
		}
		doc.Levels = append(doc.Levels, ld)
	}
	if out.Filled() {
		doc.Mode = "filled"
	}
	for _, set := range out.Polygons {
		ld := levelDoc{Lower: openBound(set.Lower), Upper: openBound(set.Upper), Polygons: []polygonDoc{}}
		for _, p := range set.Polygons {
			pd := polygonDoc{Exterior: pairs(p.Exterior, precision)}
			for _, h := range p.Holes {
				pd.Holes = append(pd.Holes, pairs(h, precision))
			}
			ld.Polygons = append(ld.Polygons, pd)
		}
		doc.Levels = append(doc.Levels, ld)
	}
	if doc.Levels == nil {
		doc.Levels = []levelDoc{}
	}
	return doc
}

// openBound returns nil for the sentinel of an open band side.
func openBound(v float64) *float64 {
	if v == -math.MaxFloat64 || v == math.MaxFloat64 {
		return nil
	}
	return &v
}

// label names a level for WKT and text output.
func label(level format.Level) string {
	if !level.Filled {
		return strconv.FormatFloat(level.Lower, 'g', -1, 64)
	}
	lo, hi := "-inf", "+inf"
	if openBound(level.Lower) != nil {
		lo = strconv.FormatFloat(level.Lower, 'g', -1, 64)
	}
	if openBound(level.Upper) != nil {
		hi = strconv.FormatFloat(level.Upper, 'g', -1, 64)
	}
	return "[" + lo + ", " + hi + "]"
}

func pairs(pts []utils.Point, precision int) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{round(p.X, precision), round(p.Y, precision)}
	}
	return out
}

func round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

func formatFloat(v float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(round(v, precision), 'f', -1, 64)
}

// writeWKT writes one line per geometry: the level, a tab, then the WKT.
func writeWKT(w io.Writer, out *Output) error {
	emit := func(level format.Level, vertices [][]utils.Point, codes [][]format.PathCode) error {
		res, err := format.Geometry(level, vertices, codes)
		if err != nil {
			return err
		}
		gs, _ := res.([]geom.Geometry)
		for _, g := range gs {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", label(level), g.AsText()); err != nil {
				return err
			}
		}
		return nil
	}
	for _, set := range out.Lines {
		if err := emit(format.LineLevel(set.Level), format.EncodeLines(set), nil); err != nil {
			return err
		}
	}
	for _, set := range out.Polygons {
		vertices, codes := format.EncodePolygons(set)
		if err := emit(format.BandLevel(set.Lower, set.Upper), vertices, codes); err != nil {
			return err
		}
	}
	return nil
}

// writeMatlab writes the packed MATLAB array of every level, one row per
// line.
func writeMatlab(w io.Writer, out *Output, precision int) error {
	emit := func(level format.Level, vertices [][]utils.Point, codes [][]format.PathCode) error {
		res, err := format.Matlab(level, vertices, codes)
		if err != nil {
			return err
		}
		packed, _ := res.(format.Packed)
		for _, row := range packed {
			if _, err := fmt.Fprintf(w, "%s %s\n", formatFloat(row[0], precision), formatFloat(row[1], precision)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, set := range out.Lines {
		if err := emit(format.LineLevel(set.Level), format.EncodeLines(set), nil); err != nil {
			return err
		}
	}
	for _, set := range out.Polygons {
		vertices, codes := format.EncodePolygons(set)
		if err := emit(format.BandLevel(set.Lower, set.Upper), vertices, codes); err != nil {
			return err
		}
	}
	return nil
}

// writeText writes a human-readable summary with locale-aware numbers.
func writeText(w io.Writer, out *Output, opts WriteOptions) error {
	tag := language.English
	if opts.Language != "" {
		if t, err := language.Parse(opts.Language); err == nil {
			tag = t
		}
	}
	p := message.NewPrinter(tag)
	title := cases.Title(tag)
	prec := opts.Precision
	if prec < 0 || prec > 6 {
		prec = 3
	}

	mode := "lines"
	if out.Filled() {
		mode = "filled"
	}
	if out.Source != "" {
		if _, err := p.Fprintf(w, "%s (%s)\n", out.Source, mode); err != nil {
			return err
		}
	}
	for _, set := range out.Lines {
		closed, verts, length := 0, 0, 0.0
		for _, l := range set.Lines {
			verts += len(l.Points)
			if l.Closed {
				closed++
				length += utils.Perimeter(l.Points)
			} else {
				length += utils.PolylineLength(l.Points)
			}
		}
		if _, err := p.Fprintf(w, "%s %v: %d lines (%d closed), %d vertices, length %v\n",
			title.String("level"), set.Level, len(set.Lines), closed, verts,
			number.Decimal(length, number.Scale(prec))); err != nil {
			return err
		}
	}
	for _, set := range out.Polygons {
		holes, verts, area := 0, 0, 0.0
		for _, poly := range set.Polygons {
			holes += len(poly.Holes)
			verts += len(poly.Exterior)
			area += utils.SignedArea(poly.Exterior)
			for _, h := range poly.Holes {
				verts += len(h)
				area += utils.SignedArea(h)
			}
		}
		if _, err := p.Fprintf(w, "%s %s: %d polygons, %d holes, %d vertices, area %v\n",
			title.String("band"), label(format.BandLevel(set.Lower, set.Upper)), len(set.Polygons), holes, verts,
			number.Decimal(area, number.Scale(prec))); err != nil {
			return err
		}
	}
	return nil
}

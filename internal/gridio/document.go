package gridio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// document is the JSON and YAML representation of a grid:
//
//	{kind: uniform|rectilinear|curvilinear, z, x, y, origin, step, mask}
//
// x and y are 1-D for rectilinear grids and 2-D for curvilinear ones. A
// null z entry marks a missing node.
type document struct {
	Kind   Kind      `json:"kind" yaml:"kind"`
	Z      values    `json:"z" yaml:"z"`
	X      *coords   `json:"x,omitempty" yaml:"x,omitempty"`
	Y      *coords   `json:"y,omitempty" yaml:"y,omitempty"`
	Origin []float64 `json:"origin,omitempty" yaml:"origin,omitempty"`
	Step   []float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Mask   [][]bool  `json:"mask,omitempty" yaml:"mask,omitempty"`
}

// values is a 2-D field whose null entries decode as NaN.
type values [][]float64

func fromNullable(rows [][]*float64) values {
	out := make(values, len(rows))
	for r, row := range rows {
		out[r] = make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				out[r][c] = nan
			} else {
				out[r][c] = *v
			}
		}
	}
	return out
}

func (v *values) UnmarshalJSON(data []byte) error {
	var rows [][]*float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	*v = fromNullable(rows)
	return nil
}

func (v *values) UnmarshalYAML(node *yaml.Node) error {
	var rows [][]*float64
	if err := node.Decode(&rows); err != nil {
		return err
	}
	*v = fromNullable(rows)
	return nil
}

// MarshalJSON writes NaN as null.
func (v values) MarshalJSON() ([]byte, error) {
	rows := make([][]*float64, len(v))
	for r, row := range v {
		rows[r] = make([]*float64, len(row))
		for c := range row {
			if !math.IsNaN(row[c]) {
				rows[r][c] = &row[c]
			}
		}
	}
	return json.Marshal(rows)
}

// coords holds either an axis or a full coordinate array.
type coords struct {
	Axis []float64
	Grid [][]float64
}

func (c *coords) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &c.Axis); err == nil {
		return nil
	}
	c.Axis = nil
	return json.Unmarshal(data, &c.Grid)
}

func (c *coords) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: coordinates must be a sequence", node.Line)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		return node.Decode(&c.Grid)
	}
	return node.Decode(&c.Axis)
}

func (c coords) MarshalJSON() ([]byte, error) {
	if c.Grid != nil {
		return json.Marshal(c.Grid)
	}
	return json.Marshal(c.Axis)
}

func (c coords) MarshalYAML() (any, error) {
	if c.Grid != nil {
		return c.Grid, nil
	}
	return c.Axis, nil
}

// DecodeJSON reads a grid document from r.
func DecodeJSON(r io.Reader) (*Source, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json grid: %w", err)
	}
	return doc.source()
}

// DecodeYAML reads a grid document from r.
func DecodeYAML(r io.Reader) (*Source, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml grid: %w", err)
	}
	return doc.source()
}

// EncodeJSON writes s as a grid document.
func EncodeJSON(w io.Writer, s *Source) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(s))
}

func newDocument(s *Source) document {
	doc := document{Kind: s.Kind, Z: values(s.Z), Mask: s.Mask}
	switch s.Kind {
	case Rectilinear:
		doc.X, doc.Y = &coords{Axis: s.XAxis}, &coords{Axis: s.YAxis}
	case Curvilinear:
		doc.X, doc.Y = &coords{Grid: s.XGrid}, &coords{Grid: s.YGrid}
	default:
		doc.Kind = Uniform
		doc.Origin = s.Origin[:]
		if s.Step != ([2]float64{}) {
			doc.Step = s.Step[:]
		}
	}
	return doc
}

func (d document) source() (*Source, error) {
	if len(d.Z) == 0 {
		return nil, fmt.Errorf("grid document has no z values")
	}
	s := &Source{Kind: d.Kind, Z: d.Z, Mask: d.Mask}
	if s.Kind == "" {
		s.Kind = Uniform
		if d.X != nil && d.Y != nil {
			s.Kind = Rectilinear
			if d.X.Grid != nil {
				s.Kind = Curvilinear
			}
		}
	}

	switch s.Kind {
	case Uniform:
		if len(d.Origin) > 0 {
			if len(d.Origin) != 2 {
				return nil, fmt.Errorf("origin needs 2 values, got %d", len(d.Origin))
			}
			s.Origin = [2]float64{d.Origin[0], d.Origin[1]}
		}
		s.Step = [2]float64{1, 1}
		if len(d.Step) > 0 {
			if len(d.Step) != 2 {
				return nil, fmt.Errorf("step needs 2 values, got %d", len(d.Step))
			}
			s.Step = [2]float64{d.Step[0], d.Step[1]}
		}
	case Rectilinear:
		if d.X == nil || d.Y == nil || d.X.Axis == nil || d.Y.Axis == nil {
			return nil, fmt.Errorf("rectilinear grid needs 1-D x and y")
		}
		s.XAxis, s.YAxis = d.X.Axis, d.Y.Axis
	case Curvilinear:
		if d.X == nil || d.Y == nil || d.X.Grid == nil || d.Y.Grid == nil {
			return nil, fmt.Errorf("curvilinear grid needs 2-D x and y")
		}
		s.XGrid, s.YGrid = d.X.Grid, d.Y.Grid
	default:
		return nil, fmt.Errorf("unknown grid kind %q", d.Kind)
	}
	return s, nil
}

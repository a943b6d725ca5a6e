package format

import "fmt"

// PathCode tags the role of a vertex in a drawing path. The numeric values
// follow the Path convention used by plotting libraries and are stable.
type PathCode uint8

const (
	Stop      PathCode = 0
	MoveTo    PathCode = 1
	LineTo    PathCode = 2
	Curve3    PathCode = 3
	Curve4    PathCode = 4
	ClosePoly PathCode = 79
)

func (c PathCode) String() string {
	switch c {
	case Stop:
		return "STOP"
	case MoveTo:
		return "MOVETO"
	case LineTo:
		return "LINETO"
	case Curve3:
		return "CURVE3"
	case Curve4:
		return "CURVE4"
	case ClosePoly:
		return "CLOSEPOLY"
	default:
		return fmt.Sprintf("PathCode(%d)", uint8(c))
	}
}

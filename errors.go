package contours

import (
	"github.com/MeKo-Tech/contours/internal/common"
)

// Error kinds returned by constructors and queries; test with errors.Is.
var (
	ErrShapeMismatch         = common.ErrShapeMismatch
	ErrInvalidGrid           = common.ErrInvalidGrid
	ErrInvalidLevel          = common.ErrInvalidLevel
	ErrAssemblyInconsistency = common.ErrAssemblyInconsistency
	ErrUnsupportedFormatter  = common.ErrUnsupportedFormatter
)

// Error is the concrete type behind every error kind above.
type Error = common.ContourError

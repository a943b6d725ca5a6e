package gridio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Input formats by name.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
	FormatASC   = "asc"
	FormatImage = "image"
)

var extensions = map[string]string{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".csv":  FormatCSV,
	".asc":  FormatASC,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".bmp":  FormatImage,
	".tif":  FormatImage,
	".tiff": FormatImage,
}

// SupportedExtensions returns the recognised file extensions, sorted.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// FormatFor returns the input format of path by extension.
func FormatFor(path string) (string, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// IsSupported reports whether path has a recognised grid extension.
func IsSupported(path string) bool {
	_, ok := FormatFor(path)
	return ok
}

// LoadOptions tunes file decoding.
type LoadOptions struct {
	Image ImageOptions
}

// Load reads a grid file, picking the decoder by extension.
func Load(path string, opts LoadOptions) (*Source, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported grid file: %s", filepath.Ext(path))
	}
	f, err := os.Open(path) //nolint:gosec // G304: reading user-provided grid path is expected
	if err != nil {
		return nil, fmt.Errorf("open grid: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Decode(f, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = filepath.Base(path)
	return s, nil
}

// Decode reads a grid in the named format from r.
func Decode(r io.Reader, format string, opts LoadOptions) (*Source, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatYAML:
		return DecodeYAML(r)
	case FormatCSV:
		return DecodeCSV(r)
	case FormatASC:
		return DecodeASC(r)
	case FormatImage:
		return DecodeImage(r, opts.Image)
	default:
		return nil, fmt.Errorf("unknown grid format %q", format)
	}
}

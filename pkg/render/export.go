package render

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depviz/pkg/errors"
)

// Format is an image export format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultBaseName is the export file name without extension.
const DefaultBaseName = "visualisation"

var contentTypes = map[Format]string{
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
}

// ParseFormat accepts a format name or file extension, case-insensitively.
// "jpg" is an alias for jpeg.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "jpg" {
		f = FormatJPEG
	}
	if _, ok := contentTypes[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (valid: svg, pdf, png, jpeg)", s)
	}
	return f, nil
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string { return contentTypes[f] }

// Converter turns SVG into PDF or PNG.
type Converter interface {
	Name() string
	Convert(ctx context.Context, svg []byte, format Format) ([]byte, error)
}

// RSVG converts with the rsvg-convert command line tool.
type RSVG struct {
	// Scale is the PNG scale factor. Zero means 2.
	Scale float64
}

func (RSVG) Name() string { return "rsvg" }

// Convert implements [Converter].
func (r RSVG) Convert(ctx context.Context, svg []byte, format Format) ([]byte, error) {
	switch format {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		scale := r.Scale
		if scale == 0 {
			scale = 2
		}
		return ToPNG(ctx, svg, scale)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "rsvg converter cannot produce %s", format)
	}
}

// NewConverter returns the converter with the given name: "rsvg" (the
// default for "") or "chrome".
func NewConverter(name string, scale float64) (Converter, error) {
	switch strings.ToLower(name) {
	case "", "rsvg":
		return RSVG{Scale: scale}, nil
	case "chrome":
		return Chrome{Scale: scale}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown converter %q (valid: rsvg, chrome)", name)
	}
}

// Artifact is one exported file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportOptions tunes [Export].
type ExportOptions struct {
	JPEGQuality int
}

// Export converts svg into format and names the result. An empty filename
// becomes "visualisation.<ext>"; a filename without extension gets one.
// SVG passes through unchanged and JPEG is derived from the converter's PNG.
func Export(ctx context.Context, conv Converter, svg []byte, format Format, filename string, opts ...ExportOptions) (*Artifact, error) {
	var o ExportOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	name, err := exportName(filename, format)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatSVG:
		data = svg
	case FormatPDF, FormatPNG:
		if conv == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "%s export needs a converter", format)
		}
		data, err = conv.Convert(ctx, svg, format)
	case FormatJPEG:
		if conv == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "%s export needs a converter", format)
		}
		var png []byte
		if png, err = conv.Convert(ctx, svg, FormatPNG); err == nil {
			data, err = ToJPEG(png, o.JPEGQuality)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{Filename: name, ContentType: format.ContentType(), Data: data}, nil
}

func exportName(filename string, format Format) (string, error) {
	if filename == "" {
		return DefaultBaseName + "." + string(format), nil
	}
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	if filepath.Ext(filename) == "" {
		return filename + "." + string(format), nil
	}
	return filename, nil
}

package encode

import (
	"fmt"
	"slices"
	"strings"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

// Quality is a resolution and frame-rate preset.
type Quality struct {
	Name   string // one-letter flag value
	Label  string
	Width  int
	Height int
	FPS    int
}

// String returns a short human-readable description ("m: 1280x720 @30fps").
func (q Quality) String() string {
	return fmt.Sprintf("%s: %dx%d @%dfps", q.Name, q.Width, q.Height, q.FPS)
}

// Dir returns the media subdirectory name for the preset ("720p30").
func (q Quality) Dir() string {
	return fmt.Sprintf("%dp%d", q.Height, q.FPS)
}

// Quality presets.
var (
	QualityLow    = Quality{Name: "l", Label: "Low Quality", Width: 854, Height: 480, FPS: 15}
	QualityMedium = Quality{Name: "m", Label: "Medium Quality", Width: 1280, Height: 720, FPS: 30}
	QualityHigh   = Quality{Name: "h", Label: "High Quality", Width: 1920, Height: 1080, FPS: 60}
	Quality4K     = Quality{Name: "k", Label: "4K Quality", Width: 3840, Height: 2160, FPS: 60}
)

// DefaultQuality is used when none is requested.
var DefaultQuality = QualityMedium

var qualities = []Quality{QualityLow, QualityMedium, QualityHigh, Quality4K}

// Qualities returns all presets from lowest to highest.
func Qualities() []Quality { return slices.Clone(qualities) }

// ParseQuality resolves a preset by its flag value (case-insensitive).
func ParseQuality(s string) (Quality, error) {
	if s == "" {
		return DefaultQuality, nil
	}
	for _, q := range qualities {
		if strings.EqualFold(s, q.Name) {
			return q, nil
		}
	}
	names := make([]string, len(qualities))
	for i, q := range qualities {
		names[i] = q.Name
	}
	return Quality{}, apperr.New(apperr.ErrCodeInvalidQuality,
		"invalid quality: %s (must be one of: %s)", s, strings.Join(names, ", "))
}

// Format is an output format.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatGIF  Format = "gif"
	FormatPNG  Format = "png"  // rasterised frame sequence
	FormatSVG  Format = "svg"  // vector frame sequence
	FormatJSON Format = "json" // compiled timeline
)

// DefaultFormat is used when none is requested.
const DefaultFormat = FormatMP4

var formats = []Format{FormatMP4, FormatGIF, FormatPNG, FormatSVG, FormatJSON}

// Formats returns all supported formats.
func Formats() []Format { return slices.Clone(formats) }

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return DefaultFormat, nil
	}
	f := Format(strings.ToLower(s))
	if slices.Contains(formats, f) {
		return f, nil
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat,
		"invalid format: %s (must be one of: %s)", s, strings.Join(names, ", "))
}

// IsVideo reports whether f is produced by the external encoder.
func (f Format) IsVideo() bool { return f == FormatMP4 || f == FormatGIF }

// NeedsRaster reports whether f requires SVG to PNG conversion.
func (f Format) NeedsRaster() bool { return f.IsVideo() || f == FormatPNG }

package compose

import "strings"

// Format is the container an output payload is encoded in.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
)

// ParseFormat maps a caller supplied selector onto an output format.
// "JPG" and "JPEG" (any case) select JPEG; everything else, including the
// empty string, selects PNG.
func ParseFormat(s string) Format {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "JPG", "JPEG":
		return FormatJPEG
	default:
		return FormatPNG
	}
}

// HasAlpha reports whether the container can carry an alpha channel.
func (f Format) HasAlpha() bool {
	return f != FormatJPEG
}

// MIME returns the media type used in data URL headers.
func (f Format) MIME() string {
	return "image/" + strings.ToLower(string(f))
}

// Ext returns the file extension without the leading dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

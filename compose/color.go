package compose

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses a color literal: a CSS/SVG color name ("red",
// "steelblue") or a hex form #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, error) {
	lit := strings.ToLower(strings.TrimSpace(s))
	if lit == "" {
		return color.NRGBA{}, newError(KindInvalidColor, "empty color value", nil)
	}

	if hex, ok := strings.CutPrefix(lit, "#"); ok {
		c, err := parseHex(hex)
		if err != nil {
			return color.NRGBA{}, newError(KindInvalidColor, "invalid color value "+strconv.Quote(s), err)
		}
		return c, nil
	}

	if rgba, ok := colornames.Map[lit]; ok {
		return color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: rgba.A}, nil
	}
	return color.NRGBA{}, newError(KindInvalidColor, "unknown color name "+strconv.Quote(s), nil)
}

func parseHex(hex string) (color.NRGBA, error) {
	switch len(hex) {
	case 3, 4:
		// #abc expands to #aabbcc
		long := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			long = append(long, hex[i], hex[i])
		}
		hex = string(long)
	case 6, 8:
	default:
		return color.NRGBA{}, strconv.ErrSyntax
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

package keystone

import (
	"image/color"
	"strconv"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Transparent = RGBA{0, 0, 0, 0}
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without
// a leading '#'. Invalid input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint64
	a := uint64(255)

	switch len(hex) {
	case 3:
		r = parseHex(hex[0:1]) * 17
		g = parseHex(hex[1:2]) * 17
		b = parseHex(hex[2:3]) * 17
	case 4:
		r = parseHex(hex[0:1]) * 17
		g = parseHex(hex[1:2]) * 17
		b = parseHex(hex[2:3]) * 17
		a = parseHex(hex[3:4]) * 17
	case 6:
		r = parseHex(hex[0:2])
		g = parseHex(hex[2:4])
		b = parseHex(hex[4:6])
	case 8:
		r = parseHex(hex[0:2])
		g = parseHex(hex[2:4])
		b = parseHex(hex[4:6])
		a = parseHex(hex[6:8])
	default:
		return Black
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

func parseHex(s string) uint64 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return v
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value stored as 0xRRGGBB
type Color uint32

// Named colors accepted by ParseColor
var namedColors = map[string]Color{
	"black":  0x000000,
	"white":  0xffffff,
	"red":    0xff0000,
	"green":  0x008000,
	"blue":   0x0000ff,
	"yellow": 0xffff00,
	"orange": 0xffa500,
	"gray":   0x808080,
}

// RGB builds a color from 8-bit channels
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red channel
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel
func (c Color) B() uint8 { return uint8(c) }

// Hex formats the color as 0xrrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("0x%06x", uint32(c)&0xffffff)
}

// String implements fmt.Stringer
func (c Color) String() string {
	return c.Hex()
}

// ParseColor accepts "0xrrggbb", "#rrggbb", "rrggbb" or a named color
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "#")
	if len(digits) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

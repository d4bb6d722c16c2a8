package bmp

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// Color is an RGBA tuple in that fixed order, whatever the on-disk layout.
type Color [4]uint8

var (
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

func (c Color) R() uint8 { return c[0] }
func (c Color) G() uint8 { return c[1] }
func (c Color) B() uint8 { return c[2] }
func (c Color) A() uint8 { return c[3] }

// NRGBA converts to the non-premultiplied standard library color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// ColorOf converts any color.Color to a non-premultiplied Color.
func ColorOf(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B, n.A}
}

// Channel selects one component of a Color.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

var channelNames = []string{"red", "green", "blue", "alpha"}

func (ch Channel) String() string {
	if ch < Red || ch > Alpha {
		return fmt.Sprintf("Channel(%d)", int(ch))
	}
	return channelNames[ch]
}

// ParseChannel accepts "red", "green", "blue" or "alpha".
func ParseChannel(s string) (Channel, error) {
	for i, name := range channelNames {
		if name == s {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("channel %q: %w", s, ErrUnsupported)
}

// RGBAToHex formats c as eight upper case hex digits, e.g. "2D4D00FF".
func RGBAToHex(c Color) string {
	return fmt.Sprintf("%02X%02X%02X%02X", c[0], c[1], c[2], c[3])
}

// HexToRGBA parses eight hex digits, with or without a leading '#'.
func HexToRGBA(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 8 {
		return Color{}, fmt.Errorf("hex color %q should have 8 digits", s)
	}

	var c Color
	for i := range c {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("could not read hex color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// HSLToRGB converts hue in degrees [0,360) and saturation, lightness in [0,1].
func HSLToRGB(h, s, l float64) ([3]uint8, error) {
	if h < 0 || h >= 360 || s < 0 || s > 1 || l < 0 || l > 1 {
		return [3]uint8{}, fmt.Errorf("hsl(%g, %g, %g) out of range: %w", h, s, l, ErrUnsupported)
	}

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return [3]uint8{
		clampByte((r + m) * 255),
		clampByte((g + m) * 255),
		clampByte((b + m) * 255),
	}, nil
}

// BytesToKilobytes uses 1024 bytes per kilobyte and truncates.
func BytesToKilobytes(n uint32) uint32 {
	return n / 1024
}

// Composite places top over bottom with the Porter-Duff "over" operator.
func Composite(top, bottom Color) Color {
	a1 := float64(top[3]) / 255
	a2 := float64(bottom[3]) / 255
	a0 := a1 + a2*(1-a1)
	if a0 == 0 {
		return top
	}

	var out Color
	for i := range 3 {
		c1, c2 := float64(top[i]), float64(bottom[i])
		out[i] = clampByte((c1*a1 + c2*a2*(1-a1)) / a0)
	}
	out[3] = clampByte(a0 * 255)
	return out
}

func clampByte(v float64) uint8 {
	return uint8(math.Min(math.Max(math.Round(v), 0), 255))
}

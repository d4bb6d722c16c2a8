// based on:
// https://bottosson.github.io/posts/oklab/

package palette

import (
	"math"

	"bmpkit/bmp"
)

// Lab is a color in the OKLab space, with straight alpha in [0, 1].
type Lab struct {
	L     float64 // perceived lightness
	A     float64 // how green/red the color is
	B     float64 // how blue/yellow the color is
	Alpha float64
}

// LabOf converts an sRGB color to OKLab.
func LabOf(c bmp.Color) Lab {
	r, g, b := toLinear(c[0]), toLinear(c[1]), toLinear(c[2])

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return Lab{
		L:     0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A:     1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B:     0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
		Alpha: float64(c[3]) / 0xFF,
	}
}

func toLinear(v uint8) float64 {
	x := float64(v) / 0xFF
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

// Matcher maps colors to the perceptually closest entry of a color table.
type Matcher struct {
	table bmp.ColorTable
	lab   []Lab
}

func NewMatcher(t bmp.ColorTable) *Matcher {
	m := &Matcher{table: t, lab: make([]Lab, len(t))}
	for i, c := range t {
		m.lab[i] = LabOf(c)
	}
	return m
}

// Index returns the position of the table entry nearest to c, or -1 for an
// empty table.
func (m *Matcher) Index(c bmp.Color) int {
	lc := LabOf(c)
	ret, bestSum := -1, math.MaxFloat64
	for i, v := range m.lab {
		dL := lc.L - v.L
		da := lc.A - v.A
		db := lc.B - v.B
		dA := lc.Alpha - v.Alpha
		sum := dL*dL + da*da + db*db + dA*dA
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// Nearest returns the table entry closest to c, keeping the alpha of c.
// An empty table leaves c unchanged.
func (m *Matcher) Nearest(c bmp.Color) bmp.Color {
	i := m.Index(c)
	if i < 0 {
		return c
	}
	out := m.table[i]
	out[3] = c[3]
	return out
}

package bmp

import (
	"fmt"
	"image"
	"slices"
)

const maxRadius = 16

// WeightFunc returns the kernel weight at distance from the center.
type WeightFunc func(radius, distance int) float64

// CombineFunc reduces a (2*radius+1)² row-major neighborhood to one color.
type CombineFunc func(radius int, neighborhood []Color) Color

func checkRadius(radius int) error {
	if radius < 1 || radius > maxRadius {
		return fmt.Errorf("radius %d not in [1,%d]: %w", radius, maxRadius, ErrRadiusInvalid)
	}
	return nil
}

// SeparableBlur runs a horizontal and then a vertical weighted pass. Each pass
// reads a snapshot taken before it starts. Neighbors outside the image are
// left out and the remaining weights renormalized.
func (img *Image) SeparableBlur(radius int, weight WeightFunc, horizontal, vertical bool) error {
	if err := checkRadius(radius); err != nil {
		return err
	}
	w, err := img.writer()
	if err != nil {
		return err
	}

	weights := make([]float64, 2*radius+1)
	for i := range weights {
		weights[i] = weight(radius, abs(i-radius))
	}

	if horizontal {
		if err := img.blurPass(w, weights, image.Pt(1, 0)); err != nil {
			return err
		}
	}
	if vertical {
		if err := img.blurPass(w, weights, image.Pt(0, 1)); err != nil {
			return err
		}
	}
	return nil
}

func (img *Image) blurPass(w *pixelWriter, weights []float64, step image.Point) error {
	src, err := img.Snapshot()
	if err != nil {
		return err
	}

	radius := len(weights) / 2
	out := &Colors{Width: src.Width, Height: src.Height, Pix: make([]Color, len(src.Pix))}
	for y := range src.Height {
		for x := range src.Width {
			var sum [4]float64
			var total float64
			for i, wt := range weights {
				n := image.Pt(x, y).Add(step.Mul(i - radius))
				if !src.In(n.X, n.Y) {
					continue
				}
				c := src.At(n.X, n.Y)
				for ch := range sum {
					sum[ch] += wt * float64(c[ch])
				}
				total += wt
			}

			c := src.At(x, y)
			if total != 0 {
				for ch := range sum {
					c[ch] = clampByte(sum[ch] / total)
				}
			}
			out.Pix[y*out.Width+x] = c
		}
	}
	return w.setAll(out)
}

// BoxBlur weighs every neighbor equally.
func (img *Image) BoxBlur(radius int) error {
	return img.SeparableBlur(radius, func(int, int) float64 { return 1 }, true, true)
}

// GaussianBlur weighs neighbors with row 2*radius of Pascal's triangle, a
// discrete approximation of the normal distribution.
func (img *Image) GaussianBlur(radius int) error {
	if err := checkRadius(radius); err != nil {
		return err
	}
	row := pascalRow(2 * radius)
	return img.SeparableBlur(radius, func(radius, distance int) float64 {
		return row[radius-distance]
	}, true, true)
}

// pascalRow builds row n by summation, never through factorials.
func pascalRow(n int) []float64 {
	row := []float64{1}
	for i := 1; i <= n; i++ {
		next := make([]float64, i+1)
		next[0], next[i] = 1, 1
		for k := 1; k < i; k++ {
			next[k] = row[k-1] + row[k]
		}
		row = next
	}
	return row
}

// SurroundFilter replaces each pixel with combine applied to its
// neighborhood in a snapshot taken before the first write. Coordinates past
// the border are clamped to the nearest edge pixel.
func (img *Image) SurroundFilter(radius int, combine CombineFunc) error {
	if err := checkRadius(radius); err != nil {
		return err
	}
	w, err := img.writer()
	if err != nil {
		return err
	}
	src, err := img.Snapshot()
	if err != nil {
		return err
	}

	side := 2*radius + 1
	out := &Colors{Width: src.Width, Height: src.Height, Pix: make([]Color, len(src.Pix))}
	neighborhood := make([]Color, 0, side*side)
	for y := range src.Height {
		for x := range src.Width {
			neighborhood = neighborhood[:0]
			for dy := -radius; dy <= radius; dy++ {
				ny := min(max(y+dy, 0), src.Height-1)
				for dx := -radius; dx <= radius; dx++ {
					nx := min(max(x+dx, 0), src.Width-1)
					neighborhood = append(neighborhood, src.At(nx, ny))
				}
			}
			out.Pix[y*out.Width+x] = combine(radius, neighborhood)
		}
	}
	return w.setAll(out)
}

// MedianFilter sorts each channel of the neighborhood independently and keeps
// the value at index radius.
func (img *Image) MedianFilter(radius int) error {
	return img.SurroundFilter(radius, median)
}

func median(radius int, neighborhood []Color) Color {
	var out Color
	channel := make([]uint8, len(neighborhood))
	for ch := range out {
		for i, c := range neighborhood {
			channel[i] = c[ch]
		}
		slices.Sort(channel)
		out[ch] = channel[radius]
	}
	return out
}

// MeanFilter averages each channel over the whole neighborhood.
func (img *Image) MeanFilter(radius int) error {
	return img.SurroundFilter(radius, mean)
}

func mean(_ int, neighborhood []Color) Color {
	var sum [4]int
	for _, c := range neighborhood {
		for ch := range sum {
			sum[ch] += int(c[ch])
		}
	}

	var out Color
	for ch := range out {
		out[ch] = clampByte(float64(sum[ch]) / float64(len(neighborhood)))
	}
	return out
}

package bmp

import "image"

// PixelDiff is one differing coordinate. A nil color means the coordinate is
// outside that image.
type PixelDiff struct {
	Point  image.Point
	Color1 *Color
	Color2 *Color
}

// ImageDiff lists the differing coordinates of two images in row-major order.
type ImageDiff struct {
	Size1 image.Point // width, height of the first image
	Size2 image.Point
	Diff  []PixelDiff
}

func (d *ImageDiff) IsSameSize() bool {
	return d.Size1 == d.Size2
}

// Diff compares a and b over the union of their bounds.
func Diff(a, b *Image) (*ImageDiff, error) {
	ca, err := a.Snapshot()
	if err != nil {
		return nil, err
	}
	cb, err := b.Snapshot()
	if err != nil {
		return nil, err
	}

	d := &ImageDiff{
		Size1: image.Pt(ca.Width, ca.Height),
		Size2: image.Pt(cb.Width, cb.Height),
	}
	at := func(cs *Colors, x, y int) *Color {
		if !cs.In(x, y) {
			return nil
		}
		c := cs.At(x, y)
		return &c
	}

	width, height := max(ca.Width, cb.Width), max(ca.Height, cb.Height)
	for y := range height {
		for x := range width {
			c1, c2 := at(ca, x, y), at(cb, x, y)
			if c1 == nil && c2 == nil {
				continue
			}
			if c1 != nil && c2 != nil && *c1 == *c2 {
				continue
			}
			d.Diff = append(d.Diff, PixelDiff{Point: image.Pt(x, y), Color1: c1, Color2: c2})
		}
	}
	return d, nil
}

package bmp

import (
	"image"
	"math"
)

// remap clears the pixel array to transparent and writes every source pixel
// of a pre-clear snapshot to fn(x, y), skipping destinations outside the image.
func (img *Image) remap(fn func(x, y int) image.Point) error {
	w, err := img.writer()
	if err != nil {
		return err
	}
	src, err := img.Snapshot()
	if err != nil {
		return err
	}

	w.blank()
	for y := range src.Height {
		for x := range src.Width {
			p := fn(x, y)
			if !src.In(p.X, p.Y) {
				continue
			}
			if err := w.set(p.X, p.Y, src.At(x, y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Translate moves the picture by (dx, dy). Uncovered pixels become
// transparent and pixels moved off the image are dropped.
func (img *Image) Translate(dx, dy int) error {
	return img.remap(func(x, y int) image.Point {
		return image.Pt(x+dx, y+dy)
	})
}

// Rotate turns the picture by degrees around center, (0,0) when nil. Each
// source pixel is forward mapped and rounded, so destinations hit by no
// source pixel stay transparent.
func (img *Image) Rotate(degrees float64, center *image.Point) error {
	var c image.Point
	if center != nil {
		c = *center
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	cx, cy := float64(c.X), float64(c.Y)

	return img.remap(func(x, y int) image.Point {
		fx, fy := float64(x)-cx, float64(y)-cy
		return image.Pt(
			int(math.Round(fx*cos-fy*sin+cx)),
			int(math.Round(fy*cos+fx*sin+cy)),
		)
	})
}

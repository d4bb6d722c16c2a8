package bmp

import "math"

// MapColors rewrites every pixel with fn applied to a snapshot taken before
// the first write.
func (img *Image) MapColors(fn func(Color) Color) error {
	w, err := img.writer()
	if err != nil {
		return err
	}
	cs, err := img.Snapshot()
	if err != nil {
		return err
	}
	for i, c := range cs.Pix {
		cs.Pix[i] = fn(c)
	}
	return w.setAll(cs)
}

// DrawImage composites src onto img with its top-left corner at (x, y).
// Source pixels falling outside img are skipped.
func (img *Image) DrawImage(x, y int, src *Image) error {
	w, err := img.writer()
	if err != nil {
		return err
	}
	dst, err := img.Snapshot()
	if err != nil {
		return err
	}
	top, err := src.Snapshot()
	if err != nil {
		return err
	}

	for sy := range top.Height {
		for sx := range top.Width {
			dx, dy := x+sx, y+sy
			if !dst.In(dx, dy) {
				continue
			}
			s, d := top.At(sx, sy), dst.At(dx, dy)
			c := s
			if s[3] != 255 || d[3] != 255 {
				c = Composite(s, d)
			}
			if err := w.set(dx, dy, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChangeOpacity sets the alpha of every pixel.
func (img *Image) ChangeOpacity(alpha uint8) error {
	return img.MapColors(func(c Color) Color {
		c[3] = alpha
		return c
	})
}

// Invert negates red, green and blue, and alpha too when invertAlpha is set.
func (img *Image) Invert(invertAlpha bool) error {
	return img.MapColors(func(c Color) Color {
		c[0], c[1], c[2] = 255-c[0], 255-c[1], 255-c[2]
		if invertAlpha {
			c[3] = 255 - c[3]
		}
		return c
	})
}

// Grayscale replaces red, green and blue with the Rec. 709 luma.
func (img *Image) Grayscale() error {
	return img.MapColors(func(c Color) Color {
		l := uint8(math.Round(0.2126*float64(c[0]) + 0.7152*float64(c[1]) + 0.0722*float64(c[2])))
		return Color{l, l, l, c[3]}
	})
}

// ChannelGrayscale copies one channel into red, green and blue. Selecting
// Alpha copies alpha into all four.
func (img *Image) ChannelGrayscale(ch Channel) error {
	if ch < Red || ch > Alpha {
		return ErrUnsupported
	}
	return img.MapColors(func(c Color) Color {
		v := c[ch]
		if ch == Alpha {
			return Color{v, v, v, v}
		}
		return Color{v, v, v, c[3]}
	})
}

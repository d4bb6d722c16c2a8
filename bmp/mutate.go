package bmp

import (
	"fmt"
	"image"
)

// pixelWriter is the only path that modifies pixel bytes. Palette and
// sub-byte formats have no single-pixel write semantics and are rejected.
type pixelWriter struct {
	buf []byte
	g   geometry
	f   pixelFormat
}

func (img *Image) writer() (*pixelWriter, error) {
	fh, dib, err := img.headers()
	if err != nil {
		return nil, err
	}
	if dib.BitCount != 24 && dib.BitCount != 32 {
		return nil, fmt.Errorf("writing %d bit pixels: %w", dib.BitCount, ErrUnsupported)
	}

	g, err := geometryOf(img.buf, fh, dib)
	if err != nil {
		return nil, err
	}
	var masks *BitMasks
	if dib.Compression().BitFields() {
		m, err := parseBitMasks(img.buf, dib)
		if err != nil {
			return nil, err
		}
		masks = &m
	}
	f, err := formatOf(dib, masks, false)
	if err != nil {
		return nil, err
	}
	return &pixelWriter{buf: img.buf, g: g, f: f}, nil
}

func (w *pixelWriter) set(x, y int, c Color) error {
	if !w.g.in(x, y) {
		return fmt.Errorf("pixel (%d,%d) outside %dx%d: %w", x, y, w.g.width, w.g.height, ErrOutOfBounds)
	}
	off := w.g.rowStart(y) + x*w.f.bytesPer
	w.f.put(w.buf[off:off+w.f.bytesPer], c)
	return nil
}

func (w *pixelWriter) fill(c Color) {
	for y := range w.g.height {
		for x := range w.g.width {
			_ = w.set(x, y, c)
		}
	}
}

// SetColor writes c to pixel (x, y). Only 24 and 32 bit images are writable;
// 24 bit images drop the alpha channel.
func (img *Image) SetColor(x, y int, c Color) error {
	w, err := img.writer()
	if err != nil {
		return err
	}
	return w.set(x, y, c)
}

// SetColors writes c to every point, deriving the headers once. It stops at
// the first point outside the image; earlier writes stay.
func (img *Image) SetColors(points []image.Point, c Color) error {
	w, err := img.writer()
	if err != nil {
		return err
	}
	for _, p := range points {
		if err := w.set(p.X, p.Y, c); err != nil {
			return err
		}
	}
	return nil
}

// setAll writes one color per pixel from cs, which must match the image size.
func (w *pixelWriter) setAll(cs *Colors) error {
	if cs.Width != w.g.width || cs.Height != w.g.height {
		return fmt.Errorf("%dx%d colors for %dx%d image: %w", cs.Width, cs.Height, w.g.width, w.g.height, ErrOutOfBounds)
	}
	for y := range cs.Height {
		for x := range cs.Width {
			if err := w.set(x, y, cs.At(x, y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// blank zeroes every pixel row, padding included.
func (w *pixelWriter) blank() {
	start := w.g.offset
	clear(w.buf[start : start+w.g.stride*w.g.height])
}

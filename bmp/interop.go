package bmp

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var _ image.Image = (*Image)(nil)

func (img *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// At makes Image usable as an image.Image; unreadable pixels are transparent.
// Each call goes through ColorAt and re-reads the headers and color table, so
// a loop over every pixel costs O(palette) per pixel. Whole-image consumers
// should prefer NRGBA, or a View for repeated lookups.
func (img *Image) At(x, y int) color.Color {
	c, err := img.ColorAt(x, y)
	if err != nil {
		return color.NRGBA{}
	}
	return c.NRGBA()
}

// NRGBA resolves the whole image into a standard library image.
func (img *Image) NRGBA() (*image.NRGBA, error) {
	cs, err := img.Snapshot()
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, cs.Width, cs.Height))
	for i, c := range cs.Pix {
		copy(dst.Pix[i*4:], c[:])
	}
	return dst, nil
}

// FromImage builds a new 32 bit image holding the pixels of src. NRGBA
// sources are copied as is; anything else is converted through draw.Src.
func FromImage(src image.Image) (*Image, error) {
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		b := src.Bounds()
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}

	r := nrgba.Bounds()
	img, err := New(r.Dy(), r.Dx(), &Transparent)
	if err != nil {
		return nil, err
	}
	w, err := img.writer()
	if err != nil {
		return nil, err
	}

	cs := &Colors{Width: r.Dx(), Height: r.Dy(), Pix: make([]Color, r.Dx()*r.Dy())}
	for y := range cs.Height {
		for x := range cs.Width {
			cs.Pix[y*cs.Width+x] = ColorOf(nrgba.NRGBAAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	if err := w.setAll(cs); err != nil {
		return nil, err
	}
	return img, nil
}

package bmp

import (
	"errors"
	"fmt"
)

// View bundles the decoded parts of an image so colors can be resolved
// without re-deriving them per pixel. A View built by hand must carry the
// parts its format needs; absent ones fail with ErrMissing.
type View struct {
	File  FileHeader
	DIB   DIBHeader
	Plane *Plane
	Table ColorTable // nil when the format has no palette
	Masks *BitMasks  // nil unless BI_BITFIELDS

	f      pixelFormat
	fReady bool
}

// View decodes headers, plane, palette and masks in one pass.
func (img *Image) View() (*View, error) {
	fh, dib, err := img.headers()
	if err != nil {
		return nil, err
	}

	v := &View{File: fh, DIB: dib}
	if err := v.loadTables(img.buf); err != nil {
		return nil, err
	}
	if v.Plane, err = DecodePlane(img.buf, fh, dib); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *View) loadTables(buf []byte) error {
	table, err := ParseColorTable(buf, v.File, v.DIB)
	switch {
	case err == nil:
		v.Table = table
	case errors.Is(err, ErrUseExtraBitMasks):
		masks, err := parseBitMasks(buf, v.DIB)
		if err != nil {
			return err
		}
		v.Masks = &masks
	case errors.Is(err, ErrDoesNotExist):
		if v.DIB.BitCount <= 8 {
			return fmt.Errorf("palette image without color table: %w", err)
		}
	default:
		return err
	}
	return nil
}

func (v *View) format() (pixelFormat, error) {
	if v.fReady {
		return v.f, nil
	}
	f, err := formatOf(v.DIB, v.Masks, v.Table != nil)
	if err != nil {
		return f, err
	}
	v.f, v.fReady = f, true
	return f, nil
}

// Width and Height come from the plane.
func (v *View) Width() int {
	if v.Plane == nil {
		return 0
	}
	return v.Plane.Width
}

func (v *View) Height() int {
	if v.Plane == nil {
		return 0
	}
	return v.Plane.Height
}

// ColorAt resolves pixel (x, y) of the snapshot.
func (v *View) ColorAt(x, y int) (Color, error) {
	if v.Plane == nil {
		return Color{}, fmt.Errorf("pixel plane: %w", ErrMissing)
	}
	raw := v.Plane.Raw(x, y)
	if raw == nil {
		return Color{}, fmt.Errorf("pixel (%d,%d) outside %dx%d: %w", x, y, v.Plane.Width, v.Plane.Height, ErrOutOfBounds)
	}
	f, err := v.format()
	if err != nil {
		return Color{}, err
	}
	return f.resolve(raw, v.Table)
}

// Colors resolves the whole snapshot in row-major order.
func (v *View) Colors() (*Colors, error) {
	if v.Plane == nil {
		return nil, fmt.Errorf("pixel plane: %w", ErrMissing)
	}
	f, err := v.format()
	if err != nil {
		return nil, err
	}

	cs := &Colors{Width: v.Plane.Width, Height: v.Plane.Height}
	cs.Pix = make([]Color, cs.Width*cs.Height)
	for y := range cs.Height {
		for x := range cs.Width {
			if cs.Pix[y*cs.Width+x], err = f.resolve(v.Plane.Raw(x, y), v.Table); err != nil {
				return nil, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
		}
	}
	return cs, nil
}

// Colors is an owned grid of resolved colors, used as the read side of
// multi-pass operations.
type Colors struct {
	Width, Height int
	Pix           []Color
}

func (cs *Colors) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < cs.Width && y < cs.Height
}

// At returns the color at (x, y); the caller checks In first.
func (cs *Colors) At(x, y int) Color {
	return cs.Pix[y*cs.Width+x]
}

// Snapshot resolves every pixel of img.
func (img *Image) Snapshot() (*Colors, error) {
	v, err := img.View()
	if err != nil {
		return nil, err
	}
	return v.Colors()
}

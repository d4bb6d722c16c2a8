package bmp

import (
	"fmt"
	"image"
)

// Plane is an owned snapshot of the pixel array. Row 0 is always the visual
// top row; every pixel is a group of ceil(BitCount/8) raw bytes, with
// sub-byte pixels unpacked into a byte of their own.
type Plane struct {
	Width    int
	Height   int
	BitCount int
	Stride   int
	TopDown  bool

	groupLen int
	pix      []byte
}

type geometry struct {
	offset   int
	width    int
	height   int
	bitCount int
	stride   int
	topDown  bool
}

func geometryOf(buf []byte, fh FileHeader, dib DIBHeader) (geometry, error) {
	switch dib.BitCount {
	case 1, 2, 4, 8, 16, 24, 32:
	default:
		return geometry{}, fmt.Errorf("bit count %d: %w", dib.BitCount, ErrUnsupported)
	}
	switch comp := dib.Compression(); comp {
	case CompressionRGB, CompressionBitFields, CompressionAlphaBitFields:
	default:
		return geometry{}, fmt.Errorf("pixels compressed with %s: %w", comp, ErrUnsupported)
	}

	g := geometry{
		offset:   int(fh.OffBits),
		width:    int(dib.Width),
		height:   dib.AbsHeight(),
		bitCount: int(dib.BitCount),
		stride:   dib.Stride(),
		topDown:  dib.TopDown(),
	}
	if g.offset > len(buf) {
		return g, fmt.Errorf("pixel offset %d beyond %d bytes: %w", g.offset, len(buf), ErrTruncated)
	}
	if g.stride > 0 {
		if rows := (len(buf) - g.offset) / g.stride; rows < g.height {
			return g, fmt.Errorf("%d of %d rows present: %w", rows, g.height, ErrTruncated)
		}
	}
	return g, nil
}

func (g geometry) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// rowStart returns the buffer offset of visual row y.
func (g geometry) rowStart(y int) int {
	row := y
	if !g.topDown {
		row = g.height - y - 1
	}
	return g.offset + row*g.stride
}

// raw appends the byte group of pixel (x, y) to dst.
func (g geometry) raw(dst, buf []byte, x, y int) []byte {
	row := buf[g.rowStart(y):]
	if g.bitCount < 8 {
		perByte := 8 / g.bitCount
		shift := 8 - g.bitCount*(x%perByte+1)
		return append(dst, (row[x/perByte]>>shift)&(1<<g.bitCount - 1))
	}
	n := g.bitCount / 8
	return append(dst, row[x*n:x*n+n]...)
}

// DecodePlane copies the pixel array of buf into a Plane.
func DecodePlane(buf []byte, fh FileHeader, dib DIBHeader) (*Plane, error) {
	g, err := geometryOf(buf, fh, dib)
	if err != nil {
		return nil, err
	}

	p := &Plane{
		Width:    g.width,
		Height:   g.height,
		BitCount: g.bitCount,
		Stride:   g.stride,
		TopDown:  g.topDown,
		groupLen: max(g.bitCount/8, 1),
	}
	p.pix = make([]byte, 0, p.Width*p.Height*p.groupLen)
	for y := range p.Height {
		for x := range p.Width {
			p.pix = g.raw(p.pix, buf, x, y)
		}
	}
	return p, nil
}

func (p *Plane) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

func (p *Plane) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.Width && y < p.Height
}

// Raw returns the byte group of pixel (x, y), or nil outside the plane.
func (p *Plane) Raw(x, y int) []byte {
	if !p.In(x, y) {
		return nil
	}
	i := (y*p.Width + x) * p.groupLen
	return p.pix[i : i+p.groupLen : i+p.groupLen]
}

// Rows returns the plane as rows of byte groups sharing the plane's memory.
func (p *Plane) Rows() [][][]byte {
	rows := make([][][]byte, p.Height)
	for y := range rows {
		rows[y] = make([][]byte, p.Width)
		for x := range rows[y] {
			rows[y][x] = p.Raw(x, y)
		}
	}
	return rows
}

package bmp

import (
	"fmt"
	"math/bits"
)

// BitMasks are the per-channel masks of a BI_BITFIELDS image.
type BitMasks struct {
	Red, Green, Blue, Alpha uint32
}

// rgb555 is the implied layout of a 16 bit BI_RGB image without a palette.
var rgb555 = BitMasks{Red: 0x7C00, Green: 0x03E0, Blue: 0x001F}

func (m BitMasks) slice() [4]uint32 {
	return [4]uint32{m.Red, m.Green, m.Blue, m.Alpha}
}

// byteAligned reports whether every channel, alpha included, owns exactly one
// distinct whole byte.
func (m BitMasks) byteAligned() bool {
	var seen uint32
	for _, mask := range m.slice() {
		switch mask {
		case 0xFF, 0xFF00, 0xFF0000, 0xFF000000:
		default:
			return false
		}
		if seen&mask != 0 {
			return false
		}
		seen |= mask
	}
	return true
}

func extraMaskLen(dib DIBHeader) int {
	if dib.Kind != KindInfo {
		return 0
	}
	switch dib.Compression() {
	case CompressionBitFields:
		return 12
	case CompressionAlphaBitFields:
		return 16
	}
	return 0
}

func parseExtraBitMasks(buf []byte, dib DIBHeader) (BitMasks, error) {
	n := extraMaskLen(dib)
	if n == 0 {
		return BitMasks{}, fmt.Errorf("extra bit masks for %s %s: %w", dib.Kind, dib.Compression(), ErrDoesNotExist)
	}
	start := fileHeaderLen + infoHeaderLen
	if len(buf) < start+n {
		return BitMasks{}, fmt.Errorf("extra bit masks: %w", ErrTruncated)
	}

	m := BitMasks{
		Red:   le.Uint32(buf[start:]),
		Green: le.Uint32(buf[start+4:]),
		Blue:  le.Uint32(buf[start+8:]),
	}
	if n == 16 {
		m.Alpha = le.Uint32(buf[start+12:])
	}
	return m, nil
}

func parseBitMasks(buf []byte, dib DIBHeader) (BitMasks, error) {
	if !dib.Compression().BitFields() {
		return BitMasks{}, fmt.Errorf("bit masks for %s: %w", dib.Compression(), ErrDoesNotExist)
	}
	if v4 := dib.V4; v4 != nil {
		return BitMasks{Red: v4.RedMask, Green: v4.GreenMask, Blue: v4.BlueMask, Alpha: v4.AlphaMask}, nil
	}
	return parseExtraBitMasks(buf, dib)
}

type layoutKind int

const (
	layoutPalette layoutKind = iota
	layoutBytes              // one whole byte per channel, see order
	layoutMasks              // arbitrary masks, see fields
)

// field extracts one channel of a masked pixel value.
type field struct {
	mask  uint32
	shift int
	max   uint32
}

func fieldOf(mask uint32) field {
	if mask == 0 {
		return field{}
	}
	shift := bits.TrailingZeros32(mask)
	return field{mask: mask, shift: shift, max: mask >> shift}
}

func (f field) decode(v uint32) uint8 {
	if f.mask == 0 {
		return 0xFF
	}
	s := (v & f.mask) >> f.shift
	return uint8((s*255 + f.max/2) / f.max)
}

func (f field) encode(c uint8) uint32 {
	if f.mask == 0 {
		return 0
	}
	s := (uint32(c)*f.max + 127) / 255
	return (s << f.shift) & f.mask
}

// pixelFormat is the read/write recipe for one header.
type pixelFormat struct {
	kind     layoutKind
	name     string
	bytesPer int
	order    [4]int // byte index of R, G, B, A; -1 when absent
	fields   [4]field
}

var byteOrders = map[string][4]int{
	"rgba": {0, 1, 2, 3},
	"bgra": {2, 1, 0, 3},
	"argb": {1, 2, 3, 0},
	"abgr": {3, 2, 1, 0},
	"bgr":  {2, 1, 0, -1},
}

// inferOrder derives the channel order of byte aligned 32 bit masks from
// their magnitudes: a smaller alpha mask leads, and red precedes blue when its
// mask is smaller.
func inferOrder(m BitMasks) string {
	rb := "bgr"
	if m.Red < m.Blue {
		rb = "rgb"
	}
	if m.Alpha < m.Red {
		return "a" + rb
	}
	return rb + "a"
}

func formatOf(dib DIBHeader, masks *BitMasks, hasTable bool) (pixelFormat, error) {
	comp := dib.Compression()
	switch comp {
	case CompressionRGB, CompressionBitFields, CompressionAlphaBitFields:
	default:
		return pixelFormat{}, fmt.Errorf("pixels compressed with %s: %w", comp, ErrUnsupported)
	}

	bytesPer := int(dib.BitCount) / 8
	withMasks := func(name string, m BitMasks) pixelFormat {
		f := pixelFormat{kind: layoutMasks, name: name, bytesPer: bytesPer}
		for i, mask := range m.slice() {
			f.fields[i] = fieldOf(mask)
		}
		return f
	}

	switch bpp := dib.BitCount; {
	case bpp <= 8:
		return pixelFormat{kind: layoutPalette, name: "palette", bytesPer: bytesPer}, nil
	case bpp == 24:
		return pixelFormat{kind: layoutBytes, name: "bgr", bytesPer: 3, order: byteOrders["bgr"]}, nil
	case bpp == 32 && comp == CompressionRGB:
		return pixelFormat{kind: layoutBytes, name: "rgba", bytesPer: 4, order: byteOrders["rgba"]}, nil
	case bpp == 32:
		if masks == nil {
			return pixelFormat{}, fmt.Errorf("bit masks: %w", ErrMissing)
		}
		if !masks.byteAligned() {
			return withMasks("bitfields", *masks), nil
		}
		name := inferOrder(*masks)
		return pixelFormat{kind: layoutBytes, name: name, bytesPer: 4, order: byteOrders[name]}, nil
	case bpp == 16 && comp == CompressionRGB:
		if hasTable {
			return pixelFormat{kind: layoutPalette, name: "palette", bytesPer: 2}, nil
		}
		return withMasks("brg", rgb555), nil
	case bpp == 16:
		if masks == nil {
			return pixelFormat{}, fmt.Errorf("bit masks: %w", ErrMissing)
		}
		name := "brg"
		if masks.Red < masks.Blue {
			name = "rgb"
		}
		// 16 bit pixels carry no alpha, whatever the alpha mask says.
		m := *masks
		m.Alpha = 0
		return withMasks(name, m), nil
	}
	return pixelFormat{}, fmt.Errorf("bit count %d: %w", dib.BitCount, ErrUnsupported)
}

func rawValue(raw []byte) uint32 {
	var v uint32
	for i, b := range raw {
		v |= uint32(b) << (8 * i)
	}
	return v
}

func (f pixelFormat) resolve(raw []byte, table ColorTable) (Color, error) {
	switch f.kind {
	case layoutPalette:
		if table == nil {
			return Color{}, fmt.Errorf("color table: %w", ErrMissing)
		}
		return table.lookup(rawValue(raw))
	case layoutBytes:
		if len(raw) < f.bytesPer {
			return Color{}, fmt.Errorf("pixel has %d of %d bytes: %w", len(raw), f.bytesPer, ErrTruncated)
		}
		c := Color{0, 0, 0, 0xFF}
		for i, idx := range f.order {
			if idx >= 0 {
				c[i] = raw[idx]
			}
		}
		return c, nil
	default:
		v := rawValue(raw)
		var c Color
		for i, fl := range f.fields {
			c[i] = fl.decode(v)
		}
		return c, nil
	}
}

// put writes c into the byte group dst using the inverse of resolve.
func (f pixelFormat) put(dst []byte, c Color) {
	switch f.kind {
	case layoutBytes:
		for i, idx := range f.order {
			if idx >= 0 {
				dst[idx] = c[i]
			}
		}
	case layoutMasks:
		var v uint32
		for i, fl := range f.fields {
			v |= fl.encode(c[i])
		}
		for i := range f.bytesPer {
			dst[i] = byte(v >> (8 * i))
		}
	}
}

// Resolve turns a raw byte group into a Color. masks is required for
// BI_BITFIELDS images and table for palette images.
func Resolve(raw []byte, dib DIBHeader, masks *BitMasks, table ColorTable) (Color, error) {
	f, err := formatOf(dib, masks, table != nil)
	if err != nil {
		return Color{}, err
	}
	return f.resolve(raw, table)
}

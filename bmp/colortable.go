package bmp

import "fmt"

// ColorTable is a decoded palette. Entries are stored BGR or BGR-reserved on
// disk; the reserved byte is ignored and every entry is opaque.
type ColorTable []Color

// ParseColorTable reads the palette between the end of the DIB header and the
// pixel array. It exists for bit counts up to 8, and for 16 or 32 bit images
// under BI_RGB that carry one.
func ParseColorTable(buf []byte, fh FileHeader, dib DIBHeader) (ColorTable, error) {
	comp := dib.Compression()
	if comp.BitFields() {
		return nil, ErrUseExtraBitMasks
	}

	bpp := dib.BitCount
	if bpp > 8 && !((bpp == 16 || bpp == 32) && comp == CompressionRGB) {
		return nil, fmt.Errorf("color table for %d bit %s: %w", bpp, comp, ErrDoesNotExist)
	}

	entryLen := 4
	if dib.Kind == KindCore {
		entryLen = 3
	}

	start, end := fileHeaderLen+int(dib.Size()), int(fh.OffBits)
	if end > len(buf) {
		return nil, fmt.Errorf("pixel offset %d beyond %d bytes: %w", end, len(buf), ErrTruncated)
	}
	n := 0
	if end > start {
		n = (end - start) / entryLen
	}
	if n == 0 {
		return nil, fmt.Errorf("empty color table: %w", ErrDoesNotExist)
	}

	table := make(ColorTable, n)
	for i := range table {
		e := buf[start+i*entryLen:]
		table[i] = Color{e[2], e[1], e[0], 0xFF}
	}
	return table, nil
}

// Bytes serializes the table with entryLen 3 (core headers) or 4 bytes per
// entry.
func (t ColorTable) Bytes(entryLen int) []byte {
	b := make([]byte, len(t)*entryLen)
	for i, c := range t {
		e := b[i*entryLen:]
		e[0], e[1], e[2] = c[2], c[1], c[0]
	}
	return b
}

func (t ColorTable) lookup(index uint32) (Color, error) {
	if int(index) >= len(t) {
		return Color{}, fmt.Errorf("palette index %d of %d: %w", index, len(t), ErrOutOfBounds)
	}
	return t[index], nil
}

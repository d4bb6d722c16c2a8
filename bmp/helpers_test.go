package bmp

import (
	"testing"
)

// buildBMP assembles a file from a DIB header, the bytes between header and
// pixels (masks or palette), and unpadded disk rows listed top row first.
func buildBMP(t *testing.T, dib DIBHeader, extra []byte, rows [][]byte) []byte {
	t.Helper()

	stride := dib.Stride()
	offset := fileHeaderLen + int(dib.Size()) + len(extra)
	fh := FileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(offset + stride*len(rows)),
		OffBits: uint32(offset),
	}

	buf := append(fh.Bytes(), dib.Bytes()...)
	buf = append(buf, extra...)
	for i := range rows {
		row := rows[i]
		if !dib.TopDown() {
			row = rows[len(rows)-1-i]
		}
		if len(row) > stride {
			t.Fatalf("row of %d bytes exceeds stride %d", len(row), stride)
		}
		padded := make([]byte, stride)
		copy(padded, row)
		buf = append(buf, padded...)
	}
	return buf
}

func mustFromBytes(t *testing.T, buf []byte) *Image {
	t.Helper()

	img, err := FromBytes(buf)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return img
}

func mustNew(t *testing.T, height, width int, fill *Color) *Image {
	t.Helper()

	img, err := New(height, width, fill)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", height, width, err)
	}
	return img
}

func mustColorAt(t *testing.T, img *Image, x, y int) Color {
	t.Helper()

	c, err := img.ColorAt(x, y)
	if err != nil {
		t.Fatalf("ColorAt(%d, %d): %v", x, y, err)
	}
	return c
}

func infoHeader(width uint32, height int32, bpp uint16, comp Compression) DIBHeader {
	return DIBHeader{
		Kind:     KindInfo,
		Width:    width,
		Height:   height,
		Planes:   1,
		BitCount: bpp,
		Info:     &InfoFields{Compression: comp},
	}
}

func v4Header(width uint32, height int32, m BitMasks) DIBHeader {
	return DIBHeader{
		Kind:     KindV4,
		Width:    width,
		Height:   height,
		Planes:   1,
		BitCount: 32,
		Info:     &InfoFields{Compression: CompressionBitFields},
		V4: &V4Fields{
			RedMask:   m.Red,
			GreenMask: m.Green,
			BlueMask:  m.Blue,
			AlphaMask: m.Alpha,
			CSType:    LCSsRGB,
		},
	}
}

// patterned paints every pixel with a color derived from its coordinates.
func patterned(t *testing.T, height, width int) *Image {
	t.Helper()

	img := mustNew(t, height, width, nil)
	for y := range height {
		for x := range width {
			c := Color{uint8(x * 40), uint8(y * 30), uint8(x*7 + y*11), uint8(100 + x + y)}
			if err := img.SetColor(x, y, c); err != nil {
				t.Fatalf("SetColor(%d, %d): %v", x, y, err)
			}
		}
	}
	return img
}

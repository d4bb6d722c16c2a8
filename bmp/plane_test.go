package bmp

import (
	"errors"
	"testing"
)

var quad = ColorTable{
	{0, 0, 0, 255},
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
}

func TestPaletteDepths(t *testing.T) {
	tests := []struct {
		name string
		bpp  uint16
		rows [][]byte
		want [][]Color
	}{
		{
			name: "1 bit",
			bpp:  1,
			rows: [][]byte{{0b10100000}},
			want: [][]Color{{quad[1], quad[0], quad[1]}},
		},
		{
			name: "2 bit",
			bpp:  2,
			rows: [][]byte{{0b00011011}},
			want: [][]Color{{quad[0], quad[1], quad[2], quad[3]}},
		},
		{
			name: "4 bit",
			bpp:  4,
			rows: [][]byte{{0x12, 0x30}, {0x00, 0x10}},
			want: [][]Color{
				{quad[1], quad[2], quad[3]},
				{quad[0], quad[0], quad[1]},
			},
		},
		{
			name: "8 bit",
			bpp:  8,
			rows: [][]byte{{3, 2}, {1, 0}},
			want: [][]Color{
				{quad[3], quad[2]},
				{quad[1], quad[0]},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width := len(tt.want[0])
			dib := infoHeader(uint32(width), int32(len(tt.want)), tt.bpp, CompressionRGB)
			img := mustFromBytes(t, buildBMP(t, dib, quad.Bytes(4), tt.rows))

			for y, row := range tt.want {
				for x, want := range row {
					if got := mustColorAt(t, img, x, y); got != want {
						t.Errorf("ColorAt(%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}

			snap, err := img.Snapshot()
			if err != nil {
				t.Fatal(err)
			}
			if snap.Width != width || snap.Height != len(tt.want) {
				t.Errorf("snapshot is %dx%d", snap.Width, snap.Height)
			}
			if f, _ := img.Format(); f != "palette" {
				t.Errorf("Format() = %q, want palette", f)
			}
		})
	}
}

func TestCoreHeaderPalette(t *testing.T) {
	dib := DIBHeader{Kind: KindCore, Width: 2, Height: 1, Planes: 1, BitCount: 8}
	img := mustFromBytes(t, buildBMP(t, dib, quad.Bytes(3), [][]byte{{2, 3}}))

	table, err := img.ColorTable()
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != len(quad) {
		t.Fatalf("table has %d entries, want %d", len(table), len(quad))
	}
	if got := mustColorAt(t, img, 1, 0); got != quad[3] {
		t.Errorf("ColorAt(1, 0) = %v, want %v", got, quad[3])
	}
}

func TestColorTableIgnoresReservedByte(t *testing.T) {
	raw := quad.Bytes(4)
	for i := 3; i < len(raw); i += 4 {
		raw[i] = 0x42
	}
	dib := infoHeader(1, 1, 8, CompressionRGB)
	img := mustFromBytes(t, buildBMP(t, dib, raw, [][]byte{{2}}))

	table, err := img.ColorTable()
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range table {
		if c != quad[i] {
			t.Errorf("entry %d = %v, want %v", i, c, quad[i])
		}
	}
}

func TestColorTableAbsent(t *testing.T) {
	if _, err := mustNew(t, 2, 2, nil).ColorTable(); !errors.Is(err, ErrUseExtraBitMasks) {
		t.Errorf("bitfields: err = %v, want ErrUseExtraBitMasks", err)
	}

	dib := infoHeader(1, 1, 24, CompressionRGB)
	img := mustFromBytes(t, buildBMP(t, dib, nil, [][]byte{{1, 2, 3}}))
	if _, err := img.ColorTable(); !errors.Is(err, ErrDoesNotExist) {
		t.Errorf("24 bit: err = %v, want ErrDoesNotExist", err)
	}

	dib = infoHeader(1, 1, 8, CompressionRGB)
	img = mustFromBytes(t, buildBMP(t, dib, nil, [][]byte{{0}}))
	if _, err := img.ColorAt(0, 0); !errors.Is(err, ErrDoesNotExist) {
		t.Errorf("8 bit without table: err = %v, want ErrDoesNotExist", err)
	}
}

func TestPaletteIndexOutOfRange(t *testing.T) {
	dib := infoHeader(2, 1, 4, CompressionRGB)
	img := mustFromBytes(t, buildBMP(t, dib, quad[:2].Bytes(4), [][]byte{{0x13}}))

	if got := mustColorAt(t, img, 0, 0); got != quad[1] {
		t.Errorf("ColorAt(0, 0) = %v, want %v", got, quad[1])
	}
	if _, err := img.ColorAt(1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestOrientation(t *testing.T) {
	rows := [][]byte{
		{0, 0, 255, 0, 255, 0},
		{255, 0, 0, 255, 255, 255},
	}
	want := [][]Color{
		{{255, 0, 0, 255}, {0, 255, 0, 255}},
		{{0, 0, 255, 255}, {255, 255, 255, 255}},
	}

	for _, height := range []int32{2, -2} {
		img := mustFromBytes(t, buildBMP(t, infoHeader(2, height, 24, CompressionRGB), nil, rows))
		p, err := img.Plane()
		if err != nil {
			t.Fatal(err)
		}
		if p.TopDown != (height < 0) {
			t.Errorf("height %d: TopDown = %v", height, p.TopDown)
		}
		for y, row := range want {
			for x, c := range row {
				if got := mustColorAt(t, img, x, y); got != c {
					t.Errorf("height %d: ColorAt(%d, %d) = %v, want %v", height, x, y, got, c)
				}
			}
		}
	}
}

func TestPlaneAccess(t *testing.T) {
	rows := [][]byte{{1, 2, 3, 4, 5, 6}}
	img := mustFromBytes(t, buildBMP(t, infoHeader(2, 1, 24, CompressionRGB), nil, rows))
	p, err := img.Plane()
	if err != nil {
		t.Fatal(err)
	}

	if p.Stride != 8 {
		t.Errorf("Stride = %d, want 8", p.Stride)
	}
	if got := p.Raw(1, 0); string(got) != string([]byte{4, 5, 6}) {
		t.Errorf("Raw(1, 0) = %v", got)
	}
	if p.Raw(2, 0) != nil || p.Raw(0, -1) != nil {
		t.Error("Raw outside the plane is not nil")
	}
	if got := p.Rows(); len(got) != 1 || len(got[0]) != 2 {
		t.Errorf("Rows() shape = %d", len(got))
	}
}

func TestTruncatedPixels(t *testing.T) {
	buf := buildBMP(t, infoHeader(2, 2, 24, CompressionRGB), nil, [][]byte{{}, {}})
	img := mustFromBytes(t, buf[:len(buf)-1])

	if _, err := img.ColorAt(0, 0); !errors.Is(err, ErrTruncated) {
		t.Errorf("ColorAt: err = %v, want ErrTruncated", err)
	}
	if _, err := img.Plane(); !errors.Is(err, ErrTruncated) {
		t.Errorf("Plane: err = %v, want ErrTruncated", err)
	}

	if _, err := FromBytes(buf[:fileHeaderLen+10]); !errors.Is(err, ErrTruncated) {
		t.Errorf("FromBytes: err = %v, want ErrTruncated", err)
	}
}

func TestCompressedPixels(t *testing.T) {
	dib := infoHeader(2, 1, 8, CompressionRLE8)
	img := mustFromBytes(t, buildBMP(t, dib, quad.Bytes(4), [][]byte{{0, 0}}))
	if _, err := img.Plane(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

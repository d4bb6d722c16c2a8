package bmp

import (
	"bytes"
	"errors"
	"math/bits"
	"testing"
)

func TestChannelOrder(t *testing.T) {
	tests := []struct {
		masks BitMasks
		want  string
	}{
		{BitMasks{Red: 0xFF, Green: 0xFF00, Blue: 0xFF0000, Alpha: 0xFF000000}, "rgba"},
		{BitMasks{Red: 0xFF0000, Green: 0xFF00, Blue: 0xFF, Alpha: 0xFF000000}, "bgra"},
		{BitMasks{Red: 0xFF00, Green: 0xFF0000, Blue: 0xFF000000, Alpha: 0xFF}, "argb"},
		{BitMasks{Red: 0xFF000000, Green: 0xFF0000, Blue: 0xFF00, Alpha: 0xFF}, "abgr"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			img := mustFromBytes(t, buildBMP(t, v4Header(2, 1, tt.masks), nil, [][]byte{{}}))
			if f, err := img.Format(); err != nil || f != tt.want {
				t.Fatalf("Format() = %q, %v, want %q", f, err, tt.want)
			}

			c := Color{0x11, 0x22, 0x33, 0x44}
			if err := img.SetColor(1, 0, c); err != nil {
				t.Fatal(err)
			}
			if got := mustColorAt(t, img, 1, 0); got != c {
				t.Errorf("ColorAt = %v, want %v", got, c)
			}

			fh, _ := img.FileHeader()
			v := le.Uint32(img.Bytes()[fh.OffBits+4:])
			for i, mask := range tt.masks.slice() {
				if got := uint8((v & mask) >> bits.TrailingZeros32(mask)); got != c[i] {
					t.Errorf("channel %d stored as %#x, want %#x", i, got, c[i])
				}
			}
			if got := mustColorAt(t, img, 0, 0); got != Transparent {
				t.Errorf("untouched pixel = %v", got)
			}
		})
	}
}

func TestTenBitMasks(t *testing.T) {
	masks := BitMasks{Red: 0x3FF00000, Green: 0x000FFC00, Blue: 0x000003FF}
	img := mustFromBytes(t, buildBMP(t, v4Header(3, 1, masks), nil, [][]byte{{}}))

	if f, _ := img.Format(); f != "bitfields" {
		t.Errorf("Format() = %q, want bitfields", f)
	}
	for x, c := range []Color{{0, 0, 0, 255}, {255, 255, 255, 255}, {100, 7, 200, 255}} {
		if err := img.SetColor(x, 0, c); err != nil {
			t.Fatal(err)
		}
		if got := mustColorAt(t, img, x, 0); got != c {
			t.Errorf("ColorAt(%d, 0) = %v, want %v", x, got, c)
		}
	}
}

func TestSixteenBit(t *testing.T) {
	rgb565 := BitMasks{Red: 0xF800, Green: 0x07E0, Blue: 0x001F}
	extra := make([]byte, 12)
	le.PutUint32(extra, rgb565.Red)
	le.PutUint32(extra[4:], rgb565.Green)
	le.PutUint32(extra[8:], rgb565.Blue)

	dib := infoHeader(3, 1, 16, CompressionBitFields)
	img := mustFromBytes(t, buildBMP(t, dib, extra, [][]byte{{0x00, 0xF8, 0xE0, 0x07, 0x10, 0x00}}))

	got, err := img.ExtraBitMasks()
	if err != nil || got != rgb565 {
		t.Errorf("ExtraBitMasks() = %+v, %v", got, err)
	}
	if f, _ := img.Format(); f != "brg" {
		t.Errorf("Format() = %q, want brg", f)
	}

	want := []Color{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 132, 255}}
	for x, c := range want {
		if got := mustColorAt(t, img, x, 0); got != c {
			t.Errorf("ColorAt(%d, 0) = %v, want %v", x, got, c)
		}
	}

	if err := img.SetColor(0, 0, White); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SetColor: err = %v, want ErrUnsupported", err)
	}
}

func TestSixteenBitIgnoresAlphaMask(t *testing.T) {
	argb4444 := BitMasks{Red: 0x0F00, Green: 0x00F0, Blue: 0x000F, Alpha: 0xF000}
	extra := make([]byte, 16)
	le.PutUint32(extra, argb4444.Red)
	le.PutUint32(extra[4:], argb4444.Green)
	le.PutUint32(extra[8:], argb4444.Blue)
	le.PutUint32(extra[12:], argb4444.Alpha)

	dib := infoHeader(2, 1, 16, CompressionAlphaBitFields)
	img := mustFromBytes(t, buildBMP(t, dib, extra, [][]byte{{0x00, 0x0F, 0x00, 0x70}}))

	if got, err := img.ExtraBitMasks(); err != nil || got != argb4444 {
		t.Errorf("ExtraBitMasks() = %+v, %v", got, err)
	}
	want := []Color{{255, 0, 0, 255}, {0, 0, 0, 255}}
	for x, c := range want {
		if got := mustColorAt(t, img, x, 0); got != c {
			t.Errorf("ColorAt(%d, 0) = %v, want %v", x, got, c)
		}
	}
}

func TestSixteenBitDefaults(t *testing.T) {
	dib := infoHeader(1, 1, 16, CompressionRGB)
	img := mustFromBytes(t, buildBMP(t, dib, nil, [][]byte{{0x00, 0x7C}}))
	if got := mustColorAt(t, img, 0, 0); got != (Color{255, 0, 0, 255}) {
		t.Errorf("5-5-5 pixel = %v", got)
	}
	if _, err := img.ExtraBitMasks(); !errors.Is(err, ErrDoesNotExist) {
		t.Errorf("ExtraBitMasks: err = %v, want ErrDoesNotExist", err)
	}

	img = mustFromBytes(t, buildBMP(t, dib, quad.Bytes(4), [][]byte{{0x02, 0x00}}))
	if got := mustColorAt(t, img, 0, 0); got != quad[2] {
		t.Errorf("palette pixel = %v, want %v", got, quad[2])
	}
}

func TestTwentyFourBitDropsAlpha(t *testing.T) {
	img := mustFromBytes(t, buildBMP(t, infoHeader(1, 1, 24, CompressionRGB), nil, [][]byte{{}}))
	if err := img.SetColor(0, 0, Color{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if got := mustColorAt(t, img, 0, 0); got != (Color{1, 2, 3, 255}) {
		t.Errorf("ColorAt = %v", got)
	}

	fh, _ := img.FileHeader()
	if got := img.Bytes()[fh.OffBits : fh.OffBits+3]; !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("stored bytes = %v, want [3 2 1]", got)
	}
}

func TestThirtyTwoBitRGB(t *testing.T) {
	img := mustFromBytes(t, buildBMP(t, infoHeader(1, 1, 32, CompressionRGB), nil, [][]byte{{1, 2, 3, 4}}))
	if f, _ := img.Format(); f != "rgba" {
		t.Errorf("Format() = %q, want rgba", f)
	}
	if got := mustColorAt(t, img, 0, 0); got != (Color{1, 2, 3, 4}) {
		t.Errorf("ColorAt = %v", got)
	}
}

func TestResolveMissingParts(t *testing.T) {
	dib := v4Header(1, 1, BitMasks{})
	if _, err := Resolve([]byte{0, 0, 0, 0}, dib, nil, nil); !errors.Is(err, ErrMissing) {
		t.Errorf("no masks: err = %v, want ErrMissing", err)
	}

	pal := infoHeader(1, 1, 8, CompressionRGB)
	if _, err := Resolve([]byte{0}, pal, nil, nil); !errors.Is(err, ErrMissing) {
		t.Errorf("no table: err = %v, want ErrMissing", err)
	}
	if c, err := Resolve([]byte{1}, pal, nil, quad); err != nil || c != quad[1] {
		t.Errorf("Resolve = %v, %v", c, err)
	}

	v := &View{DIB: pal, Table: quad}
	if _, err := v.ColorAt(0, 0); !errors.Is(err, ErrMissing) {
		t.Errorf("view without plane: err = %v, want ErrMissing", err)
	}
}

func TestNewFormat(t *testing.T) {
	img := mustNew(t, 2, 3, &Color{10, 20, 30, 40})
	if f, _ := img.Format(); f != "bgra" {
		t.Errorf("Format() = %q, want bgra", f)
	}
	m, err := img.BitMasks()
	if err != nil || m != (BitMasks{Red: 0xFF0000, Green: 0xFF00, Blue: 0xFF, Alpha: 0xFF000000}) {
		t.Errorf("BitMasks() = %+v, %v", m, err)
	}
	if _, err := img.ExtraBitMasks(); !errors.Is(err, ErrDoesNotExist) {
		t.Errorf("ExtraBitMasks: err = %v, want ErrDoesNotExist", err)
	}

	fh, _ := img.FileHeader()
	if got := img.Bytes()[fh.OffBits : fh.OffBits+4]; !bytes.Equal(got, []byte{30, 20, 10, 40}) {
		t.Errorf("first pixel bytes = %v", got)
	}
}

func TestProfile(t *testing.T) {
	if _, err := mustNew(t, 1, 1, nil).Profile(); !errors.Is(err, ErrDoesNotExist) {
		t.Errorf("err = %v, want ErrDoesNotExist", err)
	}

	dib := v4Header(1, 1, BitMasks{Red: 0xFF0000, Green: 0xFF00, Blue: 0xFF})
	dib.Kind = KindV5
	dib.V4.CSType = ProfileEmbedded
	dib.V5 = &V5Fields{Intent: LCSGMGraphics, ProfileData: v5HeaderLen, ProfileSize: 4}
	img := mustFromBytes(t, buildBMP(t, dib, []byte("ICC!"), [][]byte{{}}))

	got, err := img.Profile()
	if err != nil || string(got) != "ICC!" {
		t.Errorf("Profile() = %q, %v", got, err)
	}
}

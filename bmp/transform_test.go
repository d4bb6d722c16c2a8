package bmp

import (
	"image"
	"testing"
)

func TestTranslate(t *testing.T) {
	orig := patterned(t, 3, 3)
	img := orig.Clone()
	if err := img.Translate(1, -1); err != nil {
		t.Fatal(err)
	}

	for y := range 3 {
		for x := range 3 {
			want := Transparent
			if sx, sy := x-1, y+1; sx >= 0 && sy < 3 {
				want = mustColorAt(t, orig, sx, sy)
			}
			if got := mustColorAt(t, img, x, y); got != want {
				t.Errorf("(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if err := img.Translate(-5, 0); err != nil {
		t.Fatal(err)
	}
	blank := mustNew(t, 3, 3, &Transparent)
	if !img.Equal(blank) {
		t.Error("translating off the image left pixels behind")
	}
}

func TestRotate(t *testing.T) {
	orig := patterned(t, 3, 3)
	center := image.Pt(1, 1)

	tests := []struct {
		degrees float64
		to      func(x, y int) image.Point
	}{
		{90, func(x, y int) image.Point { return image.Pt(2-y, x) }},
		{180, func(x, y int) image.Point { return image.Pt(2-x, 2-y) }},
		{-90, func(x, y int) image.Point { return image.Pt(y, 2-x) }},
		{360, func(x, y int) image.Point { return image.Pt(x, y) }},
	}
	for _, tt := range tests {
		img := orig.Clone()
		if err := img.Rotate(tt.degrees, &center); err != nil {
			t.Fatal(err)
		}
		for y := range 3 {
			for x := range 3 {
				p := tt.to(x, y)
				if got, want := mustColorAt(t, img, p.X, p.Y), mustColorAt(t, orig, x, y); got != want {
					t.Errorf("%g°: (%d, %d) moved to %v as %v, want %v", tt.degrees, x, y, p, got, want)
				}
			}
		}
	}

	img := orig.Clone()
	if err := img.Rotate(0, nil); err != nil {
		t.Fatal(err)
	}
	if !img.Equal(orig) {
		t.Error("rotating by 0° changed the image")
	}

	if err := img.Rotate(180, nil); err != nil {
		t.Fatal(err)
	}
	if got := mustColorAt(t, img, 0, 0); got != mustColorAt(t, orig, 0, 0) {
		t.Errorf("origin moved: %v", got)
	}
	if got := mustColorAt(t, img, 1, 1); got != Transparent {
		t.Errorf("(1, 1) = %v, want transparent", got)
	}
}

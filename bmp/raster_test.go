package bmp

import (
	"errors"
	"image"
	"testing"
)

func checkLine(t *testing.T, name string, pts []image.Point, p1, p2 image.Point) {
	t.Helper()

	longer := max(abs(p2.X-p1.X), abs(p2.Y-p1.Y)) + 1
	if len(pts) != longer {
		t.Errorf("%s %v-%v: %d points, want %d", name, p1, p2, len(pts), longer)
		return
	}
	if pts[0] != p1 || pts[len(pts)-1] != p2 {
		t.Errorf("%s %v-%v: runs from %v to %v", name, p1, p2, pts[0], pts[len(pts)-1])
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		if d == (image.Point{}) || abs(d.X) > 1 || abs(d.Y) > 1 {
			t.Errorf("%s %v-%v: step %v at %d is not 8-connected", name, p1, p2, d, i)
			return
		}
	}
}

func TestLineShapes(t *testing.T) {
	origins := []image.Point{{0, 0}, {5, 5}, {10, 2}}
	ends := []image.Point{
		{0, 0}, {0, 7}, {7, 0}, {9, 2}, {2, 9}, {4, 3}, {3, 4},
		{-6, 4}, {-4, -9}, {12, -1}, {7, 7}, {13, 12}, {-3, 5},
	}
	for _, o := range origins {
		for _, e := range ends {
			p2 := o.Add(e)
			checkLine(t, "LinePoints", LinePoints(o, p2), o, p2)
			checkLine(t, "BresenhamPoints", BresenhamPoints(o, p2), o, p2)
		}
	}
}

func TestLinePoints(t *testing.T) {
	tests := []struct {
		p1, p2 image.Point
		want   []image.Point
	}{
		{
			image.Pt(0, 0), image.Pt(9, 2),
			[]image.Point{
				{0, 0}, {1, 0}, {2, 0}, {3, 0},
				{4, 1}, {5, 1}, {6, 1},
				{7, 2}, {8, 2}, {9, 2},
			},
		},
		{
			image.Pt(0, 0), image.Pt(4, 3),
			[]image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}},
		},
		{
			image.Pt(3, 3), image.Pt(0, 0),
			[]image.Point{{3, 3}, {2, 2}, {1, 1}, {0, 0}},
		},
		{
			image.Pt(2, 4), image.Pt(2, 1),
			[]image.Point{{2, 4}, {2, 3}, {2, 2}, {2, 1}},
		},
	}
	for _, tt := range tests {
		got := LinePoints(tt.p1, tt.p2)
		if len(got) != len(tt.want) {
			t.Errorf("LinePoints(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("LinePoints(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
				break
			}
		}
	}
}

func TestDrawLine(t *testing.T) {
	black := Color{0, 0, 0, 255}
	img := mustNew(t, 8, 3, nil)
	if err := img.DrawLine(black, image.Pt(1, 1), image.Pt(1, 6)); err != nil {
		t.Fatal(err)
	}

	snap, err := img.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, c := range snap.Pix {
		if c == black {
			n++
		}
	}
	if n != 6 {
		t.Errorf("%d pixels painted, want 6", n)
	}

	err = img.DrawLine(black, image.Pt(0, 0), image.Pt(5, 0))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	if got := mustColorAt(t, img, 2, 0); got != black {
		t.Errorf("in-bounds part of the line was not kept: %v", got)
	}

	if err := img.DrawLineWith(BresenhamPoints, black, image.Pt(0, 7), image.Pt(2, 7)); err != nil {
		t.Fatal(err)
	}
	if got := mustColorAt(t, img, 1, 7); got != black {
		t.Errorf("Bresenham midpoint = %v", got)
	}
}

func TestDrawRectangle(t *testing.T) {
	red, blue := Color{255, 0, 0, 255}, Color{0, 0, 255, 255}
	img := mustNew(t, 5, 6, nil)
	if err := img.DrawRectangle(&red, &blue, image.Pt(1, 1), image.Pt(4, 3)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y int
		want Color
	}{
		{0, 0, White},
		{1, 1, blue},
		{4, 3, blue},
		{4, 2, blue},
		{2, 3, blue},
		{2, 2, red},
		{3, 2, red},
		{5, 2, White},
	}
	for _, tt := range tests {
		if got := mustColorAt(t, img, tt.x, tt.y); got != tt.want {
			t.Errorf("(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	outline := mustNew(t, 5, 6, nil)
	if err := outline.DrawRectangle(nil, &blue, image.Pt(1, 1), image.Pt(4, 3)); err != nil {
		t.Fatal(err)
	}
	if got := mustColorAt(t, outline, 2, 2); got != White {
		t.Errorf("unfilled interior = %v", got)
	}
}

func TestFillBucket(t *testing.T) {
	black, red := Color{0, 0, 0, 255}, Color{255, 0, 0, 255}
	img := mustNew(t, 5, 5, nil)
	if err := img.DrawLine(black, image.Pt(2, 0), image.Pt(2, 4)); err != nil {
		t.Fatal(err)
	}

	pts, err := img.FillBucket(red, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 10 {
		t.Errorf("filled %d points, want 10", len(pts))
	}
	if pts[0] != image.Pt(0, 0) {
		t.Errorf("first point = %v", pts[0])
	}

	filled := make(map[image.Point]bool, len(pts))
	for _, p := range pts {
		if filled[p] {
			t.Errorf("%v visited twice", p)
		}
		filled[p] = true
	}
	for p := range filled {
		for _, d := range neighbours {
			n := p.Add(d)
			if !n.In(img.Bounds()) || filled[n] {
				continue
			}
			if c := mustColorAt(t, img, n.X, n.Y); c != black {
				t.Errorf("neighbour %v of the region is %v", n, c)
			}
		}
	}

	if got := mustColorAt(t, img, 3, 3); got != White {
		t.Errorf("fill crossed the wall: %v", got)
	}
	if got := mustColorAt(t, img, 1, 4); got != red {
		t.Errorf("(1, 4) = %v", got)
	}

	if _, err := img.FillBucket(red, 5, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestDrawEllipse(t *testing.T) {
	black, red := Color{0, 0, 0, 255}, Color{255, 0, 0, 255}
	img := mustNew(t, 11, 11, nil)
	center := image.Pt(5, 5)
	if err := img.DrawEllipse(center, 3, 2, black, &red, true); err != nil {
		t.Fatal(err)
	}

	for _, p := range []image.Point{{5, 3}, {5, 7}, {2, 5}, {8, 5}, {6, 3}, {7, 4}} {
		if got := mustColorAt(t, img, p.X, p.Y); got != black {
			t.Errorf("stroke at %v = %v", p, got)
		}
	}
	for _, p := range []image.Point{{5, 5}, {7, 5}, {4, 4}, {5, 6}} {
		if got := mustColorAt(t, img, p.X, p.Y); got != red {
			t.Errorf("interior at %v = %v", p, got)
		}
	}
	if got := mustColorAt(t, img, 0, 0); got != White {
		t.Errorf("outside = %v", got)
	}

	if err := img.DrawEllipse(center, -1, 2, black, nil, false); !errors.Is(err, ErrRadiusInvalid) {
		t.Errorf("err = %v, want ErrRadiusInvalid", err)
	}
}

package bmp

import (
	"fmt"
	"image"
	"math"
)

// LineRasterizer returns the ordered pixels of the line from p1 to p2, both
// ends included.
type LineRasterizer func(p1, p2 image.Point) []image.Point

var (
	_ LineRasterizer = LinePoints
	_ LineRasterizer = BresenhamPoints
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func span(from, step image.Point, n int) []image.Point {
	pts := make([]image.Point, n)
	for i := range pts {
		pts[i] = from.Add(step.Mul(i))
	}
	return pts
}

// LinePoints draws a staircase of runs along the longer axis. There is one run
// per pixel of the shorter axis: the inner runs are floor(longer/shorter)
// long and the remainder is split between the first run (rounded up) and the
// last one. Lines whose runs would all be one pixel long except for the
// remainder are instead drawn from both ends inwards, see diagonalRun.
func LinePoints(p1, p2 image.Point) []image.Point {
	switch {
	case p1 == p2:
		return []image.Point{p1}
	case p1.X == p2.X:
		return span(p1, image.Pt(0, sign(p2.Y-p1.Y)), abs(p2.Y-p1.Y)+1)
	case p1.Y == p2.Y:
		return span(p1, image.Pt(sign(p2.X-p1.X), 0), abs(p2.X-p1.X)+1)
	}

	horizontalDiff := abs(p2.X-p1.X) + 1
	verticalDiff := abs(p2.Y-p1.Y) + 1
	major, minor := image.Pt(sign(p2.X-p1.X), 0), image.Pt(0, sign(p2.Y-p1.Y))
	longer, shorter := horizontalDiff, verticalDiff
	if verticalDiff > horizontalDiff {
		major, minor = minor, major
		longer, shorter = shorter, longer
	}

	middle, rem := longer/shorter, longer%shorter
	if middle == 1 && rem > 0 {
		return diagonalRun(p1, major, minor, longer, shorter)
	}

	startLen, endLen := middle+rem-rem/2, middle+rem/2
	pts := make([]image.Point, 0, longer)
	along := 0
	for seg := range shorter {
		n := middle
		switch seg {
		case 0:
			n = startLen
		case shorter - 1:
			n = endLen
		}
		for range n {
			pts = append(pts, p1.Add(major.Mul(along)).Add(minor.Mul(seg)))
			along++
		}
	}
	return pts
}

// diagonalRun places the first and last pixel, then fills the interior
// alternately from the front (ascending minor offset) and the back
// (descending), stepping diagonally while minor steps remain so that the flat
// steps collect in the middle.
func diagonalRun(p1, major, minor image.Point, longer, shorter int) []image.Point {
	minorAt := make([]int, longer)
	minorAt[longer-1] = shorter - 1

	gap := shorter - 1
	lo, hi := 0, shorter-1
	i, j := 1, longer-2
	for front := true; i <= j; front = !front {
		if front {
			if gap > 0 {
				lo++
				gap--
			}
			minorAt[i] = lo
			i++
		} else {
			if gap > 0 {
				hi--
				gap--
			}
			minorAt[j] = hi
			j--
		}
	}

	pts := make([]image.Point, longer)
	for k, m := range minorAt {
		pts[k] = p1.Add(major.Mul(k)).Add(minor.Mul(m))
	}
	return pts
}

// BresenhamPoints is the classic integer line, usable in place of LinePoints
// when exact compatibility with the staircase rasterization is not needed.
func BresenhamPoints(p1, p2 image.Point) []image.Point {
	dx, dy := abs(p2.X-p1.X), -abs(p2.Y-p1.Y)
	sx, sy := sign(p2.X-p1.X), sign(p2.Y-p1.Y)
	e := dx + dy

	pts := make([]image.Point, 0, max(dx, -dy)+1)
	for p := p1; ; {
		pts = append(pts, p)
		if p == p2 {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
}

// DrawLine strokes the line from p1 to p2 with LinePoints.
func (img *Image) DrawLine(c Color, p1, p2 image.Point) error {
	return img.DrawLineWith(LinePoints, c, p1, p2)
}

func (img *Image) DrawLineWith(r LineRasterizer, c Color, p1, p2 image.Point) error {
	return img.SetColors(r(p1, p2), c)
}

// DrawRectangle takes the inclusive top-left p1 and bottom-right p2 corners.
// fill paints the interior, stroke the four edges; either may be nil.
func (img *Image) DrawRectangle(fill, stroke *Color, p1, p2 image.Point) error {
	if fill != nil {
		var pts []image.Point
		for y := p1.Y + 1; y < p2.Y; y++ {
			for x := p1.X + 1; x < p2.X; x++ {
				pts = append(pts, image.Pt(x, y))
			}
		}
		if err := img.SetColors(pts, *fill); err != nil {
			return err
		}
	}

	if stroke != nil {
		edges := [][2]image.Point{
			{p1, image.Pt(p2.X, p1.Y)},
			{image.Pt(p1.X, p2.Y), p2},
			{p1, image.Pt(p1.X, p2.Y)},
			{image.Pt(p2.X, p1.Y), p2},
		}
		for _, e := range edges {
			if err := img.DrawLine(*stroke, e[0], e[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// DrawEllipse samples y = round(sqrt((1 - x²/a²) * b²)) for every column
// offset and strokes the four mirrored points. With guessGaps, columns where
// y drops by more than one pixel get the skipped rows stroked too. A non-nil
// fill flood fills from center afterwards.
func (img *Image) DrawEllipse(center image.Point, xRadius, yRadius int, stroke Color, fill *Color, guessGaps bool) error {
	if xRadius < 0 || yRadius < 0 {
		return fmt.Errorf("ellipse radii %d,%d: %w", xRadius, yRadius, ErrRadiusInvalid)
	}

	var pts []image.Point
	quad := func(dx, dy int) {
		pts = append(pts,
			center.Add(image.Pt(dx, dy)),
			center.Add(image.Pt(-dx, dy)),
			center.Add(image.Pt(dx, -dy)),
			center.Add(image.Pt(-dx, -dy)))
	}

	a, b := float64(xRadius), float64(yRadius)
	prev := yRadius
	for x := 1; x <= xRadius; x++ {
		fx := float64(x)
		y := int(math.Round(math.Sqrt((1 - fx*fx/(a*a)) * b * b)))
		quad(x, y)
		if guessGaps && prev-y > 1 {
			for gy := y + 1; gy < prev; gy++ {
				quad(x, gy)
			}
		}
		prev = y
	}
	pts = append(pts,
		center.Add(image.Pt(0, -yRadius)),
		center.Add(image.Pt(0, yRadius)),
		center.Add(image.Pt(-xRadius, 0)),
		center.Add(image.Pt(xRadius, 0)))

	if err := img.SetColors(pts, stroke); err != nil {
		return err
	}
	if fill != nil {
		if _, err := img.FillBucket(*fill, center.X, center.Y); err != nil {
			return err
		}
	}
	return nil
}

var neighbours = [4]image.Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// FillBucket repaints the 4-connected region of pixels sharing the color at
// (x, y), breadth first, and returns the repainted points in visit order.
func (img *Image) FillBucket(c Color, x, y int) ([]image.Point, error) {
	w, err := img.writer()
	if err != nil {
		return nil, err
	}
	cs, err := img.Snapshot()
	if err != nil {
		return nil, err
	}
	if !cs.In(x, y) {
		return nil, fmt.Errorf("fill seed (%d,%d) outside %dx%d: %w", x, y, cs.Width, cs.Height, ErrOutOfBounds)
	}

	const (
		queued = 1 + iota
		visited
	)
	seed := cs.At(x, y)
	state := make([]uint8, cs.Width*cs.Height)
	queue := []image.Point{{x, y}}
	state[y*cs.Width+x] = queued

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		state[p.Y*cs.Width+p.X] = visited
		for _, d := range neighbours {
			n := p.Add(d)
			if !cs.In(n.X, n.Y) || state[n.Y*cs.Width+n.X] != 0 || cs.At(n.X, n.Y) != seed {
				continue
			}
			state[n.Y*cs.Width+n.X] = queued
			queue = append(queue, n)
		}
	}

	for _, p := range queue {
		if err := w.set(p.X, p.Y, c); err != nil {
			return nil, err
		}
	}
	return queue, nil
}

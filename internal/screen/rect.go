// Package screen is a small virtual terminal: a constraint layout solver,
// a cell buffer, widgets that paint into it and a committer that writes only
// the cells that changed since the previous frame.
package screen

// Rect is a rectangular area of the terminal in cell coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Area returns the number of cells covered by r.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Inset shrinks r by n cells on every side.
func (r Rect) Inset(n int) Rect {
	if r.Width < 2*n || r.Height < 2*n {
		return Rect{X: r.X + n, Y: r.Y + n}
	}
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{X: x1, Y: y1}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Row returns the single-line rect at offset dy inside r.
func (r Rect) Row(dy int) Rect {
	if dy < 0 || dy >= r.Height {
		return Rect{X: r.X, Y: r.Y + dy}
	}
	return Rect{X: r.X, Y: r.Y + dy, Width: r.Width, Height: 1}
}

// Centered returns a w x h rect centered in r, clipped to r.
func (r Rect) Centered(w, h int) Rect {
	w, h = min(w, r.Width), min(h, r.Height)
	return Rect{X: r.X + (r.Width-w)/2, Y: r.Y + (r.Height-h)/2, Width: w, Height: h}
}

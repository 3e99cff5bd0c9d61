package screen

// Row is one table row. Style is painted across the full row before the
// cells, so cell spans without a color inherit it.
type Row struct {
	Cells []Line
	Style Style
}

// Table renders a header row followed by body rows. Columns are sized with
// the layout solver; right-aligned columns pad on the left.
type Table struct {
	Header        Row
	Rows          []Row
	Widths        []Constraint
	RightAlign    []bool
	ColumnSpacing int
	Style         Style
	// Offset is the index of the first body row shown.
	Offset int
}

// ColumnRects returns the horizontal placement of each column within area.
func (t Table) ColumnRects(area Rect) []Rect {
	n := len(t.Widths)
	if n == 0 {
		return nil
	}
	spacing := max(t.ColumnSpacing, 0)
	avail := max(area.Width-spacing*(n-1), 0)
	sizes := Solve(avail, t.Widths)

	rects := make([]Rect, n)
	x := area.X
	for i, s := range sizes {
		rects[i] = Rect{X: x, Y: area.Y, Width: s, Height: 1}
		x += s + spacing
	}
	return rects
}

func (t Table) Render(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	buf.SetStyle(area, t.Style)
	cols := t.ColumnRects(area)

	y := area.Y
	if len(t.Header.Cells) > 0 {
		t.renderRow(t.Header, cols, area.Row(0), buf)
		y++
	}
	for i := max(t.Offset, 0); i < len(t.Rows) && y < area.Bottom(); i++ {
		t.renderRow(t.Rows[i], cols, area.Row(y-area.Y), buf)
		y++
	}
}

func (t Table) renderRow(r Row, cols []Rect, line Rect, buf *Buffer) {
	buf.SetStyle(line, r.Style)
	for i, c := range r.Cells {
		if i >= len(cols) || cols[i].Width == 0 {
			break
		}
		x := cols[i].X
		if i < len(t.RightAlign) && t.RightAlign[i] {
			x += alignOffset(AlignRight, c.Width(), cols[i].Width)
		}
		buf.SetLine(x, line.Y, c, cols[i].Right()-x)
	}
}

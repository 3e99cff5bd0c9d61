package screen

// Block draws a frame with an optional title around an inner area.
type Block struct {
	Title       string
	TitleStyle  Style
	Borders     bool
	BorderStyle Style
	Style       Style
}

// Inner returns the area left for content once the frame is drawn.
func (b Block) Inner(area Rect) Rect {
	if !b.Borders {
		return area
	}
	return area.Inset(1)
}

func (b Block) Render(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	// background first so content painted later keeps it
	buf.SetStyle(area, b.Style)

	if b.Borders && area.Width >= 2 && area.Height >= 2 {
		right, bottom := area.Right()-1, area.Bottom()-1
		for x := area.X + 1; x < right; x++ {
			buf.SetString(x, area.Y, "─", b.BorderStyle)
			buf.SetString(x, bottom, "─", b.BorderStyle)
		}
		for y := area.Y + 1; y < bottom; y++ {
			buf.SetString(area.X, y, "│", b.BorderStyle)
			buf.SetString(right, y, "│", b.BorderStyle)
		}
		buf.SetString(area.X, area.Y, "┌", b.BorderStyle)
		buf.SetString(right, area.Y, "┐", b.BorderStyle)
		buf.SetString(area.X, bottom, "└", b.BorderStyle)
		buf.SetString(right, bottom, "┘", b.BorderStyle)
	}

	if b.Title != "" {
		x, width := area.X, area.Width
		if b.Borders {
			x, width = area.X+2, area.Width-4
		}
		if width > 0 {
			buf.SetStringN(x, area.Y, " "+b.Title+" ", width, b.TitleStyle)
		}
	}
}

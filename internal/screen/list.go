package screen

// List renders items one per line with an optional highlighted selection.
type List struct {
	Items          []Line
	Selected       int
	Offset         int
	Style          Style
	HighlightStyle Style
	Marker         string
}

// ScrollOffset returns the first visible index that keeps selected within a
// viewport of height rows, moving as little as possible from offset.
func ScrollOffset(selected, offset, height, total int) int {
	if height <= 0 || total <= 0 {
		return 0
	}
	if selected < offset {
		offset = selected
	}
	if selected >= offset+height {
		offset = selected - height + 1
	}
	return min(max(offset, 0), max(total-height, 0))
}

func (l List) Render(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	buf.SetStyle(area, l.Style)
	offset := ScrollOffset(l.Selected, l.Offset, area.Height, len(l.Items))
	markerWidth := StringWidth(l.Marker)
	for row := 0; row < area.Height && offset+row < len(l.Items); row++ {
		i := offset + row
		line := area.Row(row)
		x := line.X
		if i == l.Selected {
			buf.SetStyle(line, l.HighlightStyle)
			if markerWidth > 0 {
				x = buf.SetStringN(x, line.Y, l.Marker, line.Width, Style{})
			}
		} else {
			x += markerWidth
		}
		buf.SetLine(x, line.Y, l.Items[i], line.Right()-x)
	}
}

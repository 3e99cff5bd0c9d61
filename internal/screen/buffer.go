package screen

import (
	"github.com/mattn/go-runewidth"
)

// Cell is one character position. A wide character occupies its own cell
// plus a continuation cell whose Symbol is empty.
type Cell struct {
	Symbol string
	Style  Style
}

var blank = Cell{Symbol: " "}

// SetStyle patches st onto the cell.
func (c *Cell) SetStyle(st Style) {
	c.Style = c.Style.Patch(st)
}

func (c Cell) continuation() bool { return c.Symbol == "" }

// Buffer is a full frame of cells, row-major.
type Buffer struct {
	Area  Rect
	Cells []Cell
}

// NewBuffer returns a buffer covering area filled with blanks.
func NewBuffer(area Rect) *Buffer {
	b := &Buffer{Area: area, Cells: make([]Cell, max(area.Area(), 0))}
	b.Reset()
	return b
}

// Reset fills every cell with an unstyled blank.
func (b *Buffer) Reset() {
	for i := range b.Cells {
		b.Cells[i] = blank
	}
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= b.Area.X && x < b.Area.Right() && y >= b.Area.Y && y < b.Area.Bottom()
}

func (b *Buffer) index(x, y int) int {
	return (y-b.Area.Y)*b.Area.Width + (x - b.Area.X)
}

// Cell returns the cell at x, y or nil when outside the buffer.
func (b *Buffer) Cell(x, y int) *Cell {
	if !b.inBounds(x, y) {
		return nil
	}
	return &b.Cells[b.index(x, y)]
}

// Fill sets every cell in area to c.
func (b *Buffer) Fill(area Rect, c Cell) {
	area = area.Intersect(b.Area)
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			b.Cells[b.index(x, y)] = c
		}
	}
}

// SetStyle patches st onto every cell in area without touching symbols.
func (b *Buffer) SetStyle(area Rect, st Style) {
	area = area.Intersect(b.Area)
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			b.Cells[b.index(x, y)].SetStyle(st)
		}
	}
}

// SetString writes s at x, y clipped to the buffer's right edge and returns
// the column after the last written cell.
func (b *Buffer) SetString(x, y int, s string, st Style) int {
	return b.SetStringN(x, y, s, b.Area.Right()-x, st)
}

// SetStringN writes at most width columns of s at x, y. Styles are patched
// onto the existing cells so a background painted earlier survives. A wide
// character that would straddle the limit is replaced by a blank. Control
// characters are written as blanks.
func (b *Buffer) SetStringN(x, y int, s string, width int, st Style) int {
	if y < b.Area.Y || y >= b.Area.Bottom() {
		return x
	}
	limit := min(x+max(width, 0), b.Area.Right())
	cx := x
	for _, r := range s {
		if cx >= limit {
			break
		}
		if r < 0x20 || r == 0x7f {
			r = ' '
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// combining mark: attach to the previous cell
			if cx > x && b.inBounds(cx-1, y) {
				prev := &b.Cells[b.index(cx-1, y)]
				if prev.continuation() && b.inBounds(cx-2, y) {
					prev = &b.Cells[b.index(cx-2, y)]
				}
				prev.Symbol += string(r)
			}
			continue
		}
		if cx < b.Area.X {
			cx += w
			continue
		}
		if cx+w > limit {
			b.detach(cx, cx+1, y)
			c := &b.Cells[b.index(cx, y)]
			c.Symbol = " "
			c.SetStyle(st)
			cx++
			break
		}
		b.detach(cx, cx+w, y)
		c := &b.Cells[b.index(cx, y)]
		c.Symbol = string(r)
		c.SetStyle(st)
		for i := 1; i < w; i++ {
			cont := &b.Cells[b.index(cx+i, y)]
			cont.Symbol = ""
			cont.SetStyle(st)
		}
		cx += w
	}
	return cx
}

// detach blanks the halves of wide characters that straddle either edge of
// [x0, x1) on row y, which is about to be overwritten.
func (b *Buffer) detach(x0, x1, y int) {
	if b.Cells[b.index(x0, y)].continuation() {
		for x := x0 - 1; x >= b.Area.X; x-- {
			c := &b.Cells[b.index(x, y)]
			cont := c.continuation()
			c.Symbol = " "
			if !cont {
				break
			}
		}
	}
	for x := x1; b.inBounds(x, y) && b.Cells[b.index(x, y)].continuation(); x++ {
		b.Cells[b.index(x, y)].Symbol = " "
	}
}

// SetLine writes the spans of l left to right starting at x, y within width.
func (b *Buffer) SetLine(x, y int, l Line, width int) int {
	limit := x + width
	for _, sp := range l {
		if x >= limit {
			break
		}
		x = b.SetStringN(x, y, sp.Text, limit-x, sp.Style)
	}
	return x
}

// String returns the buffer's symbols as lines, for tests and snapshots.
func (b *Buffer) String() string {
	out := make([]byte, 0, b.Area.Area()+b.Area.Height)
	for y := b.Area.Y; y < b.Area.Bottom(); y++ {
		for x := b.Area.X; x < b.Area.Right(); x++ {
			out = append(out, b.Cells[b.index(x, y)].Symbol...)
		}
		out = append(out, '\n')
	}
	return string(out)
}

// StringWidth is the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most width columns, marking the cut with tail.
func Truncate(s string, width int, tail string) string {
	return runewidth.Truncate(s, width, tail)
}

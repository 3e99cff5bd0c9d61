package screen

// Span is a run of text with a single style.
type Span struct {
	Text  string
	Style Style
}

// Line is a sequence of spans painted left to right.
type Line []Span

// Plain returns a single unstyled span line.
func Plain(s string) Line { return Line{{Text: s}} }

// Styled returns a single span line.
func Styled(s string, st Style) Line { return Line{{Text: s, Style: st}} }

// Width is the number of columns the line occupies.
func (l Line) Width() int {
	w := 0
	for _, sp := range l {
		w += StringWidth(sp.Text)
	}
	return w
}

// Alignment positions a line horizontally inside its area.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func alignOffset(a Alignment, lineWidth, areaWidth int) int {
	switch a {
	case AlignRight:
		return max(areaWidth-lineWidth, 0)
	case AlignCenter:
		return max((areaWidth-lineWidth)/2, 0)
	}
	return 0
}

// Widget paints itself into a region of a buffer.
type Widget interface {
	Render(area Rect, buf *Buffer)
}

// Paragraph renders lines top to bottom, clipping whatever does not fit.
type Paragraph struct {
	Lines []Line
	Style Style
	Align Alignment
}

func (p Paragraph) Render(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	buf.SetStyle(area, p.Style)
	for i, l := range p.Lines {
		if i >= area.Height {
			break
		}
		x := area.X + alignOffset(p.Align, l.Width(), area.Width)
		buf.SetLine(x, area.Y+i, l, area.Right()-x)
	}
}

package screen

// Sparkline block characters representing 8 vertical levels (lowest to highest).
var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the most recent values that fit in a single row. Values
// are scaled against Max; a zero Max scales against the largest value.
type Sparkline struct {
	Data     []float64
	Max      float64
	Style    Style
	Gradient Gradient
}

func (s Sparkline) Render(area Rect, buf *Buffer) {
	if area.Empty() || len(s.Data) == 0 {
		return
	}
	data := s.Data
	if len(data) > area.Width {
		data = data[len(data)-area.Width:]
	}
	top := s.Max
	if top <= 0 {
		for _, v := range data {
			top = max(top, v)
		}
	}
	if top <= 0 {
		top = 1
	}
	x := area.Right() - len(data)
	levels := len(sparklineBlocks)
	for i, v := range data {
		norm := min(max(v/top, 0), 1)
		level := min(int(norm*float64(levels-1)+0.5), levels-1)
		st := s.Style
		if len(s.Gradient) > 0 {
			st = st.Foreground(s.Gradient.At(norm))
		}
		buf.SetString(x+i, area.Y, string(sparklineBlocks[level]), st)
	}
}

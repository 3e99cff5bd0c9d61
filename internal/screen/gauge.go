package screen

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Gradient maps a position in [0,1] to a color by blending between stops.
type Gradient []colorful.Color

// NewGradient parses hex stops such as "#5fd700". Invalid stops are skipped.
func NewGradient(hexes ...string) Gradient {
	g := make(Gradient, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		g = append(g, c)
	}
	return g
}

// At returns the color at position t.
func (g Gradient) At(t float64) termenv.Color {
	switch len(g) {
	case 0:
		return nil
	case 1:
		return termenv.RGBColor(g[0].Hex())
	}
	t = math.Max(0, math.Min(1, t))
	seg := t * float64(len(g)-1)
	i := int(seg)
	frac := seg - float64(i)
	if i >= len(g)-1 {
		return termenv.RGBColor(g[len(g)-1].Hex())
	}
	if frac == 0 {
		return termenv.RGBColor(g[i].Hex())
	}
	return termenv.RGBColor(g[i].BlendLuv(g[i+1], frac).Clamped().Hex())
}

// Gauge is a proportional bar in the style "CPU[|||||     42.0%]".
// With a Gradient each filled cell is colored by its position along the bar,
// otherwise the whole fill uses Fill.
type Gauge struct {
	Label      string
	LabelStyle Style
	Ratio      float64
	// Text is drawn right-aligned inside the bar. Empty means a percentage.
	Text      string
	TextStyle Style
	Fill      Style
	Gradient  Gradient
	Bracket   Style
	Symbol    string
}

func (g Gauge) Render(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	y := area.Y
	x := buf.SetStringN(area.X, y, g.Label, area.Width, g.LabelStyle)
	if area.Right()-x < 2 {
		return
	}
	x = buf.SetString(x, y, "[", g.Bracket)
	inner := area.Right() - x - 1
	buf.SetString(x+inner, y, "]", g.Bracket)

	ratio := math.Max(0, math.Min(1, g.Ratio))
	if math.IsNaN(g.Ratio) {
		ratio = 0
	}
	filled := int(math.Round(ratio * float64(inner)))
	symbol := g.Symbol
	if symbol == "" {
		symbol = "|"
	}
	for i := 0; i < filled; i++ {
		st := g.Fill
		if len(g.Gradient) > 0 {
			st = st.Foreground(g.Gradient.At(float64(i) / float64(max(inner-1, 1))))
		}
		buf.SetString(x+i, y, symbol, st)
	}

	text := g.Text
	if text == "" {
		text = fmt.Sprintf("%.1f%%", ratio*100)
	}
	if tw := StringWidth(text); tw <= inner {
		buf.SetStringN(x+inner-tw, y, text, tw, g.TextStyle)
	}
}

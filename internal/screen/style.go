package screen

import (
	"strings"

	"github.com/muesli/termenv"
)

// Modifier is a set of text attributes.
type Modifier uint8

const (
	Bold Modifier = 1 << iota
	Faint
	Italic
	Underline
	Reverse
)

var modifierSeqs = []struct {
	mod Modifier
	seq string
}{
	{Bold, termenv.BoldSeq},
	{Faint, termenv.FaintSeq},
	{Italic, termenv.ItalicSeq},
	{Underline, termenv.UnderlineSeq},
	{Reverse, termenv.ReverseSeq},
}

// Style is a patch of cell attributes. A nil color leaves the underlying
// color unchanged when the style is applied on top of another one.
type Style struct {
	Fg    termenv.Color
	Bg    termenv.Color
	Attrs Modifier
}

// NewStyle returns an empty style.
func NewStyle() Style { return Style{} }

func (s Style) Foreground(c termenv.Color) Style { s.Fg = c; return s }
func (s Style) Background(c termenv.Color) Style { s.Bg = c; return s }
func (s Style) Add(m Modifier) Style             { s.Attrs |= m; return s }
func (s Style) Bold() Style                      { return s.Add(Bold) }

// Patch returns s with every attribute set in o applied on top.
func (s Style) Patch(o Style) Style {
	if o.Fg != nil {
		s.Fg = o.Fg
	}
	if o.Bg != nil {
		s.Bg = o.Bg
	}
	s.Attrs |= o.Attrs
	return s
}

// sgr renders the select-graphic-rendition sequence for s under profile p.
// It always starts from a reset so the result does not depend on what the
// terminal had before.
func (s Style) sgr(p termenv.Profile) string {
	parts := []string{termenv.ResetSeq}
	for _, m := range modifierSeqs {
		if s.Attrs&m.mod != 0 {
			parts = append(parts, m.seq)
		}
	}
	if s.Fg != nil {
		if seq := p.Convert(s.Fg).Sequence(false); seq != "" {
			parts = append(parts, seq)
		}
	}
	if s.Bg != nil {
		if seq := p.Convert(s.Bg).Sequence(true); seq != "" {
			parts = append(parts, seq)
		}
	}
	return termenv.CSI + strings.Join(parts, ";") + "m"
}

package screen

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStringClipsAtLimit(t *testing.T) {
	buf := NewBuffer(Rect{Width: 10, Height: 1})

	end := buf.SetStringN(2, 0, "process", 4, Style{})
	assert.Equal(t, 6, end)
	assert.Equal(t, "  proc    \n", buf.String())
}

func TestSetStringWideCharacters(t *testing.T) {
	buf := NewBuffer(Rect{Width: 6, Height: 1})

	end := buf.SetString(0, 0, "日本x", Style{})
	assert.Equal(t, 5, end)
	assert.Equal(t, "日", buf.Cell(0, 0).Symbol)
	assert.Equal(t, "", buf.Cell(1, 0).Symbol, "second half is a continuation cell")
	assert.Equal(t, "本", buf.Cell(2, 0).Symbol)
	assert.Equal(t, "x", buf.Cell(4, 0).Symbol)
}

func TestSetStringWideCharacterAtEdge(t *testing.T) {
	buf := NewBuffer(Rect{Width: 3, Height: 1})

	buf.SetString(0, 0, "ab日", Style{})
	assert.Equal(t, "ab \n", buf.String(), "a wide rune that does not fit becomes a blank")
}

func TestSetStringOverWideCharacterHalves(t *testing.T) {
	buf := NewBuffer(Rect{Width: 6, Height: 1})
	buf.SetString(0, 0, "日本語", Style{})

	// over the second half of 日
	buf.SetString(1, 0, "a", Style{})
	assert.Equal(t, " ", buf.Cell(0, 0).Symbol)
	assert.Equal(t, "a", buf.Cell(1, 0).Symbol)

	// over the first half of 本
	buf.SetString(2, 0, "b", Style{})
	assert.Equal(t, "b", buf.Cell(2, 0).Symbol)
	assert.Equal(t, " ", buf.Cell(3, 0).Symbol)
	assert.Equal(t, "語", buf.Cell(4, 0).Symbol)
	assert.Equal(t, " ab 語\n", buf.String())

	// a wide rune landing on a continuation cell
	buf.SetString(5, 0, "x", Style{})
	assert.Equal(t, " ", buf.Cell(4, 0).Symbol)
	assert.Equal(t, "x", buf.Cell(5, 0).Symbol)
}

func TestSetStringControlCharacters(t *testing.T) {
	buf := NewBuffer(Rect{Width: 5, Height: 1})
	buf.SetString(0, 0, "a\tb\nc", Style{})
	assert.Equal(t, "a b c\n", buf.String())
}

func TestSetStringOutOfBounds(t *testing.T) {
	buf := NewBuffer(Rect{Width: 4, Height: 2})
	assert.NotPanics(t, func() {
		buf.SetString(0, 5, "x", Style{})
		buf.SetString(10, 0, "x", Style{})
		buf.SetStringN(0, 0, "x", -3, Style{})
	})
	assert.Equal(t, "    \n    \n", buf.String())
}

func TestStylePatchKeepsBackground(t *testing.T) {
	red := termenv.ANSIColor(1)
	blue := termenv.ANSIColor(4)
	buf := NewBuffer(Rect{Width: 4, Height: 1})

	buf.SetStyle(buf.Area, NewStyle().Background(red))
	buf.SetString(0, 0, "ab", NewStyle().Foreground(blue).Bold())

	c := buf.Cell(0, 0)
	require.NotNil(t, c)
	assert.Equal(t, termenv.Color(red), c.Style.Bg)
	assert.Equal(t, termenv.Color(blue), c.Style.Fg)
	assert.Equal(t, Bold, c.Style.Attrs)
	assert.Equal(t, termenv.Color(red), buf.Cell(3, 0).Style.Bg)
	assert.Nil(t, buf.Cell(3, 0).Style.Fg)
}

func TestSetLine(t *testing.T) {
	buf := NewBuffer(Rect{Width: 8, Height: 1})
	line := Line{{Text: "12"}, {Text: "3G", Style: NewStyle().Bold()}}

	assert.Equal(t, 4, line.Width())
	buf.SetLine(1, 0, line, 3)
	assert.Equal(t, " 123    \n", buf.String())
	assert.Equal(t, Bold, buf.Cell(3, 0).Style.Attrs)
}

func TestFillAndReset(t *testing.T) {
	buf := NewBuffer(Rect{Width: 3, Height: 2})
	buf.Fill(Rect{X: 1, Y: 0, Width: 5, Height: 1}, Cell{Symbol: "#"})
	assert.Equal(t, " ##\n   \n", buf.String())

	buf.Reset()
	assert.Equal(t, strings.Repeat("   \n", 2), buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "syst…", Truncate("systemd-journald", 5, "…"))
	assert.Equal(t, 4, StringWidth("日本"))
}

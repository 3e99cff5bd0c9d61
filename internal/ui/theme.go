package ui

import (
	"github.com/Dicklesworthstone/proctop/internal/screen"
	"github.com/muesli/termenv"
)

// theme groups every style the monitor paints with.
type theme struct {
	Base screen.Style

	Label     screen.Style
	Value     screen.Style
	Dim       screen.Style
	Bracket   screen.Style
	GaugeText screen.Style
	Gradient  screen.Gradient
	Spark     screen.Style

	TableHeader screen.Style
	SortHeader  screen.Style
	Selected    screen.Style
	SearchMatch screen.Style
	Tagged      screen.Style
	NewProcess  screen.Style
	Context     screen.Style
	Large       screen.Style
	Kernel      screen.Style

	FooterKey   screen.Style
	FooterLabel screen.Style
	Status      screen.Style
	StatusError screen.Style

	DialogBorder screen.Style
	DialogTitle  screen.Style
	Dialog       screen.Style
	DialogSelect screen.Style

	ScrollThumb screen.Style
	ScrollTrack screen.Style
}

var (
	black  = termenv.ANSIBlack
	red    = termenv.ANSIRed
	green  = termenv.ANSIGreen
	yellow = termenv.ANSIYellow
	blue   = termenv.ANSIBlue
	cyan   = termenv.ANSICyan
	white  = termenv.ANSIWhite
	gray   = termenv.ANSIBrightBlack
	bwhite = termenv.ANSIBrightWhite
)

// usageGradient runs green to yellow to red along a meter.
var usageGradient = screen.NewGradient("#5fd700", "#ffd700", "#ff005f")

func colorTheme() theme {
	s := screen.NewStyle
	return theme{
		Label:     s().Foreground(cyan).Bold(),
		Value:     s().Foreground(bwhite),
		Dim:       s().Foreground(gray),
		Bracket:   s().Foreground(bwhite).Bold(),
		GaugeText: s().Foreground(gray),
		Gradient:  usageGradient,
		Spark:     s().Foreground(cyan),

		TableHeader: s().Foreground(black).Background(green),
		SortHeader:  s().Foreground(black).Background(cyan).Bold(),
		Selected:    s().Foreground(black).Background(cyan),
		SearchMatch: s().Foreground(black).Background(yellow),
		Tagged:      s().Foreground(yellow).Bold(),
		NewProcess:  s().Foreground(black).Background(green),
		Context:     s().Foreground(gray),
		Large:       s().Foreground(cyan),
		Kernel:      s().Foreground(gray),

		FooterKey:   s().Foreground(white).Background(black),
		FooterLabel: s().Foreground(black).Background(cyan),
		Status:      s().Foreground(green),
		StatusError: s().Foreground(red).Bold(),

		DialogBorder: s().Foreground(blue).Bold(),
		DialogTitle:  s().Foreground(bwhite).Bold(),
		Dialog:       s().Foreground(white).Background(black),
		DialogSelect: s().Foreground(black).Background(cyan),

		ScrollThumb: s().Foreground(cyan),
		ScrollTrack: s().Foreground(gray),
	}
}

// monoTheme relies on attributes alone so the screen stays readable
// without color.
func monoTheme() theme {
	s := screen.NewStyle
	rev := s().Add(screen.Reverse)
	return theme{
		Label:     s().Bold(),
		Bracket:   s().Bold(),
		GaugeText: s().Add(screen.Faint),
		Dim:       s().Add(screen.Faint),

		TableHeader: rev,
		SortHeader:  rev.Bold(),
		Selected:    rev,
		SearchMatch: s().Add(screen.Underline),
		Tagged:      s().Bold(),
		NewProcess:  s().Add(screen.Underline),
		Context:     s().Add(screen.Faint),
		Large:       s(),
		Kernel:      s().Add(screen.Faint),

		FooterKey:   s().Bold(),
		FooterLabel: rev,
		StatusError: s().Bold(),

		DialogBorder: s().Bold(),
		DialogTitle:  s().Bold(),
		DialogSelect: rev,

		ScrollThumb: rev,
	}
}

func themeFor(noColor bool) theme {
	if noColor {
		return monoTheme()
	}
	return colorTheme()
}

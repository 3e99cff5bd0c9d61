package screen

import (
	"bufio"
	"io"
	"os"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal owns the physical screen. It keeps only the last committed frame
// and the current dimensions between draws.
type Terminal struct {
	out     *termenv.Output
	w       *bufio.Writer
	profile termenv.Profile

	width, height int
	last          *Buffer
	next          *Buffer

	restore func() error
}

// New returns a terminal that writes frames to w. No terminal modes are
// changed, which makes it suitable for tests and for piping.
func New(w io.Writer, width, height int, profile termenv.Profile) *Terminal {
	bw := bufio.NewWriterSize(w, 64*1024)
	t := &Terminal{
		out:     termenv.NewOutput(bw, termenv.WithProfile(profile)),
		w:       bw,
		profile: profile,
		restore: func() error { return nil },
	}
	t.setSize(width, height)
	return t
}

// Open puts the terminal attached to in/out into raw mode, switches to the
// alternate screen and hides the cursor. Close undoes all of it.
func Open(in, out *os.File, noColor bool) (*Terminal, error) {
	if !term.IsTerminal(int(out.Fd())) {
		return nil, errors.New(errors.ErrTerminal,
			"Output is not a terminal",
			"Use 'proctop snapshot' for non-interactive output")
	}
	width, height, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTerminal,
			"Cannot determine terminal size",
			"Run proctop from an interactive terminal")
	}

	profile := termenv.NewOutput(out).EnvColorProfile()
	if noColor {
		profile = termenv.Ascii
	}

	var state *term.State
	if term.IsTerminal(int(in.Fd())) {
		state, err = term.MakeRaw(int(in.Fd()))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrTerminal,
				"Cannot switch the terminal to raw mode",
				"Run proctop from an interactive terminal")
		}
	}

	t := New(out, width, height, profile)
	t.out.AltScreen()
	t.out.HideCursor()
	t.out.ClearScreen()
	if err := t.w.Flush(); err != nil {
		if state != nil {
			_ = term.Restore(int(in.Fd()), state)
		}
		return nil, errors.WrapWithCode(err, errors.ErrTerminal,
			"Terminal write failed", "Check the terminal is still attached")
	}

	t.restore = func() error {
		t.out.ShowCursor()
		t.out.ExitAltScreen()
		flushErr := t.w.Flush()
		if state != nil {
			if err := term.Restore(int(in.Fd()), state); err != nil {
				return err
			}
		}
		return flushErr
	}
	return t, nil
}

// Close restores the terminal to the state it had before Open.
func (t *Terminal) Close() error {
	return t.restore()
}

// Size returns the current dimensions in cells.
func (t *Terminal) Size() (int, int) {
	return t.width, t.height
}

// Profile returns the color profile frames are encoded with.
func (t *Terminal) Profile() termenv.Profile {
	return t.profile
}

func (t *Terminal) setSize(width, height int) {
	t.width, t.height = max(width, 0), max(height, 0)
	area := Rect{Width: t.width, Height: t.height}
	t.last = nil
	t.next = NewBuffer(area)
}

// Resize adopts new dimensions. The screen is cleared and the next Draw
// repaints every cell.
func (t *Terminal) Resize(width, height int) error {
	if width == t.width && height == t.height && t.last != nil {
		return nil
	}
	t.setSize(width, height)
	t.out.ClearScreen()
	return t.flush()
}

// Invalidate forgets the committed frame so the next Draw repaints fully.
func (t *Terminal) Invalidate() {
	t.last = nil
}

// Draw paints a fresh frame with paint and commits the difference against
// the previous frame. A write failure is fatal for the session.
func (t *Terminal) Draw(paint func(area Rect, buf *Buffer)) (CommitStats, error) {
	t.next.Reset()
	paint(t.next.Area, t.next)

	stats, err := Commit(t.w, t.last, t.next, t.profile)
	if err == nil {
		err = t.w.Flush()
	}
	if err != nil {
		return stats, errors.WrapWithCode(err, errors.ErrTerminal,
			"Terminal write failed",
			"Check the terminal is still attached")
	}

	if t.last == nil || t.last.Area != t.next.Area {
		t.last = NewBuffer(t.next.Area)
	}
	t.last, t.next = t.next, t.last
	return stats, nil
}

// Frame returns the last committed frame, or nil before the first Draw.
func (t *Terminal) Frame() *Buffer {
	return t.last
}

func (t *Terminal) flush() error {
	if err := t.w.Flush(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Terminal write failed",
			"Check the terminal is still attached")
	}
	return nil
}

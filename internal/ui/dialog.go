package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dicklesworthstone/proctop/internal/actions"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/Dicklesworthstone/proctop/internal/screen"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	keyCancel  = key.NewBinding(key.WithKeys("esc"))
	keyConfirm = key.NewBinding(key.WithKeys("enter"))
	keyListUp  = key.NewBinding(key.WithKeys("up", "k", "ctrl+p"))
	keyListDn  = key.NewBinding(key.WithKeys("down", "j", "ctrl+n"))
	keyYes     = key.NewBinding(key.WithKeys("y", "Y"))
	keyNo      = key.NewBinding(key.WithKeys("n", "N"))
)

// dialog is a modal overlay. handleKey reports whether the dialog is done
// and should be closed.
type dialog interface {
	title() string
	size(area screen.Rect) (width, height int)
	render(area screen.Rect, buf *screen.Buffer, th theme)
	handleKey(a *App, msg tea.KeyMsg) (done bool)
}

// paintDialog frames d in the middle of area.
func paintDialog(d dialog, area screen.Rect, buf *screen.Buffer, th theme) {
	w, h := d.size(area)
	box := area.Centered(min(w+2, area.Width), min(h+2, area.Height))
	buf.Fill(box, screen.Cell{Symbol: " "})
	block := screen.Block{
		Title:       d.title(),
		TitleStyle:  th.DialogTitle,
		Borders:     true,
		BorderStyle: th.DialogBorder,
		Style:       th.Dialog,
	}
	block.Render(box, buf)
	d.render(block.Inner(box), buf, th)
}

// listDialog picks one of a fixed set of items.
type listDialog struct {
	heading  string
	items    []string
	selected int
	offset   int
	width    int
	onPick   func(a *App, index int)
}

func (d *listDialog) title() string { return d.heading }

func (d *listDialog) size(area screen.Rect) (int, int) {
	w := max(d.width, screen.StringWidth(d.heading)+4)
	for _, it := range d.items {
		w = max(w, screen.StringWidth(it)+2)
	}
	return w, min(len(d.items), max(area.Height-4, 1))
}

func (d *listDialog) render(area screen.Rect, buf *screen.Buffer, th theme) {
	lines := make([]screen.Line, len(d.items))
	for i, it := range d.items {
		lines[i] = screen.Plain(it)
	}
	d.offset = screen.ScrollOffset(d.selected, d.offset, area.Height, len(lines))
	screen.List{
		Items:          lines,
		Selected:       d.selected,
		Offset:         d.offset,
		Style:          th.Dialog,
		HighlightStyle: th.DialogSelect,
		Marker:         " ",
	}.Render(area, buf)
}

func (d *listDialog) handleKey(a *App, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keyCancel):
		return true
	case key.Matches(msg, keyConfirm):
		if d.onPick != nil && d.selected < len(d.items) {
			d.onPick(a, d.selected)
		}
		return true
	case key.Matches(msg, keyListUp):
		d.selected = max(d.selected-1, 0)
	case key.Matches(msg, keyListDn):
		d.selected = min(d.selected+1, len(d.items)-1)
	case key.Matches(msg, a.keys.Home):
		d.selected = 0
	case key.Matches(msg, a.keys.End):
		d.selected = len(d.items) - 1
	}
	return false
}

func newSortDialog(a *App) dialog {
	cols := model.AllColumns()
	items := make([]string, len(cols))
	selected := 0
	for i, c := range cols {
		items[i] = c.Header()
		if c == a.opts.SortKey {
			selected = i
		}
	}
	return &listDialog{
		heading:  "Sort by",
		items:    items,
		selected: selected,
		width:    16,
		onPick: func(a *App, i int) {
			a.setSort(cols[i])
		},
	}
}

func newUserDialog(a *App) dialog {
	owners := make(map[string]bool)
	if a.current != nil {
		for i := range a.current.Rows {
			if o := a.current.Rows[i].Owner; o != "" {
				owners[o] = true
			}
		}
	}
	names := make([]string, 0, len(owners))
	for o := range owners {
		names = append(names, o)
	}
	sort.Strings(names)
	items := append([]string{"All users"}, names...)
	selected := 0
	for i, n := range names {
		if n == a.opts.User {
			selected = i + 1
		}
	}
	return &listDialog{
		heading:  "Show processes of",
		items:    items,
		selected: selected,
		width:    20,
		onPick: func(a *App, i int) {
			if i == 0 {
				a.opts.User = ""
			} else {
				a.opts.User = names[i-1]
			}
			a.rearrange()
		},
	}
}

// textDialog is a one-line editor. onChange runs on every edit so search
// and filter apply while typing.
type textDialog struct {
	heading  string
	input    textinput.Model
	hint     string
	onChange func(a *App, value string)
	onSubmit func(a *App, value string)
	onCancel func(a *App)
}

func newTextDialog(heading, prompt, value string) *textDialog {
	in := textinput.New()
	in.Prompt = prompt
	in.CharLimit = 256
	in.SetValue(value)
	in.CursorEnd()
	in.Focus()
	return &textDialog{heading: heading, input: in}
}

func (d *textDialog) title() string { return d.heading }

func (d *textDialog) size(area screen.Rect) (int, int) {
	h := 1
	if d.hint != "" {
		h = 2
	}
	return min(max(48, screen.StringWidth(d.hint)+2), max(area.Width-4, 10)), h
}

func (d *textDialog) render(area screen.Rect, buf *screen.Buffer, th theme) {
	if area.Empty() {
		return
	}
	x := buf.SetStringN(area.X, area.Y, d.input.Prompt, area.Width, th.DialogTitle)
	value := d.input.Value()
	room := area.Right() - x - 1
	pos := d.input.Position()
	runes := []rune(value)
	// keep the cursor in view by scrolling the text left
	start := 0
	for start < pos && screen.StringWidth(string(runes[start:pos])) > room {
		start++
	}
	buf.SetStringN(x, area.Y, string(runes[start:]), max(area.Right()-x, 0), th.Dialog)
	cx := area.X + screen.StringWidth(d.input.Prompt) + screen.StringWidth(string(runes[start:pos]))
	if c := buf.Cell(cx, area.Y); c != nil {
		c.SetStyle(screen.NewStyle().Add(screen.Reverse))
	}
	if d.hint != "" && area.Height > 1 {
		buf.SetStringN(area.X, area.Y+1, d.hint, area.Width, th.Dim)
	}
}

func (d *textDialog) handleKey(a *App, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keyCancel):
		if d.onCancel != nil {
			d.onCancel(a)
		}
		return true
	case key.Matches(msg, keyConfirm):
		if d.onSubmit != nil {
			d.onSubmit(a, d.input.Value())
		}
		return true
	}
	before := d.input.Value()
	d.input, _ = d.input.Update(msg)
	if d.onChange != nil && d.input.Value() != before {
		d.onChange(a, d.input.Value())
	}
	return false
}

func newSearchDialog(a *App) dialog {
	d := newTextDialog("Search", "Search: ", a.opts.Search)
	d.hint = "Enter keeps matches highlighted, n/N jump between them"
	d.onChange = func(a *App, v string) {
		a.opts.Search = v
		a.rearrange()
		a.jumpToMatch(0, true)
	}
	d.onSubmit = func(a *App, v string) {
		a.opts.Search = v
		a.rearrange()
	}
	d.onCancel = func(a *App) {
		a.opts.Search = ""
		a.rearrange()
	}
	return d
}

func newFilterDialog(a *App) dialog {
	d := newTextDialog("Filter", "Filter: ", a.opts.Filter)
	d.hint = "Only matching processes are listed, Esc clears"
	d.onChange = func(a *App, v string) {
		a.opts.Filter = v
		a.rearrange()
	}
	d.onSubmit = d.onChange
	d.onCancel = func(a *App) {
		a.opts.Filter = ""
		a.rearrange()
	}
	return d
}

// newAffinityDialog captures the request for n when opened; editing the
// CPU list never re-resolves the target.
func newAffinityDialog(a *App, n *model.ProcessNode) dialog {
	req := actions.Snapshot(n, actions.KindAffinity)
	current := ""
	if cpus, err := a.deps.Executor.Affinity(n.PID); err == nil {
		current = actions.FormatCPUs(cpus)
	}
	d := newTextDialog(fmt.Sprintf("Affinity of %d %s", n.PID, n.Name), "CPUs: ", current)
	d.hint = fmt.Sprintf("e.g. 0-3,6 (machine has %d CPUs)", max(a.cores(), 1))
	d.onSubmit = func(a *App, v string) {
		cpus, err := actions.ParseCPUs(v)
		if err != nil {
			a.setError(err)
			return
		}
		r := req
		r.CPUs = cpus
		a.execute(r)
	}
	return d
}

// killDialog lets the user pick a signal for requests captured when the
// dialog opened, then optionally asks for confirmation.
type killDialog struct {
	list       listDialog
	requests   []actions.Request
	confirming bool
	confirm    bool
}

func newKillDialog(a *App, reqs []actions.Request) dialog {
	items := make([]string, len(actions.Signals))
	for i, s := range actions.Signals {
		items[i] = fmt.Sprintf("%2d %s", int(s.Signal), s.Name)
	}
	heading := fmt.Sprintf("Send signal to %d %s", reqs[0].PID, reqs[0].Name)
	if len(reqs) > 1 {
		heading = fmt.Sprintf("Send signal to %d tagged processes", len(reqs))
	}
	return &killDialog{
		list:     listDialog{heading: heading, items: items, width: 24},
		requests: reqs,
		confirm:  a.cfg.ConfirmKill,
	}
}

func (d *killDialog) title() string { return d.list.heading }

func (d *killDialog) size(area screen.Rect) (int, int) {
	w, h := d.list.size(area)
	if d.confirming {
		return max(w, screen.StringWidth(d.prompt())+2), 1
	}
	return w, h
}

func (d *killDialog) prompt() string {
	sig := actions.Signals[d.list.selected].Name
	if len(d.requests) == 1 {
		return fmt.Sprintf("Send SIG%s to %d? [y/N]", sig, d.requests[0].PID)
	}
	return fmt.Sprintf("Send SIG%s to %d processes? [y/N]", sig, len(d.requests))
}

func (d *killDialog) render(area screen.Rect, buf *screen.Buffer, th theme) {
	if d.confirming {
		buf.SetStringN(area.X, area.Y, d.prompt(), area.Width, th.DialogTitle)
		return
	}
	d.list.render(area, buf, th)
}

func (d *killDialog) handleKey(a *App, msg tea.KeyMsg) bool {
	if d.confirming {
		if key.Matches(msg, keyYes) {
			d.send(a)
		}
		return key.Matches(msg, keyYes, keyNo, keyCancel, keyConfirm)
	}
	switch {
	case key.Matches(msg, keyConfirm):
		if d.confirm {
			d.confirming = true
			return false
		}
		d.send(a)
		return true
	case key.Matches(msg, keyCancel):
		return true
	}
	d.list.handleKey(a, msg)
	return false
}

func (d *killDialog) send(a *App) {
	sig := actions.Signals[d.list.selected].Signal
	for _, r := range d.requests {
		r.Signal = sig
		a.execute(r)
	}
}

// textPanel shows read-only lines, used for help and process details.
type textPanel struct {
	heading string
	lines   []screen.Line
	offset  int
}

func (d *textPanel) title() string { return d.heading }

func (d *textPanel) size(area screen.Rect) (int, int) {
	w := screen.StringWidth(d.heading) + 4
	for _, l := range d.lines {
		w = max(w, l.Width()+2)
	}
	return min(w, max(area.Width-4, 10)), min(len(d.lines), max(area.Height-4, 1))
}

func (d *textPanel) render(area screen.Rect, buf *screen.Buffer, th theme) {
	d.offset = min(d.offset, max(len(d.lines)-area.Height, 0))
	for row := 0; row < area.Height && d.offset+row < len(d.lines); row++ {
		buf.SetLine(area.X+1, area.Y+row, d.lines[d.offset+row], area.Width-1)
	}
	screen.Scrollbar{
		ContentLength:  len(d.lines),
		ViewportLength: area.Height,
		Position:       d.offset,
		ThumbStyle:     th.ScrollThumb,
		TrackStyle:     th.ScrollTrack,
	}.Render(area, buf)
}

func (d *textPanel) handleKey(a *App, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keyListUp):
		d.offset = max(d.offset-1, 0)
	case key.Matches(msg, keyListDn):
		d.offset++
	case key.Matches(msg, a.keys.PageUp):
		d.offset = max(d.offset-10, 0)
	case key.Matches(msg, a.keys.PageDown):
		d.offset += 10
	default:
		return true
	}
	return false
}

func newHelpDialog(a *App) dialog {
	th := a.theme
	var lines []screen.Line
	for _, b := range a.keys.helpBindings() {
		lines = append(lines, screen.Line{
			{Text: fmt.Sprintf("%-14s", displayKeys(b.Keys())), Style: th.Label},
			{Text: b.Help().Desc},
		})
	}
	if a.deps.Executor.ReadOnly() {
		lines = append(lines, screen.Line{}, screen.Styled("Read-only mode: process actions are disabled", th.StatusError))
	}
	return &textPanel{heading: "Help", lines: lines}
}

// displayKeys renders key names the way the help screen shows them.
func displayKeys(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		switch k {
		case " ":
			out[i] = "Space"
		case "pgup":
			out[i] = "PgUp"
		case "pgdown":
			out[i] = "PgDn"
		default:
			if strings.HasPrefix(k, "f") && len(k) > 1 && k[1] >= '0' && k[1] <= '9' {
				out[i] = strings.ToUpper(k)
			} else {
				out[i] = k
			}
		}
	}
	return strings.Join(out, " ")
}

func newInfoDialog(a *App, n *model.ProcessNode) dialog {
	th := a.theme
	now := a.now()
	row := func(label, value string) screen.Line {
		return screen.Line{{Text: fmt.Sprintf("%-10s", label), Style: th.Label}, {Text: value}}
	}
	yes := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	started := "?"
	if !n.StartTime.IsZero() {
		started = n.StartTime.Format("2006-01-02 15:04:05") + " (" + model.FormatSince(n.StartTime, now) + " ago)"
	}
	lines := []screen.Line{
		row("PID", fmt.Sprint(n.PID)),
		row("PPID", fmt.Sprint(n.PPID)),
		row("Name", n.Name),
		row("User", orQuestion(n.Owner)),
		row("Command", orQuestion(n.Command)),
		row("Exe", orQuestion(n.ExePath)),
		row("Arch", orQuestion(n.Arch)),
		row("State", string(rune(n.Status))),
		row("Threads", fmt.Sprint(n.Threads)),
		row("Priority", fmt.Sprintf("%d (nice %d, %s)", n.Priority, n.Nice, n.Class)),
		row("CPU", fmt.Sprintf("%.1f%%", n.CPU)),
		row("Memory", fmt.Sprintf("%.1f%%  RES %s  VIRT %s  SHR %s",
			n.Mem, model.FormatBytes(n.Resident), model.FormatBytes(n.Virtual), model.FormatBytes(n.Shared))),
		row("CPU time", model.FormatCPUTime(n.CPUTime)),
		row("Started", started),
		row("Elevated", yes(n.Elevated)),
		row("Eco", yes(n.Eco)),
		row("Kernel", yes(n.Kernel)),
		row("Modified", yes(n.BinaryModified)),
	}
	return &textPanel{heading: fmt.Sprintf("Process %d", n.PID), lines: lines}
}

func orQuestion(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

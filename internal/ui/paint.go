package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/Dicklesworthstone/proctop/internal/screen"
)

const (
	gib          = 1 << 30
	minTableRows = 4
)

// paint draws one full frame. It reads session state only; the commit
// against the previous frame happens in the screen package.
func (a *App) paint(area screen.Rect, buf *screen.Buffer) {
	if area.Empty() {
		return
	}
	buf.SetStyle(area, a.theme.Base)

	headerHeight := 0
	if a.meters && a.current != nil {
		headerHeight = a.headerHeight(area.Width)
		if area.Height-headerHeight-2 < minTableRows {
			headerHeight = 0
		}
	}
	parts := screen.Split(area, screen.Vertical,
		screen.Length(headerHeight),
		screen.Min(1),
		screen.Length(1),
		screen.Length(1),
	)
	if headerHeight > 0 {
		a.paintHeader(parts[0], buf)
	}
	a.paintTable(parts[1], buf)
	a.paintStatus(parts[2], buf)
	a.paintFooter(parts[3], buf)

	if a.dialog != nil {
		paintDialog(a.dialog, area, buf, a.theme)
	}
}

// meterLayout decides how many columns of per-core gauges to draw.
func meterLayout(cores, width int) (cols, rows int) {
	cols = 2
	switch {
	case cores > 64 && width >= 160:
		cols = 8
	case cores > 16 && width >= 100:
		cols = 4
	}
	cols = min(cols, max(cores, 1))
	rows = (cores + cols - 1) / cols
	return cols, rows
}

func (a *App) headerHeight(width int) int {
	_, rows := meterLayout(len(a.current.PerCore), width)
	return rows + 5
}

func (a *App) gauge(label string, ratio float64, text string) screen.Gauge {
	return screen.Gauge{
		Label:      label,
		LabelStyle: a.theme.Label,
		Ratio:      ratio,
		Text:       text,
		TextStyle:  a.theme.GaugeText,
		Gradient:   a.theme.Gradient,
		Bracket:    a.theme.Bracket,
	}
}

func (a *App) paintHeader(area screen.Rect, buf *screen.Buffer) {
	m := a.current
	cols, rows := meterLayout(len(m.PerCore), area.Width)
	halves := screen.Split(area, screen.Horizontal, screen.Percentage(50), screen.Min(0))
	left, right := halves[0], halves[1]

	// per-core gauges, numbered down each column
	if rows > 0 {
		coreArea := screen.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: rows}
		constraints := make([]screen.Constraint, cols)
		for i := range constraints {
			constraints[i] = screen.Percentage(100 / cols)
		}
		constraints[cols-1] = screen.Min(0)
		colRects := screen.Split(coreArea, screen.Horizontal, constraints...)
		labelWidth := len(fmt.Sprint(len(m.PerCore) - 1))
		for i, pct := range m.PerCore {
			c, r := i/rows, i%rows
			if c >= cols {
				break
			}
			cell := colRects[c].Row(r)
			cell.Width = max(cell.Width-1, 0)
			a.gauge(fmt.Sprintf("%*d", labelWidth, i), pct/100, "").Render(cell, buf)
		}
	}

	y := rows
	row := func(r screen.Rect) screen.Rect {
		out := r.Row(y)
		out.Width = max(out.Width-1, 0)
		return out
	}

	a.gauge("Avg", m.CPU/100, "").Render(row(left), buf)
	a.paintSpark(row(right), "CPU ", model.SeriesCPU, buf)
	y++

	mem := m.Memory
	a.gauge("Mem", m.MemPercent/100,
		model.FormatBytes(mem.UsedBytes)+"/"+model.FormatBytes(mem.TotalBytes)).Render(row(left), buf)
	a.paintPairs(row(right), buf,
		"Tasks: ", fmt.Sprintf("%d", m.Tasks.Total),
		", ", fmt.Sprintf("%d thr", m.Tasks.Threads),
		", ", fmt.Sprintf("%d kthr", m.Tasks.Kernel),
		"; ", fmt.Sprintf("%d running", m.Tasks.Running))
	y++

	a.gauge("Swp", m.SwapPercent/100,
		model.FormatBytes(mem.SwapUsed)+"/"+model.FormatBytes(mem.SwapTotal)).Render(row(left), buf)
	a.paintPairs(row(right), buf,
		"Load average: ", fmt.Sprintf("%.2f %.2f %.2f", m.Load[0], m.Load[1], m.Load[2]))
	y++

	a.paintSpark(row(left), "Mem ", model.SeriesMem, buf)
	a.paintPairs(row(right), buf,
		"Uptime: ", model.FormatDuration(m.Uptime),
		"  Host: ", m.Hostname)
	y++

	io := m.IO
	a.paintPairs(row(left), buf,
		"Disk: ", fmt.Sprintf("%s read, %s write", model.FormatRate(io.DiskRead), model.FormatRate(io.DiskWrite)))
	a.paintPairs(row(right), buf,
		"Network: ", fmt.Sprintf("%s rx, %s tx", model.FormatRate(io.NetRx), model.FormatRate(io.NetTx)))
}

// paintPairs writes alternating label and value strings.
func (a *App) paintPairs(area screen.Rect, buf *screen.Buffer, pairs ...string) {
	x := area.X
	for i, s := range pairs {
		st := a.theme.Label
		if i%2 == 1 {
			st = a.theme.Value
		}
		x = buf.SetStringN(x, area.Y, s, area.Right()-x, st)
	}
}

func (a *App) paintSpark(area screen.Rect, label, series string, buf *screen.Buffer) {
	x := buf.SetStringN(area.X, area.Y, label, area.Width, a.theme.Label)
	rest := screen.Rect{X: x, Y: area.Y, Width: area.Right() - x, Height: 1}
	screen.Sparkline{
		Data:     a.history.Last(series, rest.Width),
		Max:      100,
		Style:    a.theme.Spark,
		Gradient: a.theme.Gradient,
	}.Render(rest, buf)
}

func (a *App) tableWidths() []screen.Constraint {
	widths := make([]screen.Constraint, len(a.columns))
	flex := -1
	for i, c := range a.columns {
		if c.Width() == 0 {
			widths[i] = screen.Min(10)
			flex = i
		} else {
			widths[i] = screen.Length(c.Width())
		}
	}
	if flex < 0 && len(widths) > 0 {
		last := len(widths) - 1
		widths[last] = screen.Min(a.columns[last].Width())
	}
	return widths
}

func (a *App) paintTable(area screen.Rect, buf *screen.Buffer) {
	if area.Empty() {
		return
	}
	rows := a.rows()
	bodyHeight := max(area.Height-1, 0)
	a.tableRows = bodyHeight
	a.offset = screen.ScrollOffset(a.selected, a.offset, bodyHeight, len(rows))

	tableArea := area
	if len(rows) > bodyHeight {
		tableArea.Width = max(area.Width-1, 0)
	}

	header := screen.Row{Style: a.theme.TableHeader, Cells: make([]screen.Line, len(a.columns))}
	right := make([]bool, len(a.columns))
	for i, c := range a.columns {
		h := c.Header()
		st := screen.Style{}
		if c == a.opts.SortKey {
			st = a.theme.SortHeader
			if c.Width() == 0 {
				h += arrow(a.opts.Descending)
			}
		}
		header.Cells[i] = screen.Styled(h, st)
		right[i] = c.RightAligned()
	}
	// the header background spans the scrollbar column too
	buf.SetStyle(area.Row(0), a.theme.TableHeader)

	end := min(a.offset+bodyHeight, len(rows))
	body := make([]screen.Row, 0, end-a.offset)
	fc := model.FormatContext{Now: a.now(), ShowPath: a.showPath}
	for i := a.offset; i < end; i++ {
		body = append(body, a.tableRow(&rows[i], i == a.selected, fc))
	}

	screen.Table{
		Header:        header,
		Rows:          body,
		Widths:        a.tableWidths(),
		RightAlign:    right,
		ColumnSpacing: 1,
	}.Render(tableArea, buf)

	if len(rows) > bodyHeight && bodyHeight > 0 {
		screen.Scrollbar{
			ContentLength:  len(rows),
			ViewportLength: bodyHeight,
			Position:       a.offset,
			ThumbStyle:     a.theme.ScrollThumb,
			TrackStyle:     a.theme.ScrollTrack,
		}.Render(screen.Rect{X: area.X, Y: area.Y + 1, Width: area.Width, Height: bodyHeight}, buf)
	}
}

func arrow(desc bool) string {
	if desc {
		return "▽"
	}
	return "△"
}

// rowStyle applies the precedence selected, search match, tagged, new
// process, tree context, normal. The second result is whether the style
// carries its own background, in which case cell colors are dropped.
func (a *App) rowStyle(n *model.ProcessNode, selected bool, now time.Time) (screen.Style, bool) {
	th := a.theme
	switch {
	case selected:
		return th.Selected, true
	case n.SearchMatch:
		return th.SearchMatch, true
	case n.Tagged:
		return th.Tagged, false
	case n.Highlighted(now):
		return th.NewProcess, true
	case !n.Matches:
		return th.Context, false
	}
	return screen.Style{}, false
}

func (a *App) tableRow(n *model.ProcessNode, selected bool, fc model.FormatContext) screen.Row {
	style, solid := a.rowStyle(n, selected, fc.Now)
	cells := make([]screen.Line, len(a.columns))
	for i, c := range a.columns {
		text := c.Format(n, fc)
		st := a.cellStyle(c, n)
		if solid {
			st = screen.Style{Attrs: st.Attrs}
		}
		if c == model.ColCommand && a.opts.View == model.ViewTree {
			prefix := n.TreePrefix
			if n.Collapsed {
				prefix += "+"
			}
			cells[i] = screen.Line{{Text: prefix, Style: a.treeStyle(solid)}, {Text: text, Style: st}}
			continue
		}
		cells[i] = screen.Styled(text, st)
	}
	return screen.Row{Cells: cells, Style: style}
}

func (a *App) treeStyle(solid bool) screen.Style {
	if solid {
		return screen.Style{}
	}
	return a.theme.Dim
}

// cellStyle emphasizes values worth noticing: busy processes, runnable or
// stuck states and large resident sets.
func (a *App) cellStyle(c model.Column, n *model.ProcessNode) screen.Style {
	switch c {
	case model.ColCPU:
		if n.CPU > 50 {
			return screen.NewStyle().Bold()
		}
	case model.ColStatus:
		switch n.Status {
		case 'R', 'D', 'Z':
			return screen.NewStyle().Bold()
		}
	case model.ColRes:
		if a.cfg.HighlightLargeNumbers && n.Resident >= gib {
			return a.theme.Large.Bold()
		}
	case model.ColCommand:
		if n.Kernel {
			return a.theme.Kernel
		}
	}
	return screen.Style{}
}

func (a *App) paintStatus(area screen.Rect, buf *screen.Buffer) {
	var parts []string
	if a.opts.Filter != "" {
		parts = append(parts, "Filter: "+a.opts.Filter)
	}
	if a.opts.Search != "" {
		parts = append(parts, "Search: "+a.opts.Search)
	}
	if a.opts.User != "" {
		parts = append(parts, "User: "+a.opts.User)
	}
	if len(a.opts.PIDs) > 0 {
		parts = append(parts, fmt.Sprintf("PIDs: %d", len(a.opts.PIDs)))
	}
	if n := len(a.opts.Tagged); n > 0 {
		parts = append(parts, fmt.Sprintf("Tagged: %d", n))
	}
	if a.follow {
		parts = append(parts, "Following")
	}
	if a.paused {
		parts = append(parts, "PAUSED")
	}
	x := area.X
	if len(parts) > 0 {
		x = buf.SetStringN(x, area.Y, "["+strings.Join(parts, "] [")+"] ", area.Width, a.theme.Label)
	}

	if a.status != "" && a.now().Before(a.statusUntil) {
		st := a.theme.Status
		if a.statusErr {
			st = a.theme.StatusError
		}
		msg := screen.Truncate(a.status, max(area.Right()-x, 0), "…")
		buf.SetString(max(area.Right()-screen.StringWidth(msg), x), area.Y, msg, st)
	}
}

func (a *App) paintFooter(area screen.Rect, buf *screen.Buffer) {
	buf.SetStyle(area, a.theme.FooterLabel)
	x := area.X
	for _, b := range a.keys.footerBindings() {
		h := b.Help()
		if x >= area.Right() {
			break
		}
		x = buf.SetStringN(x, area.Y, h.Key, area.Right()-x, a.theme.FooterKey)
		x = buf.SetStringN(x, area.Y, fmt.Sprintf("%-6s", h.Desc), area.Right()-x, a.theme.FooterLabel)
	}
}

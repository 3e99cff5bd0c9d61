package ui

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles for the non-interactive snapshot.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

// SnapshotOptions select what RenderSnapshot prints.
type SnapshotOptions struct {
	Columns  []model.Column
	Limit    int
	ShowPath bool
	Meters   bool
}

// RenderSnapshot prints m as summary cards followed by the top rows.
func RenderSnapshot(m *model.Model, opts SnapshotOptions) string {
	var sections []string
	header := titleStyle.Render("proctop") + "  " +
		subtleStyle.Render(m.Hostname+"  "+m.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006"))
	sections = append(sections, header)

	if opts.Meters {
		cpuCard := card("CPU",
			fmt.Sprintf("%s  load %.2f %.2f %.2f",
				gaugeBar(m.CPU, 28), m.Load[0], m.Load[1], m.Load[2]))
		memCard := card("Memory",
			fmt.Sprintf("%s  %s/%s | Swap %3.0f%%",
				gaugeBar(m.MemPercent, 28),
				model.FormatBytes(m.Memory.UsedBytes),
				model.FormatBytes(m.Memory.TotalBytes),
				m.SwapPercent))
		ioCard := card("IO / NET",
			fmt.Sprintf("Disk R/W: %s / %s\nNet RX/TX: %s / %s",
				model.FormatRate(m.IO.DiskRead), model.FormatRate(m.IO.DiskWrite),
				model.FormatRate(m.IO.NetRx), model.FormatRate(m.IO.NetTx)))
		tasksCard := card("Tasks",
			fmt.Sprintf("%d total, %d running\n%d threads, up %s",
				m.Tasks.Total, m.Tasks.Running, m.Tasks.Threads, model.FormatDuration(m.Uptime)))
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard, ioCard, tasksCard))
	}

	sections = append(sections, renderTable(m, opts))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func gaugeBar(pct float64, width int) string {
	pct = max(0, min(pct, 100))
	filled := min(int((pct/100)*float64(width)), width)
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func renderTable(m *model.Model, opts SnapshotOptions) string {
	limit := len(m.Rows)
	if opts.Limit > 0 {
		limit = min(opts.Limit, limit)
	}
	headers := make([]string, len(opts.Columns))
	for i, c := range opts.Columns {
		headers[i] = c.Header()
	}
	fc := model.FormatContext{Now: m.Timestamp, ShowPath: opts.ShowPath}
	rows := make([][]string, 0, limit)
	for i := 0; i < limit; i++ {
		n := &m.Rows[i]
		row := make([]string, len(opts.Columns))
		for j, c := range opts.Columns {
			text := c.Format(n, fc)
			if c == model.ColCommand {
				text = n.TreePrefix + truncate(text, 60)
			}
			row[j] = text
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("60"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			if col < len(opts.Columns) && opts.Columns[col].RightAligned() {
				return cellStyle.Copy().Align(lipgloss.Right)
			}
			return cellStyle
		})
	return t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

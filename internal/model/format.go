package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	kib = 1024
	mib = kib * 1024
	gib = mib * 1024
	tib = gib * 1024
)

// FormatBytes renders a size in the compact B/K/M/G/T form used by the
// memory columns.
func FormatBytes(b uint64) string {
	switch {
	case b >= tib:
		return fmt.Sprintf("%.1fT", float64(b)/tib)
	case b >= gib:
		return fmt.Sprintf("%.1fG", float64(b)/gib)
	case b >= mib:
		return fmt.Sprintf("%.0fM", float64(b)/mib)
	case b >= kib:
		return fmt.Sprintf("%.0fK", float64(b)/kib)
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// FormatCPUTime renders accumulated CPU time as TIME+.
func FormatCPUTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSecs := int64(d / time.Second)
	centis := int64(d%time.Second) / int64(10*time.Millisecond)
	totalMins := totalSecs / 60
	totalHours := totalMins / 60
	totalDays := totalHours / 24

	switch {
	case totalMins < 60:
		return fmt.Sprintf("%2d:%02d.%02d", totalMins, totalSecs%60, centis)
	case totalHours < 24:
		return fmt.Sprintf("%2dh%02d:%02d", totalHours, totalMins%60, totalSecs%60)
	case totalDays < 365:
		return fmt.Sprintf("%3dd%02dh", totalDays, totalHours%24)
	default:
		return fmt.Sprintf("%3dy%03dd", totalDays/365, totalDays%365)
	}
}

// FormatSince renders how long ago start was, relative to now.
func FormatSince(start, now time.Time) string {
	if start.IsZero() || start.After(now) {
		return "-"
	}
	secs := int64(now.Sub(start) / time.Second)
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh%dm", secs/3600, (secs%3600)/60)
	}
	days := secs / 86400
	if days > 99 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, (secs%86400)/3600)
}

// FormatDuration renders an uptime like "3 days, 04:12:09".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	clock := fmt.Sprintf("%02d:%02d:%02d", (secs%86400)/3600, (secs%3600)/60, secs%60)
	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}

// FormatRate renders bytes per second with the FormatBytes units.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec < 0 {
		bytesPerSec = 0
	}
	return FormatBytes(uint64(bytesPerSec)) + "/s"
}

// DisplayCommand is the text shown in the Command column. Without the
// program path the first argument is reduced to its base name.
func DisplayCommand(n *ProcessNode, showPath bool) string {
	cmd := n.Command
	if cmd == "" {
		if n.Kernel {
			return "[" + n.Name + "]"
		}
		return n.Name
	}
	if showPath {
		return cmd
	}
	first, rest, found := strings.Cut(cmd, " ")
	if strings.Contains(first, "/") {
		first = filepath.Base(first)
	}
	if !found {
		return first
	}
	return first + " " + rest
}

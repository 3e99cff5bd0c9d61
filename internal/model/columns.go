package model

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Column is one of the closed set of table columns. Each carries its own
// header, width, comparator and formatter.
type Column int

const (
	ColPID Column = iota
	ColPPID
	ColUser
	ColPriority
	ColNice
	ColClass
	ColThreads
	ColVirt
	ColRes
	ColShr
	ColStatus
	ColCPU
	ColMem
	ColTime
	ColStart
	ColElevated
	ColArch
	ColEco
	ColCommand
	numColumns
)

// FormatContext carries the inputs formatters need beyond the node.
type FormatContext struct {
	Now      time.Time
	ShowPath bool
}

type columnSpec struct {
	header string
	// width zero means the column takes the remaining space
	width       int
	rightAlign  bool
	defaultDesc bool
	compare     func(a, b *ProcessNode) int
	format      func(n *ProcessNode, fc FormatContext) string
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func yesNo(b bool, yes string) string {
	if b {
		return yes
	}
	return "-"
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

var columns = [numColumns]columnSpec{
	ColPID: {
		header: "PID", width: 7, rightAlign: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.PID, b.PID) },
		format:  func(n *ProcessNode, _ FormatContext) string { return fmt.Sprint(n.PID) },
	},
	ColPPID: {
		header: "PPID", width: 7, rightAlign: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.PPID, b.PPID) },
		format:  func(n *ProcessNode, _ FormatContext) string { return fmt.Sprint(n.PPID) },
	},
	ColUser: {
		header: "USER", width: 9,
		compare: func(a, b *ProcessNode) int {
			return strings.Compare(strings.ToLower(a.Owner), strings.ToLower(b.Owner))
		},
		format: func(n *ProcessNode, _ FormatContext) string { return orUnknown(n.Owner) },
	},
	ColPriority: {
		header: "PRI", width: 4, rightAlign: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Priority, b.Priority) },
		format: func(n *ProcessNode, _ FormatContext) string {
			if n.Class == ClassRealtime && n.Priority <= -100 {
				return "RT"
			}
			return fmt.Sprint(n.Priority)
		},
	},
	ColNice: {
		header: "NI", width: 3, rightAlign: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Nice, b.Nice) },
		format:  func(n *ProcessNode, _ FormatContext) string { return fmt.Sprint(n.Nice) },
	},
	ColClass: {
		header: "CLASS", width: 6,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Class, b.Class) },
		format:  func(n *ProcessNode, _ FormatContext) string { return n.Class.String() },
	},
	ColThreads: {
		header: "THR", width: 4, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Threads, b.Threads) },
		format:  func(n *ProcessNode, _ FormatContext) string { return fmt.Sprint(n.Threads) },
	},
	ColVirt: {
		header: "VIRT", width: 6, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Virtual, b.Virtual) },
		format:  func(n *ProcessNode, _ FormatContext) string { return FormatBytes(n.Virtual) },
	},
	ColRes: {
		header: "RES", width: 6, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Resident, b.Resident) },
		format:  func(n *ProcessNode, _ FormatContext) string { return FormatBytes(n.Resident) },
	},
	ColShr: {
		header: "SHR", width: 6, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Shared, b.Shared) },
		format:  func(n *ProcessNode, _ FormatContext) string { return FormatBytes(n.Shared) },
	},
	ColStatus: {
		header: "S", width: 1,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Status, b.Status) },
		format: func(n *ProcessNode, _ FormatContext) string {
			if n.Status == 0 {
				return "?"
			}
			return string(n.Status)
		},
	},
	ColCPU: {
		header: "CPU%", width: 5, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.CPU, b.CPU) },
		format:  func(n *ProcessNode, _ FormatContext) string { return formatPercent(n.CPU) },
	},
	ColMem: {
		header: "MEM%", width: 5, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.Mem, b.Mem) },
		format:  func(n *ProcessNode, _ FormatContext) string { return formatPercent(n.Mem) },
	},
	ColTime: {
		header: "TIME+", width: 9, rightAlign: true, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return cmp.Compare(a.CPUTime, b.CPUTime) },
		format:  func(n *ProcessNode, _ FormatContext) string { return FormatCPUTime(n.CPUTime) },
	},
	ColStart: {
		header: "START", width: 6, rightAlign: true,
		compare: func(a, b *ProcessNode) int { return a.StartTime.Compare(b.StartTime) },
		format:  func(n *ProcessNode, fc FormatContext) string { return FormatSince(n.StartTime, fc.Now) },
	},
	ColElevated: {
		header: "ELEV", width: 4, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return boolCmp(a.Elevated, b.Elevated) },
		format:  func(n *ProcessNode, _ FormatContext) string { return yesNo(n.Elevated, "root") },
	},
	ColArch: {
		header: "ARCH", width: 7,
		compare: func(a, b *ProcessNode) int { return strings.Compare(a.Arch, b.Arch) },
		format:  func(n *ProcessNode, _ FormatContext) string { return orUnknown(n.Arch) },
	},
	ColEco: {
		header: "ECO", width: 3, defaultDesc: true,
		compare: func(a, b *ProcessNode) int { return boolCmp(a.Eco, b.Eco) },
		format:  func(n *ProcessNode, _ FormatContext) string { return yesNo(n.Eco, "eco") },
	},
	ColCommand: {
		header: "Command",
		compare: func(a, b *ProcessNode) int {
			return strings.Compare(strings.ToLower(DisplayCommand(a, false)), strings.ToLower(DisplayCommand(b, false)))
		},
		format: func(n *ProcessNode, fc FormatContext) string { return DisplayCommand(n, fc.ShowPath) },
	},
}

func formatPercent(v float64) string {
	if v >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// AllColumns lists every column in declaration order.
func AllColumns() []Column {
	out := make([]Column, numColumns)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

// ParseColumn resolves a header or key name, case-insensitively.
func ParseColumn(name string) (Column, bool) {
	name = strings.TrimSpace(name)
	for i, c := range columns {
		if strings.EqualFold(c.header, name) || strings.EqualFold(Column(i).Key(), name) {
			return Column(i), true
		}
	}
	return 0, false
}

func (c Column) valid() bool { return c >= 0 && c < numColumns }

// Header is the text shown in the table header.
func (c Column) Header() string {
	if !c.valid() {
		return "?"
	}
	return columns[c].header
}

// Key is the header without punctuation, used in config files and flags.
func (c Column) Key() string {
	return strings.TrimRight(c.Header(), "%+")
}

func (c Column) String() string { return c.Header() }

// Width is the fixed column width, zero for the flexible Command column.
func (c Column) Width() int {
	if !c.valid() {
		return 0
	}
	return columns[c].width
}

func (c Column) RightAligned() bool { return c.valid() && columns[c].rightAlign }

// DefaultDescending reports whether the column naturally sorts largest first.
func (c Column) DefaultDescending() bool { return c.valid() && columns[c].defaultDesc }

// Compare orders a before b ascending. It does not break ties.
func (c Column) Compare(a, b *ProcessNode) int {
	if !c.valid() {
		return 0
	}
	return columns[c].compare(a, b)
}

// Format renders the node's value for this column.
func (c Column) Format(n *ProcessNode, fc FormatContext) string {
	if !c.valid() {
		return "?"
	}
	return columns[c].format(n, fc)
}

package model

import (
	"runtime"
	"time"
)

// ViewMode selects flat or tree presentation.
type ViewMode int

const (
	ViewFlat ViewMode = iota
	ViewTree
)

func (v ViewMode) String() string {
	if v == ViewTree {
		return "tree"
	}
	return "flat"
}

// Options are the user-controlled inputs to Build and Arrange.
type Options struct {
	SortKey    Column
	Descending bool
	View       ViewMode

	// Filter restricts emitted rows; Search only marks matches.
	Filter string
	Search string
	User   string
	PIDs   map[int32]bool

	ShowKernelThreads bool
	Collapsed         Marks
	Tagged            Marks

	// HighlightWindow is how long a newly seen process is flagged.
	HighlightWindow time.Duration
}

// IORates are machine-wide throughputs in bytes per second.
type IORates struct {
	DiskRead  float64
	DiskWrite float64
	NetRx     float64
	NetTx     float64
}

// Tasks summarizes the process table.
type Tasks struct {
	Total   int
	Threads int
	Running int
	Kernel  int
}

// Model is the enriched, arranged view of one sample. Rows is what gets
// rendered; the forest behind it is kept so Arrange can re-sort, re-filter
// or expand collapsed subtrees without a rebuild.
type Model struct {
	Timestamp time.Time
	Cores     int

	CPU     float64
	PerCore []float64

	Memory      Memory
	MemPercent  float64
	SwapPercent float64
	IO          IORates

	Load     [3]float64
	Uptime   time.Duration
	Hostname string
	Tasks    Tasks

	Rows []ProcessNode

	nodes    map[int32]*ProcessNode
	parent   map[int32]int32
	children map[int32][]int32
	roots    []int32

	raw RawSample
}

// Len returns the number of processes in the forest, including rows
// hidden by filters or collapsed subtrees.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.nodes)
}

// Node returns a copy of the forest node for pid.
func (m *Model) Node(pid int32) (ProcessNode, bool) {
	if m == nil {
		return ProcessNode{}, false
	}
	n, ok := m.nodes[pid]
	if !ok {
		return ProcessNode{}, false
	}
	return *n, true
}

// RowIndex returns the position of pid in Rows, or -1.
func (m *Model) RowIndex(pid int32) int {
	if m == nil {
		return -1
	}
	for i := range m.Rows {
		if m.Rows[i].PID == pid {
			return i
		}
	}
	return -1
}

// Descendants returns pid and every process below it in the forest.
func (m *Model) Descendants(pid int32) []int32 {
	if m == nil || m.nodes[pid] == nil {
		return nil
	}
	out := []int32{pid}
	for i := 0; i < len(out); i++ {
		out = append(out, m.children[out[i]]...)
	}
	return out
}

// Parents returns every pid in the forest that has children.
func (m *Model) Parents() []int32 {
	if m == nil {
		return nil
	}
	out := make([]int32, 0, len(m.children))
	for pid, kids := range m.children {
		if len(kids) > 0 {
			out = append(out, pid)
		}
	}
	return out
}

func coreCount(raw *RawSample) int {
	if n := len(raw.Cores); n > 0 {
		return n
	}
	return max(runtime.NumCPU(), 1)
}

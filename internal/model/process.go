package model

import "time"

// PriorityClass is a coarse scheduling class derived from policy and nice.
type PriorityClass int

const (
	ClassUnknown PriorityClass = iota
	ClassIdle
	ClassBelowNormal
	ClassNormal
	ClassAboveNormal
	ClassHigh
	ClassRealtime
)

var classNames = [...]string{"?", "IDLE", "BELOW", "NORMAL", "ABOVE", "HIGH", "RT"}

func (c PriorityClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "?"
	}
	return classNames[c]
}

// ClassFromNice maps a scheduling policy and nice value onto a class.
// Realtime policies win regardless of nice.
func ClassFromNice(realtime bool, nice int32) PriorityClass {
	switch {
	case realtime:
		return ClassRealtime
	case nice <= -10:
		return ClassHigh
	case nice <= -5:
		return ClassAboveNormal
	case nice <= 5:
		return ClassNormal
	case nice <= 10:
		return ClassBelowNormal
	default:
		return ClassIdle
	}
}

// ProcessNode is one row of the model. Nodes are rebuilt every tick and
// never mutated across ticks.
type ProcessNode struct {
	PID  int32
	PPID int32
	Name string

	Command string
	ExePath string
	Owner   string
	Arch    string

	CPU float64 // percent of one core, up to 100 x cores
	Mem float64 // percent of physical memory

	CPUTime  time.Duration
	Resident uint64
	Virtual  uint64
	Shared   uint64
	Threads  int32

	Priority int32
	Nice     int32
	Class    PriorityClass
	Status   byte

	Elevated       bool
	Eco            bool
	Kernel         bool
	BinaryModified bool

	Generation uint64
	StartTime  time.Time

	Tagged           bool
	HighlightedUntil time.Time

	// Matches is false for tree context rows kept only because a
	// descendant passes the filter.
	Matches     bool
	SearchMatch bool

	Depth       int
	HasChildren bool
	Collapsed   bool
	// TreePrefix holds the branch drawing for this row in tree view.
	TreePrefix string
}

// Highlighted reports whether the node is still flashing as new at now.
func (n *ProcessNode) Highlighted(now time.Time) bool {
	return now.Before(n.HighlightedUntil)
}

// Snapshot returns a detached copy of the node.
func (n *ProcessNode) Snapshot() ProcessNode {
	return *n
}

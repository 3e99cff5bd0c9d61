package model

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

const (
	branchMid  = "├─ "
	branchLast = "└─ "
	pipeIndent = "│  "
	gapIndent  = "   "
)

// Arrange recomputes Rows from the forest under opts. It is cheap relative
// to Build and is what the UI calls when only sort, filter or collapse state
// changes between ticks.
func (m *Model) Arrange(opts Options) {
	if m == nil {
		return
	}
	match := opts.matcher()
	if opts.View == ViewTree {
		m.Rows = m.arrangeTree(opts, match)
	} else {
		m.Rows = m.arrangeFlat(opts, match)
	}
}

// Less orders two nodes by the active column and direction, falling back
// to pid ascending so the order is total.
func (o Options) Less(a, b *ProcessNode) int {
	c := o.SortKey.Compare(a, b)
	if o.Descending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.PID, b.PID)
}

type matcher struct {
	opts   Options
	filter string
	search string
}

func (o Options) matcher() matcher {
	return matcher{
		opts:   o,
		filter: strings.ToLower(strings.TrimSpace(o.Filter)),
		search: strings.ToLower(strings.TrimSpace(o.Search)),
	}
}

// visible reports whether n passes every restricting predicate.
func (mt matcher) visible(n *ProcessNode) bool {
	if n.Kernel && !mt.opts.ShowKernelThreads {
		return false
	}
	if mt.opts.User != "" && n.Owner != mt.opts.User {
		return false
	}
	if len(mt.opts.PIDs) > 0 && !mt.opts.PIDs[n.PID] {
		return false
	}
	return mt.filter == "" || textMatch(n, mt.filter)
}

func (mt matcher) decorate(n *ProcessNode) {
	n.SearchMatch = mt.search != "" && textMatch(n, mt.search)
	n.Tagged = mt.opts.Tagged.Has(n)
}

// textMatch is a case-insensitive substring match over name, command line,
// owner and pid. needle must already be lower case.
func textMatch(n *ProcessNode, needle string) bool {
	return strings.Contains(strings.ToLower(n.Name), needle) ||
		strings.Contains(strings.ToLower(n.Command), needle) ||
		strings.Contains(strings.ToLower(n.Owner), needle) ||
		strings.Contains(strconv.Itoa(int(n.PID)), needle)
}

func (m *Model) arrangeFlat(opts Options, mt matcher) []ProcessNode {
	picked := make([]*ProcessNode, 0, len(m.nodes))
	for _, n := range m.nodes {
		if mt.visible(n) {
			picked = append(picked, n)
		}
	}
	slices.SortFunc(picked, opts.Less)

	rows := make([]ProcessNode, len(picked))
	for i, n := range picked {
		row := *n
		row.Matches = true
		row.HasChildren = len(m.children[n.PID]) > 0
		mt.decorate(&row)
		rows[i] = row
	}
	return rows
}

func (m *Model) arrangeTree(opts Options, mt matcher) []ProcessNode {
	// keep[pid] is true when the node or any descendant is visible.
	// Children always follow their parent in order, so walking it backwards
	// settles every child before its parent.
	order := make([]int32, 0, len(m.nodes))
	stack := slices.Clone(m.roots)
	for len(stack) > 0 {
		pid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, pid)
		stack = append(stack, m.children[pid]...)
	}
	matches := make(map[int32]bool, len(order))
	keep := make(map[int32]bool, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		pid := order[i]
		if mt.visible(m.nodes[pid]) {
			matches[pid] = true
			keep[pid] = true
		}
		if keep[pid] {
			if p, ok := m.parentOf(pid); ok {
				keep[p] = true
			}
		}
	}

	kept := func(pids []int32) []*ProcessNode {
		out := make([]*ProcessNode, 0, len(pids))
		for _, pid := range pids {
			if keep[pid] {
				out = append(out, m.nodes[pid])
			}
		}
		slices.SortFunc(out, opts.Less)
		return out
	}

	type frame struct {
		node   *ProcessNode
		depth  int
		indent string
		last   bool
	}
	rows := make([]ProcessNode, 0, len(keep))
	roots := kept(m.roots)
	work := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, frame{node: roots[i], last: i == len(roots)-1})
	}

	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		kids := kept(m.children[f.node.PID])
		row := *f.node
		row.Matches = matches[row.PID]
		row.Depth = f.depth
		row.HasChildren = len(kids) > 0
		row.Collapsed = row.HasChildren && opts.Collapsed.Has(&row)
		row.TreePrefix = ""
		childIndent := ""
		if f.depth > 0 {
			branch, cont := branchMid, pipeIndent
			if f.last {
				branch, cont = branchLast, gapIndent
			}
			row.TreePrefix = f.indent + branch
			childIndent = f.indent + cont
		}
		mt.decorate(&row)
		rows = append(rows, row)

		if row.Collapsed {
			continue
		}
		for i := len(kids) - 1; i >= 0; i-- {
			work = append(work, frame{
				node:   kids[i],
				depth:  f.depth + 1,
				indent: childIndent,
				last:   i == len(kids)-1,
			})
		}
	}
	return rows
}

// parentOf returns the forest parent of pid, which differs from PPID for
// nodes that were re-rooted.
func (m *Model) parentOf(pid int32) (int32, bool) {
	p, ok := m.parent[pid]
	return p, ok
}

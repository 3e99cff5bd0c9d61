package model

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pids(rows []ProcessNode) []int32 {
	out := make([]int32, len(rows))
	for i, r := range rows {
		out[i] = r.PID
	}
	return out
}

func withRes(r ProcRecord, res uint64) ProcRecord {
	r.Resident = res
	return r
}

// family:
//
//	1 init
//	├─ 10 sshd
//	│  └─ 30 bash
//	│     └─ 40 vim
//	└─ 20 cron
func family() *RawSample {
	return sampleAt(t0, 2,
		withRes(rec(1, 0, "init", 0), 10),
		withRes(rec(10, 1, "sshd", 0), 30),
		withRes(rec(20, 1, "cron", 0), 50),
		withRes(rec(30, 10, "bash", 0), 20),
		withRes(rec(40, 30, "vim", 0), 40),
	)
}

func TestFlatSort(t *testing.T) {
	m := Build(family(), nil, Options{SortKey: ColRes, Descending: true})
	assert.Equal(t, []int32{20, 40, 10, 30, 1}, pids(m.Rows))

	m.Arrange(Options{SortKey: ColRes})
	assert.Equal(t, []int32{1, 30, 10, 40, 20}, pids(m.Rows))

	m.Arrange(Options{SortKey: ColCommand})
	assert.Equal(t, []int32{30, 20, 1, 10, 40}, pids(m.Rows))
}

func TestSortTieBreaksOnPID(t *testing.T) {
	raw := sampleAt(t0, 1, rec(5, 0, "a", 0), rec(3, 0, "b", 0), rec(9, 0, "c", 0), rec(1, 0, "d", 0))
	for _, desc := range []bool{false, true} {
		m := Build(raw, nil, Options{SortKey: ColCPU, Descending: desc})
		assert.Equal(t, []int32{1, 3, 5, 9}, pids(m.Rows), "equal keys fall back to pid ascending")
	}
}

func TestSortIsDeterministic(t *testing.T) {
	raw := randomSample(rand.New(rand.NewSource(7)), 300)
	for _, col := range AllColumns() {
		for _, view := range []ViewMode{ViewFlat, ViewTree} {
			opts := Options{SortKey: col, View: view, ShowKernelThreads: true}
			a := Build(raw, nil, opts)
			b := Build(raw, nil, opts)
			require.Equal(t, pids(a.Rows), pids(b.Rows), "column %s view %s", col, view)
		}
	}
}

func TestTreeView(t *testing.T) {
	m := Build(family(), nil, Options{SortKey: ColRes, Descending: true, View: ViewTree})

	assert.Equal(t, []int32{1, 20, 10, 30, 40}, pids(m.Rows))
	prefixes := make([]string, len(m.Rows))
	depths := make([]int, len(m.Rows))
	for i, r := range m.Rows {
		prefixes[i] = r.TreePrefix
		depths[i] = r.Depth
	}
	assert.Equal(t, []string{"", "├─ ", "└─ ", "   └─ ", "      └─ "}, prefixes)
	assert.Equal(t, []int{0, 1, 1, 2, 3}, depths)
	assert.True(t, m.Rows[0].HasChildren)
	assert.False(t, m.Rows[1].HasChildren)
}

func TestSelfParentIsRerooted(t *testing.T) {
	raw := sampleAt(t0, 1, rec(10, 0, "a", 0), rec(20, 20, "b", 0))
	m := Build(raw, nil, Options{SortKey: ColPID, View: ViewTree})

	require.Equal(t, []int32{10, 20}, pids(m.Rows))
	for _, r := range m.Rows {
		assert.Zero(t, r.Depth, "pid %d is a root", r.PID)
	}
}

func TestCycleIsCut(t *testing.T) {
	raw := sampleAt(t0, 1,
		rec(1, 0, "init", 0),
		rec(5, 7, "x", 0),
		rec(6, 5, "y", 0),
		rec(7, 6, "z", 0),
	)
	m := Build(raw, nil, Options{SortKey: ColPID, View: ViewTree})

	assert.ElementsMatch(t, []int32{1, 5, 6, 7}, pids(m.Rows))
	assertWellFormed(t, m)
}

func TestMissingParentBecomesRoot(t *testing.T) {
	raw := sampleAt(t0, 1, rec(1, 0, "init", 0), rec(300, 299, "orphan", 0))
	m := Build(raw, nil, Options{SortKey: ColPID, View: ViewTree})
	assert.Equal(t, []int32{1, 300}, pids(m.Rows))
	assert.Zero(t, m.Rows[1].Depth)
}

func TestTreeFilterKeepsAncestorsAsContext(t *testing.T) {
	m := Build(family(), nil, Options{SortKey: ColPID, View: ViewTree, Filter: "VIM"})

	require.Equal(t, []int32{1, 10, 30, 40}, pids(m.Rows))
	matches := map[int32]bool{}
	for _, r := range m.Rows {
		matches[r.PID] = r.Matches
	}
	assert.Equal(t, map[int32]bool{1: false, 10: false, 30: false, 40: true}, matches)

	m.Arrange(Options{SortKey: ColPID, Filter: "vim"})
	assert.Equal(t, []int32{40}, pids(m.Rows), "flat view drops context rows")
}

func TestFilterMatchesPIDAndOwner(t *testing.T) {
	raw := family()
	r := raw.Procs[20]
	r.Owner = "Postgres"
	raw.Procs[20] = r

	m := Build(raw, nil, Options{SortKey: ColPID, Filter: "postgres"})
	assert.Equal(t, []int32{20}, pids(m.Rows))

	m.Arrange(Options{SortKey: ColPID, Filter: "30"})
	assert.Equal(t, []int32{30}, pids(m.Rows))
}

func TestUserAndPIDFilters(t *testing.T) {
	raw := family()
	r := raw.Procs[10]
	r.Owner = "root"
	raw.Procs[10] = r

	m := Build(raw, nil, Options{SortKey: ColPID, User: "root"})
	assert.Equal(t, []int32{10}, pids(m.Rows))

	m.Arrange(Options{SortKey: ColPID, PIDs: map[int32]bool{1: true, 40: true}})
	assert.Equal(t, []int32{1, 40}, pids(m.Rows))
}

func TestKernelThreadsHidden(t *testing.T) {
	k := rec(2, 0, "kthreadd", 0)
	k.Kernel = true
	raw := sampleAt(t0, 1, rec(1, 0, "init", 0), k)

	m := Build(raw, nil, Options{SortKey: ColPID})
	assert.Equal(t, []int32{1}, pids(m.Rows))

	m.Arrange(Options{SortKey: ColPID, ShowKernelThreads: true})
	assert.Equal(t, []int32{1, 2}, pids(m.Rows))
}

func TestSearchMarksWithoutFiltering(t *testing.T) {
	m := Build(family(), nil, Options{SortKey: ColPID, Search: "sh"})
	require.Len(t, m.Rows, 5)
	for _, r := range m.Rows {
		assert.Equal(t, r.PID == 10 || r.PID == 30, r.SearchMatch, "pid %d", r.PID)
	}
}

func TestCollapsePrunesRowsOnly(t *testing.T) {
	opts := Options{SortKey: ColPID, View: ViewTree, Collapsed: Marks{10: 10000}}
	m := Build(family(), nil, opts)

	assert.Equal(t, []int32{1, 10, 20}, pids(m.Rows))
	assert.True(t, m.Rows[1].Collapsed)
	assert.Equal(t, 5, m.Len(), "collapsed nodes stay in the forest")

	opts.Collapsed = nil
	m.Arrange(opts)
	assert.Equal(t, []int32{1, 10, 30, 40, 20}, pids(m.Rows))
	assert.False(t, m.Rows[1].Collapsed)
}

func TestTaggedRows(t *testing.T) {
	m := Build(family(), nil, Options{SortKey: ColPID, Tagged: Marks{20: 20000}})
	for _, r := range m.Rows {
		assert.Equal(t, r.PID == 20, r.Tagged)
	}
}

func TestMarksFollowGeneration(t *testing.T) {
	tagged := Marks{20: 20000, 30: 30000}
	collapsed := Marks{10: 10000}
	opts := Options{SortKey: ColPID, View: ViewTree, Tagged: tagged, Collapsed: collapsed}
	prev := Build(family(), nil, opts)

	// pid 20 exits and comes back as a different process; pid 10 likewise.
	reused := rec(20, 1, "victim", 0)
	reused.Generation = 4242
	sshd := rec(10, 1, "sshd", 0)
	sshd.Generation = 77
	raw := sampleAt(t0.Add(time.Second), 2, rec(1, 0, "init", 0), sshd, reused, rec(30, 10, "bash", 0))
	m := Build(raw, prev, opts)

	for _, r := range m.Rows {
		assert.Equal(t, r.PID == 30, r.Tagged, "pid %d", r.PID)
		assert.False(t, r.Collapsed, "pid %d", r.PID)
	}

	tagged.Prune(m)
	collapsed.Prune(m)
	assert.Equal(t, Marks{30: 30000}, tagged)
	assert.Empty(t, collapsed)
}

func TestMarksToggle(t *testing.T) {
	n := &ProcessNode{PID: 7, Generation: 3}
	s := Marks{}
	s.Toggle(n)
	assert.True(t, s.Has(n))
	assert.False(t, s.Has(&ProcessNode{PID: 7, Generation: 4}))
	s.Toggle(n)
	assert.Empty(t, s)
}

func TestDescendants(t *testing.T) {
	m := Build(family(), nil, Options{SortKey: ColPID})
	assert.ElementsMatch(t, []int32{10, 30, 40}, m.Descendants(10))
	assert.Nil(t, m.Descendants(999))
	assert.ElementsMatch(t, []int32{1, 10, 30}, m.Parents())
}

func randomSample(r *rand.Rand, n int) *RawSample {
	raw := sampleAt(t0, 4)
	for i := 0; i < n; i++ {
		pid := int32(i + 1)
		// parents are arbitrary, including forward references, self
		// references, missing pids and cycles
		ppid := int32(r.Intn(n + 20))
		p := rec(pid, ppid, fmt.Sprintf("p%d", r.Intn(30)), time.Duration(r.Intn(5))*time.Second)
		p.Resident = uint64(r.Intn(4)) * 1024
		p.Threads = int32(r.Intn(3))
		p.Status = "RSDZ"[r.Intn(4)]
		p.Kernel = r.Intn(10) == 0
		raw.Procs[pid] = p
	}
	return raw
}

func assertWellFormed(t *testing.T, m *Model) {
	t.Helper()
	pos := make(map[int32]int, len(m.Rows))
	for i, row := range m.Rows {
		_, dup := pos[row.PID]
		require.False(t, dup, "pid %d emitted twice", row.PID)
		pos[row.PID] = i
	}
	for i, row := range m.Rows {
		p, ok := m.parentOf(row.PID)
		if !ok {
			assert.Zero(t, row.Depth)
			continue
		}
		pi, ok := pos[p]
		require.True(t, ok, "parent %d of %d must be emitted", p, row.PID)
		assert.Less(t, pi, i, "parent %d precedes child %d", p, row.PID)
		assert.Equal(t, m.Rows[pi].Depth+1, row.Depth)
		// everything between the parent and the child is inside the
		// parent's subtree
		for j := pi + 1; j < i; j++ {
			assert.Greater(t, m.Rows[j].Depth, m.Rows[pi].Depth)
		}
	}
}

func TestTreeWellFormedOnRandomForests(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		raw := randomSample(rand.New(rand.NewSource(seed)), 200)
		for _, col := range []Column{ColPID, ColCPU, ColRes, ColCommand, ColStatus} {
			for _, desc := range []bool{false, true} {
				m := Build(raw, nil, Options{SortKey: col, Descending: desc, View: ViewTree, ShowKernelThreads: true})
				require.Len(t, m.Rows, 200, "seed %d: every process is emitted once", seed)
				assertWellFormed(t, m)
			}
		}
	}
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(pid, ppid int32, name string, cpu time.Duration) ProcRecord {
	return ProcRecord{
		PID:        pid,
		PPID:       ppid,
		Name:       name,
		Command:    "/usr/bin/" + name,
		CPUTime:    cpu,
		Generation: uint64(pid) * 1000,
		Status:     'S',
		Owner:      "alice",
	}
}

func sampleAt(ts time.Time, cores int, recs ...ProcRecord) *RawSample {
	raw := &RawSample{
		Timestamp: ts,
		Cores:     make([]CPUTimes, cores),
		Memory:    Memory{TotalBytes: 1000, UsedBytes: 250},
		Procs:     make(map[int32]ProcRecord, len(recs)),
	}
	for _, r := range recs {
		raw.Procs[r.PID] = r
	}
	return raw
}

func TestCPUPercentScenario(t *testing.T) {
	opts := Options{SortKey: ColPID}
	first := Build(sampleAt(t0, 4, rec(100, 1, "worker", 1000*time.Millisecond)), nil, opts)
	second := Build(sampleAt(t0.Add(1500*time.Millisecond), 4, rec(100, 1, "worker", 1300*time.Millisecond)), first, opts)

	n, ok := second.Node(100)
	require.True(t, ok)
	assert.InDelta(t, 20.0, n.CPU, 1e-9)
}

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name          string
		before, after time.Duration
		wall          time.Duration
		cores         int
		want          float64
	}{
		{"half a core", 0, 500 * time.Millisecond, time.Second, 1, 50},
		{"two cores busy", 0, 2 * time.Second, time.Second, 4, 200},
		{"clamped to core count", 0, 9 * time.Second, time.Second, 2, 200},
		{"counter went backwards", time.Second, 0, time.Second, 2, 0},
		{"no wall time", 0, time.Second, 0, 2, 0},
		{"idle", time.Second, time.Second, time.Second, 2, 0},
		{"zero cores treated as one", 0, 3 * time.Second, time.Second, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CPUPercent(tt.before, tt.after, tt.wall, tt.cores), 1e-9)
		})
	}
}

func TestFirstSeenProcessHasZeroCPU(t *testing.T) {
	opts := Options{SortKey: ColPID}
	first := Build(sampleAt(t0, 2, rec(1, 0, "init", time.Second)), nil, opts)

	n, _ := first.Node(1)
	assert.Zero(t, n.CPU, "no previous model")

	second := Build(sampleAt(t0.Add(time.Second), 2,
		rec(1, 0, "init", time.Second),
		rec(50, 1, "late", 10*time.Hour),
	), first, opts)
	n, _ = second.Node(50)
	assert.Zero(t, n.CPU, "absent from previous sample")
}

func TestReusedPIDIsTreatedAsNew(t *testing.T) {
	opts := Options{SortKey: ColPID, HighlightWindow: 3 * time.Second}
	first := Build(sampleAt(t0, 1, rec(7, 0, "old", time.Second)), nil, opts)

	reused := rec(7, 0, "new", 5*time.Second)
	reused.Generation = 99
	second := Build(sampleAt(t0.Add(time.Second), 1, reused), first, opts)

	n, _ := second.Node(7)
	assert.Zero(t, n.CPU)
	assert.True(t, n.Highlighted(t0.Add(2*time.Second)))
}

func TestHighlightWindow(t *testing.T) {
	opts := Options{SortKey: ColPID, HighlightWindow: 3 * time.Second}
	m0 := Build(sampleAt(t0, 1, rec(1, 0, "init", 0)), nil, opts)
	n, _ := m0.Node(1)
	assert.False(t, n.Highlighted(t0), "processes present at startup are not new")

	m1 := Build(sampleAt(t0.Add(time.Second), 1, rec(1, 0, "init", 0), rec(2, 1, "fresh", 0)), m0, opts)
	n, _ = m1.Node(2)
	assert.Equal(t, t0.Add(4*time.Second), n.HighlightedUntil)

	m2 := Build(sampleAt(t0.Add(2*time.Second), 1, rec(1, 0, "init", 0), rec(2, 1, "fresh", 0)), m1, opts)
	n, _ = m2.Node(2)
	assert.Equal(t, t0.Add(4*time.Second), n.HighlightedUntil, "carried over, not restarted")
	assert.False(t, n.Highlighted(t0.Add(5*time.Second)))
}

func TestExitedProcessLeavesNoTrace(t *testing.T) {
	opts := Options{SortKey: ColPID}
	m0 := Build(sampleAt(t0, 1, rec(1, 0, "init", 0), rec(2, 1, "gone", 0)), nil, opts)
	m1 := Build(sampleAt(t0.Add(time.Second), 1, rec(1, 0, "init", 0)), m0, opts)

	_, ok := m1.Node(2)
	assert.False(t, ok)
	assert.Equal(t, 1, m1.Len())
	assert.Equal(t, -1, m1.RowIndex(2))
}

func TestSystemRates(t *testing.T) {
	raw0 := sampleAt(t0, 2)
	raw0.Total = CPUTimes{Busy: 10 * time.Second, Idle: 30 * time.Second}
	raw0.Cores = []CPUTimes{{Busy: 5 * time.Second, Idle: 15 * time.Second}, {Busy: 5 * time.Second, Idle: 15 * time.Second}}
	raw0.IO = IOCounters{DiskRead: 1000, NetRx: 4000}

	raw1 := sampleAt(t0.Add(2*time.Second), 2)
	raw1.Total = CPUTimes{Busy: 11 * time.Second, Idle: 33 * time.Second}
	raw1.Cores = []CPUTimes{{Busy: 6 * time.Second, Idle: 15 * time.Second}, {Busy: 5 * time.Second, Idle: 18 * time.Second}}
	raw1.IO = IOCounters{DiskRead: 3000, NetRx: 3000}
	raw1.Memory = Memory{TotalBytes: 200, UsedBytes: 50, SwapTotal: 100, SwapUsed: 10}

	m0 := Build(raw0, nil, Options{})
	assert.Zero(t, m0.CPU)
	require.Len(t, m0.PerCore, 2)

	m1 := Build(raw1, m0, Options{})
	assert.InDelta(t, 25.0, m1.CPU, 1e-9)
	assert.InDelta(t, 100.0, m1.PerCore[0], 1e-9)
	assert.InDelta(t, 0.0, m1.PerCore[1], 1e-9)
	assert.InDelta(t, 1000.0, m1.IO.DiskRead, 1e-9)
	assert.Zero(t, m1.IO.NetRx, "counter reset reads as zero")
	assert.InDelta(t, 25.0, m1.MemPercent, 1e-9)
	assert.InDelta(t, 10.0, m1.SwapPercent, 1e-9)
	assert.Equal(t, 2, m1.Cores)
}

func TestTaskCounts(t *testing.T) {
	running := rec(2, 1, "busy", 0)
	running.Status = 'R'
	running.Threads = 4
	kthread := rec(3, 0, "kworker/0:1", 0)
	kthread.Kernel = true
	kthread.Threads = 1

	m := Build(sampleAt(t0, 1, rec(1, 0, "init", 0), running, kthread), nil, Options{})
	assert.Equal(t, Tasks{Total: 3, Threads: 5, Running: 1, Kernel: 1}, m.Tasks)
}

func TestMissingFieldsUseSentinels(t *testing.T) {
	m := Build(sampleAt(t0, 1, ProcRecord{PID: 9, PPID: 0}), nil, Options{SortKey: ColPID})
	require.Len(t, m.Rows, 1)
	row := m.Rows[0]
	assert.Equal(t, "?", row.Name)
	fc := FormatContext{Now: t0}
	assert.Equal(t, "?", ColUser.Format(&row, fc))
	assert.Equal(t, "?", ColStatus.Format(&row, fc))
	assert.Equal(t, "?", ColArch.Format(&row, fc))
	assert.Equal(t, "-", ColStart.Format(&row, fc))
}

func TestMemPercentWithoutTotal(t *testing.T) {
	raw := sampleAt(t0, 1, rec(1, 0, "init", 0))
	raw.Memory = Memory{}
	m := Build(raw, nil, Options{})
	n, _ := m.Node(1)
	assert.Zero(t, n.Mem)
}

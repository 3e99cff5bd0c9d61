package model

import (
	"slices"
	"time"
)

// Build turns a raw sample into a model. prev is the model of the
// immediately preceding tick, or nil on the first one; it supplies the
// counters that CPU%, per-core usage and I/O rates are diffed against.
// Build never fails: missing values stay at their zero sentinels.
func Build(raw *RawSample, prev *Model, opts Options) *Model {
	m := &Model{
		Timestamp: raw.Timestamp,
		Cores:     coreCount(raw),
		Memory:    raw.Memory,
		Load:      raw.Load,
		Uptime:    raw.Uptime,
		Hostname:  raw.Hostname,
		nodes:     make(map[int32]*ProcessNode, len(raw.Procs)),
		children:  make(map[int32][]int32),
		raw:       *raw,
	}
	m.raw.Procs = nil

	var wall time.Duration
	if prev != nil {
		wall = raw.Timestamp.Sub(prev.Timestamp)
		m.CPU = cpuUsage(prev.raw.Total, raw.Total)
		m.PerCore = make([]float64, len(raw.Cores))
		for i, c := range raw.Cores {
			if i < len(prev.raw.Cores) {
				m.PerCore[i] = cpuUsage(prev.raw.Cores[i], c)
			}
		}
		m.IO = ioRates(prev.raw.IO, raw.IO, wall)
	} else {
		m.PerCore = make([]float64, len(raw.Cores))
	}
	if raw.Memory.TotalBytes > 0 {
		m.MemPercent = percentOf(raw.Memory.UsedBytes, raw.Memory.TotalBytes)
	}
	if raw.Memory.SwapTotal > 0 {
		m.SwapPercent = percentOf(raw.Memory.SwapUsed, raw.Memory.SwapTotal)
	}

	for pid, rec := range raw.Procs {
		n := newNode(pid, rec, raw.Memory.TotalBytes)
		if prev != nil {
			old, seen := prev.nodes[pid]
			if seen && old.Generation == rec.Generation {
				n.CPU = CPUPercent(old.CPUTime, rec.CPUTime, wall, m.Cores)
				n.HighlightedUntil = old.HighlightedUntil
			} else if opts.HighlightWindow > 0 {
				n.HighlightedUntil = raw.Timestamp.Add(opts.HighlightWindow)
			}
		}
		m.nodes[pid] = n

		m.Tasks.Total++
		m.Tasks.Threads += int(max(rec.Threads, 0))
		if rec.Status == 'R' {
			m.Tasks.Running++
		}
		if rec.Kernel {
			m.Tasks.Kernel++
		}
	}

	m.link()
	m.Arrange(opts)
	return m
}

func newNode(pid int32, rec ProcRecord, totalMem uint64) *ProcessNode {
	n := &ProcessNode{
		PID:            pid,
		PPID:           rec.PPID,
		Name:           rec.Name,
		Command:        rec.Command,
		ExePath:        rec.ExePath,
		Owner:          rec.Owner,
		Arch:           rec.Arch,
		CPUTime:        rec.CPUTime,
		Resident:       rec.Resident,
		Virtual:        rec.Virtual,
		Shared:         rec.Shared,
		Threads:        rec.Threads,
		Priority:       rec.Priority,
		Nice:           rec.Nice,
		Class:          rec.Class,
		Status:         rec.Status,
		Elevated:       rec.Elevated,
		Eco:            rec.Eco,
		Kernel:         rec.Kernel,
		BinaryModified: rec.BinaryModified,
		Generation:     rec.Generation,
		StartTime:      rec.StartTime,
		Matches:        true,
	}
	if n.Name == "" {
		n.Name = "?"
	}
	if totalMem > 0 {
		n.Mem = percentOf(rec.Resident, totalMem)
	}
	return n
}

// CPUPercent is the share of one core a process used between two readings
// of its cumulative CPU time, clamped to [0, 100 x cores]. It is not divided
// by the core count, so a process saturating two cores reads 200.
func CPUPercent(before, after, wall time.Duration, cores int) float64 {
	if wall <= 0 || after <= before {
		return 0
	}
	pct := float64(after-before) / float64(wall) * 100
	return min(pct, float64(max(cores, 1)*100))
}

func cpuUsage(before, after CPUTimes) float64 {
	busy := after.Busy - before.Busy
	idle := after.Idle - before.Idle
	if busy < 0 || idle < 0 || busy+idle <= 0 {
		return 0
	}
	return float64(busy) / float64(busy+idle) * 100
}

func ioRates(before, after IOCounters, wall time.Duration) IORates {
	if wall <= 0 {
		return IORates{}
	}
	secs := wall.Seconds()
	rate := func(a, b uint64) float64 {
		if b < a {
			return 0
		}
		return float64(b-a) / secs
	}
	return IORates{
		DiskRead:  rate(before.DiskRead, after.DiskRead),
		DiskWrite: rate(before.DiskWrite, after.DiskWrite),
		NetRx:     rate(before.NetRx, after.NetRx),
		NetTx:     rate(before.NetTx, after.NetTx),
	}
}

func percentOf(part, total uint64) float64 {
	return min(float64(part)/float64(total)*100, 100)
}

// link resolves parents into a forest. A missing or self parent makes a
// root. Walking up from each node with an on-path marker finds cycles; the
// node whose parent link closes a cycle is cut loose and becomes a root.
func (m *Model) link() {
	pids := make([]int32, 0, len(m.nodes))
	for pid := range m.nodes {
		pids = append(pids, pid)
	}
	slices.Sort(pids)

	parent := make(map[int32]int32, len(pids))
	for _, pid := range pids {
		ppid := m.nodes[pid].PPID
		if ppid != pid && m.nodes[ppid] != nil {
			parent[pid] = ppid
		}
	}

	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[int32]uint8, len(pids))
	var path []int32
	for _, pid := range pids {
		path = path[:0]
		cur := pid
		for state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			p, ok := parent[cur]
			if !ok {
				break
			}
			if state[p] == onPath {
				delete(parent, cur)
				break
			}
			cur = p
		}
		for _, p := range path {
			state[p] = done
		}
	}

	m.parent = parent
	for _, pid := range pids {
		if p, ok := parent[pid]; ok {
			m.children[p] = append(m.children[p], pid)
		} else {
			m.roots = append(m.roots, pid)
		}
	}
}

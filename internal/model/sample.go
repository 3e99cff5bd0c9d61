package model

import "time"

// CPUTimes holds cumulative busy and idle time for one core or the machine.
type CPUTimes struct {
	Busy time.Duration
	Idle time.Duration
}

// Memory captures RAM and swap usage in bytes for precision.
type Memory struct {
	TotalBytes     uint64
	AvailableBytes uint64
	UsedBytes      uint64
	Cached         uint64
	Buffers        uint64
	SwapTotal      uint64
	SwapUsed       uint64
}

// IOCounters are cumulative machine-wide disk and network byte counters.
type IOCounters struct {
	DiskRead  uint64
	DiskWrite uint64
	NetRx     uint64
	NetTx     uint64
}

// ProcRecord is one process as read from the OS. Owner, Command, Arch and
// BinaryModified are filled in by the enrichment cache.
type ProcRecord struct {
	PID  int32
	PPID int32
	Name string

	Command string
	ExePath string

	// CPUTime is accumulated user plus system time.
	CPUTime time.Duration

	Resident uint64
	Virtual  uint64
	Shared   uint64
	Threads  int32

	Priority int32
	Nice     int32
	Class    PriorityClass
	Status   byte

	UID      uint32
	HasUID   bool
	Owner    string
	Arch     string
	Elevated bool
	Eco      bool
	Kernel   bool

	BinaryModified bool

	// Generation distinguishes a reused pid from its previous occupant.
	Generation uint64
	StartTime  time.Time
}

// RawSample is one tick's worth of OS readings. Counters are cumulative;
// rates are derived by Build.
type RawSample struct {
	Timestamp time.Time
	// Elapsed is the wall time since the previous sample, zero on the first.
	Elapsed time.Duration

	Total  CPUTimes
	Cores  []CPUTimes
	Memory Memory
	IO     IOCounters

	Load     [3]float64
	Uptime   time.Duration
	Hostname string

	Procs map[int32]ProcRecord
}

// Zero returns an empty sample suitable for initial renders.
func Zero() RawSample {
	return RawSample{
		Timestamp: time.Now(),
		Procs:     make(map[int32]ProcRecord),
	}
}

// Package actions applies user commands (signals, renice, CPU affinity) to
// processes. A Request captures the target's pid and generation when the
// dialog opens; execution refuses to touch a pid that has since been reused.
package actions

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Kind is the action a request performs.
type Kind int

const (
	KindSignal Kind = iota
	KindNice
	KindAffinity
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindNice:
		return "nice"
	case KindAffinity:
		return "affinity"
	default:
		return "unknown"
	}
}

const (
	MinNice = -20
	MaxNice = 19
)

// Request targets one process incarnation.
type Request struct {
	Kind       Kind
	PID        int32
	Generation uint64
	Name       string

	Signal syscall.Signal
	Nice   int32
	CPUs   []int
}

// Snapshot builds a request for node, capturing its identity.
func Snapshot(n *model.ProcessNode, kind Kind) Request {
	return Request{
		Kind:       kind,
		PID:        n.PID,
		Generation: n.Generation,
		Name:       n.Name,
		Signal:     syscall.SIGTERM,
		Nice:       n.Nice,
	}
}

// Describe renders the request for confirmation prompts and logs.
func (r Request) Describe() string {
	switch r.Kind {
	case KindSignal:
		return fmt.Sprintf("send SIG%s to %d (%s)", SignalName(r.Signal), r.PID, r.Name)
	case KindNice:
		return fmt.Sprintf("set nice %d on %d (%s)", r.Nice, r.PID, r.Name)
	case KindAffinity:
		return fmt.Sprintf("pin %d (%s) to CPUs %s", r.PID, r.Name, FormatCPUs(r.CPUs))
	}
	return fmt.Sprintf("%s on %d", r.Kind, r.PID)
}

// System is the OS surface the executor drives.
type System interface {
	// Generation returns the live generation of pid.
	Generation(pid int32) (uint64, error)
	Signal(pid int32, sig syscall.Signal) error
	SetNice(pid int32, nice int32) error
	SetAffinity(pid int32, cpus []int) error
	Affinity(pid int32) ([]int, error)
}

// Executor validates and applies requests.
type Executor struct {
	sys      System
	readonly bool
	log      logger.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithSystem replaces the platform system, for tests.
func WithSystem(s System) Option {
	return func(e *Executor) { e.sys = s }
}

// WithReadOnly disables every action.
func WithReadOnly(on bool) Option {
	return func(e *Executor) { e.readonly = on }
}

// WithLogger sets the executor's logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// NewExecutor returns an executor for the running platform.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{log: logger.Noop()}
	for _, o := range opts {
		o(e)
	}
	if e.sys == nil {
		e.sys = newSystem()
	}
	return e
}

// ReadOnly reports whether actions are disabled.
func (e *Executor) ReadOnly() bool { return e.readonly }

// Affinity returns the current CPU set of pid, used to seed the dialog.
func (e *Executor) Affinity(pid int32) ([]int, error) {
	return e.sys.Affinity(pid)
}

// Execute applies req after confirming the target is the same process the
// request was captured from.
func (e *Executor) Execute(req Request) error {
	if e.readonly {
		return errors.New(errors.ErrAction,
			"Actions are disabled in read-only mode",
			"Restart without --readonly to manage processes")
	}
	if err := validate(req); err != nil {
		return err
	}

	gen, err := e.sys.Generation(req.PID)
	if err != nil || gen != req.Generation {
		return errors.New(errors.ErrNotFound,
			fmt.Sprintf("Process %d (%s) no longer exists", req.PID, req.Name),
			"The pid exited or was reused; select the process again")
	}

	switch req.Kind {
	case KindSignal:
		err = e.sys.Signal(req.PID, req.Signal)
	case KindNice:
		err = e.sys.SetNice(req.PID, req.Nice)
	case KindAffinity:
		err = e.sys.SetAffinity(req.PID, req.CPUs)
	}
	if err != nil {
		e.log.Warn("%s failed: %v", req.Describe(), err)
		if errors.IsCode(err, errors.ErrUnsupported) {
			return err
		}
		return errors.WrapWithCode(err, errors.ErrAction,
			fmt.Sprintf("Could not %s", req.Describe()),
			"Check that you own the process or run with elevated privileges")
	}
	e.log.Info("%s", req.Describe())
	return nil
}

func validate(req Request) error {
	switch req.Kind {
	case KindSignal:
		if req.Signal <= 0 {
			return errors.New(errors.ErrAction, "No signal selected", "Pick a signal from the list")
		}
	case KindNice:
		if req.Nice < MinNice || req.Nice > MaxNice {
			return errors.New(errors.ErrAction,
				fmt.Sprintf("Nice value %d is out of range", req.Nice),
				fmt.Sprintf("Use a value between %d and %d", MinNice, MaxNice))
		}
	case KindAffinity:
		if len(req.CPUs) == 0 {
			return errors.New(errors.ErrAction, "Affinity needs at least one CPU", "Select one or more CPUs")
		}
		n := cpuCount()
		for _, c := range req.CPUs {
			if c < 0 || c >= n {
				return errors.New(errors.ErrAction,
					fmt.Sprintf("CPU %d does not exist", c),
					fmt.Sprintf("Use CPUs 0-%d", n-1))
			}
		}
	default:
		return errors.New(errors.ErrAction, "Unknown action", "")
	}
	return nil
}

// cpuCount is the number of logical CPUs on the machine, which may exceed
// what this process itself is allowed to run on.
func cpuCount() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// MaxCPUs bounds CPU numbers accepted by ParseCPUs, matching the largest
// NR_CPUS a Linux kernel can be built with.
const MaxCPUs = 8192

// ParseCPUs parses "0,2-4" into a sorted, de-duplicated CPU list.
func ParseCPUs(s string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || a < 0 {
			return nil, errors.New(errors.ErrAction, fmt.Sprintf("Invalid CPU %q", part), "Use a list like 0,2-4")
		}
		b := a
		if isRange {
			b, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || b < a {
				return nil, errors.New(errors.ErrAction, fmt.Sprintf("Invalid CPU range %q", part), "Use a list like 0,2-4")
			}
		}
		if b >= MaxCPUs {
			return nil, errors.New(errors.ErrAction, fmt.Sprintf("CPU %d does not exist", b), fmt.Sprintf("Use CPUs below %d", MaxCPUs))
		}
		for c := a; c <= b; c++ {
			seen[c] = true
		}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out, nil
}

// FormatCPUs is the inverse of ParseCPUs, collapsing runs into ranges.
func FormatCPUs(cpus []int) string {
	if len(cpus) == 0 {
		return ""
	}
	sorted := append([]int(nil), cpus...)
	sort.Ints(sorted)
	var b strings.Builder
	start := sorted[0]
	prev := start
	flush := func() {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if start == prev {
			b.WriteString(strconv.Itoa(start))
		} else {
			fmt.Fprintf(&b, "%d-%d", start, prev)
		}
	}
	for _, c := range sorted[1:] {
		if c == prev || c == prev+1 {
			prev = c
			continue
		}
		flush()
		start, prev = c, c
	}
	flush()
	return b.String()
}

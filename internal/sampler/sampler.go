// Package sampler reads raw OS counters: machine-wide CPU times, memory,
// load and I/O through gopsutil, and the process table through procfs on
// Linux or gopsutil elsewhere. It computes no rates; every counter is handed
// downstream as the cumulative value the OS reported.
package sampler

import (
	"time"

	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/shirou/gopsutil/v3/host"
)

// ProcSource enumerates the process table. Processes that exit while being
// read are left out rather than reported as errors.
type ProcSource interface {
	Procs() (map[int32]model.ProcRecord, error)
}

// SystemSource reads machine-wide counters.
type SystemSource interface {
	CPU() (total model.CPUTimes, cores []model.CPUTimes, err error)
	Memory() (model.Memory, error)
	Load() ([3]float64, error)
	Uptime() (time.Duration, error)
	IO() (model.IOCounters, error)
}

// Sampler produces one RawSample per call. The only state it keeps is the
// previous sample, used in place of any metric that cannot be read.
type Sampler struct {
	procs ProcSource
	sys   SystemSource
	log   logger.Logger
	now   func() time.Time

	hostname string
	prev     model.RawSample
	started  bool
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithProcSource overrides the platform process source.
func WithProcSource(p ProcSource) Option {
	return func(s *Sampler) { s.procs = p }
}

// WithSystemSource overrides the gopsutil system source.
func WithSystemSource(sys SystemSource) Option {
	return func(s *Sampler) { s.sys = sys }
}

// WithLogger sets the logger used for read failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) { s.log = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sampler) { s.now = now }
}

// New creates a sampler reading from the platform defaults.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		log: logger.Noop(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.sys == nil {
		s.sys = NewSystemSource()
	}
	if s.procs == nil {
		s.procs = NewProcSource(s.log)
	}
	if info, err := host.Info(); err == nil {
		s.hostname = info.Hostname
	}
	return s
}

// Sample reads every counter once. A metric that fails to read keeps the
// value from the previous sample; Sample itself never fails.
func (s *Sampler) Sample() model.RawSample {
	now := s.now()
	raw := model.RawSample{
		Timestamp: now,
		Hostname:  s.hostname,
	}
	if s.started {
		raw.Elapsed = now.Sub(s.prev.Timestamp)
	}

	var err error
	if raw.Total, raw.Cores, err = s.sys.CPU(); err != nil {
		s.log.Debug("cpu times unavailable, reusing previous: %v", err)
		raw.Total, raw.Cores = s.prev.Total, s.prev.Cores
	}
	if raw.Memory, err = s.sys.Memory(); err != nil {
		s.log.Debug("memory unavailable, reusing previous: %v", err)
		raw.Memory = s.prev.Memory
	}
	if raw.Load, err = s.sys.Load(); err != nil {
		s.log.Debug("load average unavailable, reusing previous: %v", err)
		raw.Load = s.prev.Load
	}
	if raw.Uptime, err = s.sys.Uptime(); err != nil {
		raw.Uptime = s.prev.Uptime + raw.Elapsed
	}
	if raw.IO, err = s.sys.IO(); err != nil {
		s.log.Debug("io counters unavailable, reusing previous: %v", err)
		raw.IO = s.prev.IO
	}
	if raw.Procs, err = s.procs.Procs(); err != nil {
		s.log.Warn("process table unavailable, reusing previous: %v", err)
		raw.Procs = copyProcs(s.prev.Procs)
	}

	s.prev = raw
	s.prev.Procs = copyProcs(raw.Procs)
	s.started = true
	return raw
}

func copyProcs(in map[int32]model.ProcRecord) map[int32]model.ProcRecord {
	out := make(map[int32]model.ProcRecord, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

//go:build !linux

package sampler

import (
	"strings"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/cache"
	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/shirou/gopsutil/v3/process"
)

// gopsutilSource reads the process table through gopsutil on platforms
// without /proc.
type gopsutilSource struct {
	log logger.Logger
}

// NewProcSource returns the gopsutil backed source.
func NewProcSource(log logger.Logger) ProcSource {
	if log == nil {
		log = logger.Noop()
	}
	return &gopsutilSource{log: log}
}

func (s *gopsutilSource) Procs() (map[int32]model.ProcRecord, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make(map[int32]model.ProcRecord, len(procs))
	for _, p := range procs {
		rec, err := s.read(p)
		if err != nil {
			s.log.Debug("skip pid %d: %v", p.Pid, err)
			continue
		}
		out[rec.PID] = rec
	}
	return out, nil
}

func (s *gopsutilSource) read(p *process.Process) (model.ProcRecord, error) {
	created, err := p.CreateTime()
	if err != nil {
		return model.ProcRecord{}, err
	}
	rec := model.ProcRecord{
		PID:        p.Pid,
		Generation: uint64(created),
		StartTime:  time.UnixMilli(created),
	}
	rec.Name, _ = p.Name()
	if ppid, err := p.Ppid(); err == nil {
		rec.PPID = ppid
	}
	if t, err := p.Times(); err == nil {
		rec.CPUTime = seconds(t.User + t.System)
	}
	if mi, err := p.MemoryInfo(); err == nil {
		rec.Resident, rec.Virtual = mi.RSS, mi.VMS
	}
	if n, err := p.NumThreads(); err == nil {
		rec.Threads = n
	}
	if nice, err := p.Nice(); err == nil {
		rec.Nice = nice
		rec.Priority = 20 + nice
	}
	rec.Class = model.ClassFromNice(false, rec.Nice)
	if st, err := p.Status(); err == nil && len(st) > 0 && len(st[0]) > 0 {
		rec.Status = strings.ToUpper(st[0])[0]
	}
	if uids, err := p.Uids(); err == nil && len(uids) > 1 {
		rec.UID = uint32(uids[1])
		rec.HasUID = true
		rec.Elevated = uids[1] == 0
	}
	return rec, nil
}

type gopsutilProber struct{}

// NewProber returns a prober backed by gopsutil.
func NewProber() cache.Prober {
	return gopsutilProber{}
}

func (gopsutilProber) Probe(rec *model.ProcRecord) (cache.Details, error) {
	var d cache.Details
	p, err := process.NewProcess(rec.PID)
	if err != nil {
		return d, err
	}
	if rec.HasUID {
		d.Owner = lookupUser(rec.UID)
	}
	d.Command, err = p.Cmdline()
	if err != nil {
		return d, err
	}
	if d.Command == "" {
		d.Command = rec.Name
	}
	d.ExePath, _ = p.Exe()
	return d, nil
}

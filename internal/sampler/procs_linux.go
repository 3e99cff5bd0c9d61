//go:build linux

package sampler

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

const (
	// pfKthread marks kernel threads in the stat flags word.
	pfKthread = 0x00200000
	// userHZ is the clock tick rate /proc reports times in.
	userHZ = 100
)

// procfsSource reads the process table from /proc.
type procfsSource struct {
	fs   procfs.FS
	log  logger.Logger
	boot time.Time
}

// NewProcSource returns the procfs backed source rooted at /proc.
func NewProcSource(log logger.Logger) ProcSource {
	return NewProcSourceAt(procfs.DefaultMountPoint, log)
}

// NewProcSourceAt reads from an alternate proc mount.
func NewProcSourceAt(mount string, log logger.Logger) ProcSource {
	if log == nil {
		log = logger.Noop()
	}
	src := &procfsSource{log: log}
	pfs, err := procfs.NewFS(mount)
	if err != nil {
		log.Warn("procfs unavailable at %s: %v", mount, err)
		return src
	}
	src.fs = pfs
	if st, err := pfs.Stat(); err == nil {
		src.boot = time.Unix(int64(st.BootTime), 0)
	}
	return src
}

func (s *procfsSource) Procs() (map[int32]model.ProcRecord, error) {
	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil, err
	}
	out := make(map[int32]model.ProcRecord, len(procs))
	for _, p := range procs {
		rec, err := s.read(p)
		if err != nil {
			// exited between listing and reading
			if !errors.Is(err, fs.ErrNotExist) {
				s.log.Debug("skip pid %d: %v", p.PID, err)
			}
			continue
		}
		out[rec.PID] = rec
	}
	return out, nil
}

func (s *procfsSource) read(p procfs.Proc) (model.ProcRecord, error) {
	st, err := p.Stat()
	if err != nil {
		return model.ProcRecord{}, err
	}
	rec := model.ProcRecord{
		PID:        int32(st.PID),
		PPID:       int32(st.PPID),
		Name:       st.Comm,
		CPUTime:    seconds(st.CPUTime()),
		Resident:   uint64(st.ResidentMemory()),
		Virtual:    uint64(st.VirtualMemory()),
		Threads:    int32(st.NumThreads),
		Priority:   int32(st.Priority),
		Nice:       int32(st.Nice),
		Kernel:     st.Flags&pfKthread != 0,
		Generation: st.Starttime,
	}
	if len(st.State) > 0 {
		rec.Status = st.State[0]
	}
	realtime := st.Policy == unix.SCHED_FIFO || st.Policy == unix.SCHED_RR
	rec.Eco = st.Policy == unix.SCHED_IDLE
	rec.Class = model.ClassFromNice(realtime, rec.Nice)
	if rec.Eco {
		rec.Class = model.ClassIdle
	}
	if !s.boot.IsZero() {
		rec.StartTime = s.boot.Add(time.Duration(st.Starttime) * time.Second / userHZ)
	}

	if status, err := p.NewStatus(); err == nil {
		euid := status.UIDs[1]
		rec.UID = uint32(euid)
		rec.HasUID = true
		rec.Elevated = euid == 0
		rec.Shared = status.RssFile + status.RssShmem
	}
	if rec.Kernel {
		rec.Command = "[" + strings.TrimSpace(rec.Name) + "]"
	}
	return rec, nil
}

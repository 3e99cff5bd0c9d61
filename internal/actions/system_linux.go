//go:build linux

package actions

import (
	"syscall"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// linuxSystem drives processes through raw syscalls and reads identity
// from /proc.
type linuxSystem struct {
	fs procfs.FS
}

func newSystem() System {
	pfs, _ := procfs.NewDefaultFS()
	return &linuxSystem{fs: pfs}
}

func (s *linuxSystem) Generation(pid int32) (uint64, error) {
	p, err := s.fs.Proc(int(pid))
	if err != nil {
		return 0, err
	}
	st, err := p.Stat()
	if err != nil {
		return 0, err
	}
	return st.Starttime, nil
}

func (s *linuxSystem) Signal(pid int32, sig syscall.Signal) error {
	return unix.Kill(int(pid), sig)
}

func (s *linuxSystem) SetNice(pid int32, nice int32) error {
	return unix.Setpriority(unix.PRIO_PROCESS, int(pid), int(nice))
}

func (s *linuxSystem) SetAffinity(pid int32, cpus []int) error {
	var set unix.CPUSet
	for _, c := range cpus {
		set.Set(c)
	}
	return unix.SchedSetaffinity(int(pid), &set)
}

func (s *linuxSystem) Affinity(pid int32) ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(int(pid), &set); err != nil {
		return nil, err
	}
	var cpus []int
	for c := 0; len(cpus) < set.Count(); c++ {
		if set.IsSet(c) {
			cpus = append(cpus, c)
		}
	}
	return cpus, nil
}

//go:build !linux

package actions

import (
	"syscall"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/shirou/gopsutil/v3/process"
)

// portableSystem signals through gopsutil. Renice and affinity need
// platform calls that are only wired on Linux.
type portableSystem struct{}

func newSystem() System {
	return portableSystem{}
}

func (portableSystem) Generation(pid int32) (uint64, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}
	created, err := p.CreateTime()
	if err != nil {
		return 0, err
	}
	return uint64(created), nil
}

func (portableSystem) Signal(pid int32, sig syscall.Signal) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.SendSignal(sig)
}

func unsupported(what string) error {
	return errors.New(errors.ErrUnsupported,
		what+" is not supported on this platform",
		"Use the operating system's own tools")
}

func (portableSystem) SetNice(pid int32, nice int32) error {
	return unsupported("Changing priority")
}

func (portableSystem) SetAffinity(pid int32, cpus []int) error {
	return unsupported("Setting CPU affinity")
}

func (portableSystem) Affinity(pid int32) ([]int, error) {
	return nil, unsupported("Reading CPU affinity")
}

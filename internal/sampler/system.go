package sampler

import (
	"errors"
	"strings"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// gopsutilSystem reads machine-wide counters through gopsutil.
type gopsutilSystem struct{}

// NewSystemSource returns the gopsutil backed system source.
func NewSystemSource() SystemSource {
	return gopsutilSystem{}
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func cpuTimes(t cpu.TimesStat) model.CPUTimes {
	idle := t.Idle + t.Iowait
	return model.CPUTimes{
		Busy: seconds(t.Total() - idle),
		Idle: seconds(idle),
	}
}

func (gopsutilSystem) CPU() (model.CPUTimes, []model.CPUTimes, error) {
	totals, err := cpu.Times(false)
	if err != nil {
		return model.CPUTimes{}, nil, err
	}
	if len(totals) == 0 {
		return model.CPUTimes{}, nil, errors.New("no cpu totals reported")
	}
	perCore, err := cpu.Times(true)
	if err != nil {
		return model.CPUTimes{}, nil, err
	}
	cores := make([]model.CPUTimes, len(perCore))
	for i, c := range perCore {
		cores[i] = cpuTimes(c)
	}
	return cpuTimes(totals[0]), cores, nil
}

func (gopsutilSystem) Memory() (model.Memory, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return model.Memory{}, err
	}
	m := model.Memory{
		TotalBytes:     vm.Total,
		AvailableBytes: vm.Available,
		UsedBytes:      vm.Used,
		Cached:         vm.Cached,
		Buffers:        vm.Buffers,
	}
	// swap is optional; a machine without it reports zeros
	if sw, err := mem.SwapMemory(); err == nil {
		m.SwapTotal, m.SwapUsed = sw.Total, sw.Used
	}
	return m, nil
}

func (gopsutilSystem) Load() ([3]float64, error) {
	avg, err := load.Avg()
	if err != nil {
		return [3]float64{}, err
	}
	return [3]float64{avg.Load1, avg.Load5, avg.Load15}, nil
}

func (gopsutilSystem) Uptime() (time.Duration, error) {
	secs, err := host.Uptime()
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

func (gopsutilSystem) IO() (model.IOCounters, error) {
	var io model.IOCounters
	var errs []error

	disks, err := disk.IOCounters()
	if err != nil {
		errs = append(errs, err)
	}
	for name, st := range disks {
		if skipDisk(name) {
			continue
		}
		io.DiskRead += st.ReadBytes
		io.DiskWrite += st.WriteBytes
	}

	nets, err := net.IOCounters(false)
	if err != nil {
		errs = append(errs, err)
	}
	if len(nets) > 0 {
		io.NetRx, io.NetTx = nets[0].BytesRecv, nets[0].BytesSent
	}

	if len(errs) == 2 {
		return io, errors.Join(errs...)
	}
	return io, nil
}

func skipDisk(name string) bool {
	return strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram")
}

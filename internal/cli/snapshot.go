package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/cache"
	"github.com/Dicklesworthstone/proctop/internal/config"
	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/Dicklesworthstone/proctop/internal/sampler"
	"github.com/Dicklesworthstone/proctop/internal/ui"
	"github.com/spf13/cobra"
)

type snapshotFlags struct {
	viewFlags
	json     bool
	limit    int
	noMeters bool
}

func newSnapshotCmd() *cobra.Command {
	var f snapshotFlags
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the process table once and exit",
		Long: `Take two samples one refresh interval apart and print the busiest
processes, either as a table or as JSON.

Examples:
  proctop snapshot
  proctop snapshot -n 10 --sort-key MEM%
  proctop snapshot --json | jq '.processes[0]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.DurationP("delay", "d", config.DefaultRefreshInterval, "time between the two samples")
	addViewFlags(cmd, &f.viewFlags)
	fl.BoolVar(&f.json, "json", false, "print JSON instead of a table")
	fl.IntVarP(&f.limit, "limit", "n", 25, "number of processes to print, 0 for all")
	fl.BoolVar(&f.noMeters, "no-meters", false, "omit the summary cards")
	return cmd
}

// snapshotSource and snapshotEnricher are the pipeline stages a snapshot
// drives.
type snapshotSource interface {
	Sample() model.RawSample
}

type snapshotEnricher interface {
	EnrichSample(raw *model.RawSample)
}

func runSnapshot(cmd *cobra.Command, f *snapshotFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := cfg.ModelOptions()
	if err := f.apply(&opts); err != nil {
		return err
	}

	closer, err := logger.Redirect(cfg.LogFile)
	if err == nil {
		defer closer.Close()
	}
	log := logger.NewEnvLogger("[snapshot]")

	src := sampler.New(sampler.WithLogger(log))
	enr := cache.New(sampler.NewProber(), cache.WithLogger(log))
	m, err := takeSnapshot(cmd, src, enr, opts, cfg.RefreshInterval)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.json {
		return writeJSON(out, m, f.limit)
	}
	fmt.Fprintln(out, ui.RenderSnapshot(m, ui.SnapshotOptions{
		Columns:  cfg.ColumnSet(),
		Limit:    f.limit,
		ShowPath: cfg.ShowProgramPath,
		Meters:   cfg.ShowMeters && !f.noMeters,
	}))
	return nil
}

// takeSnapshot builds a model from two samples interval apart so CPU and
// I/O rates have something to diff against.
func takeSnapshot(cmd *cobra.Command, src snapshotSource, enr snapshotEnricher, opts model.Options, interval time.Duration) (*model.Model, error) {
	first := src.Sample()
	enr.EnrichSample(&first)
	prev := model.Build(&first, nil, opts)

	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-cmd.Context().Done():
		return nil, cmd.Context().Err()
	case <-timer.C:
	}

	second := src.Sample()
	enr.EnrichSample(&second)
	return model.Build(&second, prev, opts), nil
}

type snapshotJSON struct {
	Timestamp     time.Time     `json:"timestamp"`
	Hostname      string        `json:"hostname"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Load          [3]float64    `json:"load"`
	CPUPercent    float64       `json:"cpu_percent"`
	PerCore       []float64     `json:"per_core_percent"`
	Memory        memoryJSON    `json:"memory"`
	IO            ioJSON        `json:"io"`
	Tasks         tasksJSON     `json:"tasks"`
	Processes     []processJSON `json:"processes"`
}

type memoryJSON struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	Percent     float64 `json:"percent"`
	SwapTotal   uint64  `json:"swap_total_bytes"`
	SwapUsed    uint64  `json:"swap_used_bytes"`
	SwapPercent float64 `json:"swap_percent"`
}

type ioJSON struct {
	DiskRead  float64 `json:"disk_read_bytes_per_sec"`
	DiskWrite float64 `json:"disk_write_bytes_per_sec"`
	NetRx     float64 `json:"net_rx_bytes_per_sec"`
	NetTx     float64 `json:"net_tx_bytes_per_sec"`
}

type tasksJSON struct {
	Total   int `json:"total"`
	Threads int `json:"threads"`
	Running int `json:"running"`
	Kernel  int `json:"kernel_threads"`
}

type processJSON struct {
	PID            int32     `json:"pid"`
	PPID           int32     `json:"ppid"`
	Name           string    `json:"name"`
	User           string    `json:"user,omitempty"`
	Command        string    `json:"command,omitempty"`
	Exe            string    `json:"exe,omitempty"`
	Arch           string    `json:"arch,omitempty"`
	State          string    `json:"state"`
	CPUPercent     float64   `json:"cpu_percent"`
	MemPercent     float64   `json:"mem_percent"`
	ResidentBytes  uint64    `json:"resident_bytes"`
	VirtualBytes   uint64    `json:"virtual_bytes"`
	SharedBytes    uint64    `json:"shared_bytes"`
	Threads        int32     `json:"threads"`
	Priority       int32     `json:"priority"`
	Nice           int32     `json:"nice"`
	Class          string    `json:"class"`
	CPUTimeSeconds float64   `json:"cpu_time_seconds"`
	Started        time.Time `json:"started,omitempty"`
	Elevated       bool      `json:"elevated"`
	Eco            bool      `json:"eco"`
	Kernel         bool      `json:"kernel"`
	Depth          int       `json:"depth,omitempty"`
}

func toJSON(m *model.Model, limit int) snapshotJSON {
	n := len(m.Rows)
	if limit > 0 {
		n = min(n, limit)
	}
	doc := snapshotJSON{
		Timestamp:     m.Timestamp,
		Hostname:      m.Hostname,
		UptimeSeconds: m.Uptime.Seconds(),
		Load:          m.Load,
		CPUPercent:    m.CPU,
		PerCore:       m.PerCore,
		Memory: memoryJSON{
			TotalBytes:  m.Memory.TotalBytes,
			UsedBytes:   m.Memory.UsedBytes,
			Percent:     m.MemPercent,
			SwapTotal:   m.Memory.SwapTotal,
			SwapUsed:    m.Memory.SwapUsed,
			SwapPercent: m.SwapPercent,
		},
		IO:        ioJSON(m.IO),
		Tasks:     tasksJSON(m.Tasks),
		Processes: make([]processJSON, 0, n),
	}
	for i := 0; i < n; i++ {
		p := &m.Rows[i]
		doc.Processes = append(doc.Processes, processJSON{
			PID:            p.PID,
			PPID:           p.PPID,
			Name:           p.Name,
			User:           p.Owner,
			Command:        p.Command,
			Exe:            p.ExePath,
			Arch:           p.Arch,
			State:          string(rune(p.Status)),
			CPUPercent:     p.CPU,
			MemPercent:     p.Mem,
			ResidentBytes:  p.Resident,
			VirtualBytes:   p.Virtual,
			SharedBytes:    p.Shared,
			Threads:        p.Threads,
			Priority:       p.Priority,
			Nice:           p.Nice,
			Class:          p.Class.String(),
			CPUTimeSeconds: p.CPUTime.Seconds(),
			Started:        p.StartTime,
			Elevated:       p.Elevated,
			Eco:            p.Eco,
			Kernel:         p.Kernel,
			Depth:          p.Depth,
		})
	}
	return doc
}

func writeJSON(w io.Writer, m *model.Model, limit int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(m, limit))
}

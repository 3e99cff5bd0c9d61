//go:build linux

package sampler

import (
	"debug/elf"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/cache"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/prometheus/procfs"
)

const deletedSuffix = " (deleted)"

// startSlack covers btime being whole seconds, which puts computed start
// times up to a second early.
const startSlack = time.Second + time.Second/userHZ

// procProber fills the details the cache memoizes: owner name, full
// command line, executable path, ELF machine and whether the binary on disk
// changed after the process started.
type procProber struct {
	fs    procfs.FS
	mount string

	mu     sync.Mutex
	owners map[uint32]string
	arches map[string]string
}

// NewProber returns a prober reading /proc.
func NewProber() cache.Prober {
	return NewProberAt(procfs.DefaultMountPoint)
}

// NewProberAt returns a prober reading an alternate proc mount.
func NewProberAt(mount string) cache.Prober {
	pfs, _ := procfs.NewFS(mount)
	return &procProber{
		fs:     pfs,
		mount:  mount,
		owners: make(map[uint32]string),
		arches: make(map[string]string),
	}
}

// Probe fails only when the command line cannot be read, which means the
// process is gone or hidden from us. Missing exe access is normal for other
// users' processes and leaves those fields empty.
func (p *procProber) Probe(rec *model.ProcRecord) (cache.Details, error) {
	var d cache.Details
	if rec.HasUID {
		d.Owner = p.owner(rec.UID)
	}

	proc, err := p.fs.Proc(int(rec.PID))
	if err != nil {
		return d, err
	}
	args, err := proc.CmdLine()
	if err != nil {
		return d, err
	}
	d.Command = strings.Join(args, " ")
	if rec.Kernel || d.Command == "" {
		d.Command = "[" + rec.Name + "]"
		return d, nil
	}

	exe, err := proc.Executable()
	if err != nil {
		return d, nil
	}
	deleted := strings.HasSuffix(exe, deletedSuffix)
	d.ExePath = strings.TrimSuffix(exe, deletedSuffix)
	d.BinaryModified = deleted
	if !deleted && !rec.StartTime.IsZero() {
		if fi, err := os.Stat(d.ExePath); err == nil {
			d.BinaryModified = replacedSince(fi.ModTime(), rec.StartTime)
		}
	}
	d.Arch = p.arch(rec.PID, d.ExePath, deleted)
	return d, nil
}

// replacedSince reports whether an executable with mtime was written after
// a process started at start.
func replacedSince(mtime, start time.Time) bool {
	return mtime.After(start.Add(startSlack))
}

func (p *procProber) owner(uid uint32) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name, ok := p.owners[uid]; ok {
		return name
	}
	name := lookupUser(uid)
	p.owners[uid] = name
	return name
}

// arch reads the ELF header through /proc/<pid>/exe so a replaced or deleted
// binary still reports the image that is actually running.
func (p *procProber) arch(pid int32, exe string, deleted bool) string {
	p.mu.Lock()
	name, ok := p.arches[exe]
	p.mu.Unlock()
	if ok && !deleted {
		return name
	}
	name = elfArch(p.mount + "/" + strconv.Itoa(int(pid)) + "/exe")
	if name != "" && !deleted {
		p.mu.Lock()
		p.arches[exe] = name
		p.mu.Unlock()
	}
	return name
}

func elfArch(path string) string {
	f, err := elf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	return machineName(f.Machine, f.Class)
}

func machineName(m elf.Machine, class elf.Class) string {
	switch m {
	case elf.EM_X86_64:
		return "x86_64"
	case elf.EM_386:
		return "x86"
	case elf.EM_AARCH64:
		return "arm64"
	case elf.EM_ARM:
		return "arm"
	case elf.EM_RISCV:
		if class == elf.ELFCLASS32 {
			return "riscv32"
		}
		return "riscv64"
	case elf.EM_PPC64:
		return "ppc64"
	case elf.EM_S390:
		return "s390x"
	case elf.EM_MIPS:
		return "mips"
	case elf.EM_LOONGARCH:
		return "loong64"
	default:
		return strings.ToLower(strings.TrimPrefix(m.String(), "EM_"))
	}
}

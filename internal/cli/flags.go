package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/Dicklesworthstone/proctop/internal/ui"
	"github.com/spf13/cobra"
)

// viewFlags select which processes are listed and how. sort-key, tree and
// filter are bound to config keys; user and pid only live for one run.
type viewFlags struct {
	user string
	pids string
}

// addViewFlags registers the listing flags shared by the monitor and
// snapshot commands.
func addViewFlags(cmd *cobra.Command, f *viewFlags) {
	fl := cmd.Flags()
	fl.StringP("sort-key", "s", "", "sort by this column, e.g. CPU%, MEM%, PID, TIME+")
	fl.BoolP("tree", "t", false, "show processes as a tree")
	fl.StringP("filter", "F", "", "only list processes matching this text")
	fl.StringVarP(&f.user, "user", "u", "", "only list processes owned by this user")
	fl.StringVarP(&f.pids, "pid", "p", "", "only list these pids, comma separated")
}

func (f *viewFlags) uiOptions() ([]ui.Option, error) {
	var opts []ui.Option
	if f.user != "" {
		opts = append(opts, ui.WithUser(f.user))
	}
	pids, err := ParsePIDs(f.pids)
	if err != nil {
		return nil, err
	}
	if len(pids) > 0 {
		opts = append(opts, ui.WithPIDs(pids))
	}
	return opts, nil
}

// apply narrows model options the way the ui options do for the monitor.
func (f *viewFlags) apply(opts *model.Options) error {
	opts.User = f.user
	pids, err := ParsePIDs(f.pids)
	if err != nil {
		return err
	}
	if len(pids) > 0 {
		opts.PIDs = make(map[int32]bool, len(pids))
		for _, p := range pids {
			opts.PIDs[p] = true
		}
	}
	return nil
}

// ParsePIDs parses a comma separated pid list. Blank entries are ignored.
func ParsePIDs(s string) ([]int32, error) {
	var out []int32
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pid, err := strconv.ParseInt(part, 10, 32)
		if err != nil || pid <= 0 {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' is not a valid pid", part),
				"Pass positive numbers separated by commas, e.g. --pid 1,2045")
		}
		out = append(out, int32(pid))
	}
	return out, nil
}

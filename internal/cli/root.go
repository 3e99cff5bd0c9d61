// Package cli wires the proctop commands: the interactive monitor on the
// root command plus snapshot, config and version.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dicklesworthstone/proctop/internal/config"
	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/ui"
	"github.com/spf13/cobra"
)

// monitorFlags are the flags of the interactive monitor that do not map
// straight onto config keys.
type monitorFlags struct {
	viewFlags
	noMeters bool
}

// NewRootCmd builds the proctop command tree.
func NewRootCmd() *cobra.Command {
	var f monitorFlags
	root := &cobra.Command{
		Use:   "proctop",
		Short: "Interactive process monitor",
		Long: `proctop shows a live, sortable table of running processes with CPU,
memory, swap, load and I/O meters above it.

Settings come from the config file, PROCTOP_* environment variables and
flags, in increasing order of precedence.

Examples:
  proctop
  proctop --tree --sort-key MEM%
  proctop -u postgres -d 500ms
  proctop -p 1,2045,2046 --readonly`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logger.EnableDebug(true)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, &f)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default <user config dir>/proctop/config.yaml)")
	pf.String("log-file", "", "append diagnostics to this file")
	pf.Bool("no-color", false, "disable colors")
	pf.Bool("debug", false, "include debug messages in the log")

	fl := root.Flags()
	fl.DurationP("delay", "d", config.DefaultRefreshInterval, "refresh interval, e.g. 1s or 500ms")
	addViewFlags(root, &f.viewFlags)
	fl.Bool("readonly", false, "disable kill, renice and affinity changes")
	fl.BoolVar(&f.noMeters, "no-meters", false, "hide the CPU and memory meters")

	root.AddCommand(newSnapshotCmd(), newConfigCmd(), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes structured errors in their multi-line form and anything
// else with an "Error:" prefix.
func printError(w io.Writer, err error) {
	var pErr *errors.Error
	if stderrors.As(err, &pErr) {
		fmt.Fprint(w, pErr.Error())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func runMonitor(cmd *cobra.Command, f *monitorFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if f.noMeters {
		cfg.ShowMeters = false
	}
	opts, err := f.uiOptions()
	if err != nil {
		return err
	}

	closer, err := logger.Redirect(cfg.LogFile)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+cfg.LogFile,
			"Check the path passed to --log-file")
	}
	defer closer.Close()

	log := logger.NewEnvLogger("[proctop]")
	log.Info("starting: interval=%s sort=%s tree=%v readonly=%v", cfg.RefreshInterval, cfg.SortKey, cfg.TreeView, cfg.ReadOnly)
	if err := ui.RunTUI(cfg, log, opts...); err != nil {
		log.Error("session ended: %v", errors.Summary(err))
		return err
	}
	return nil
}

// loadConfig loads and validates the effective config for cmd, with its
// flags bound over the file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package ui

import (
	"os"

	"github.com/Dicklesworthstone/proctop/internal/actions"
	"github.com/Dicklesworthstone/proctop/internal/cache"
	"github.com/Dicklesworthstone/proctop/internal/config"
	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/sampler"
	"github.com/Dicklesworthstone/proctop/internal/screen"
	tea "github.com/charmbracelet/bubbletea"
)

// RunTUI starts the interactive monitor on the controlling terminal and
// blocks until the user quits or the terminal fails.
func RunTUI(cfg *config.Config, log logger.Logger, opts ...Option) error {
	term, err := screen.Open(os.Stdin, os.Stdout, cfg.NoColor)
	if err != nil {
		return err
	}
	defer term.Close()

	app := New(cfg, Deps{
		Sampler:  sampler.New(sampler.WithLogger(log)),
		Enricher: cache.New(sampler.NewProber(), cache.WithLogger(log)),
		Executor: actions.NewExecutor(actions.WithReadOnly(cfg.ReadOnly), actions.WithLogger(log)),
		Screen:   term,
		Logger:   log,
	}, opts...)

	prog := tea.NewProgram(app,
		tea.WithoutRenderer(),
		tea.WithInput(os.Stdin),
		tea.WithOutput(os.Stdout),
	)
	if _, err := prog.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"The monitor stopped unexpectedly",
			"Run with --log-file to capture details")
	}
	return app.Err()
}

// Package ui drives the interactive monitor. A bubbletea program supplies
// the timer and keyboard input; every tick runs sample, enrich, build and
// render to completion on the program's goroutine, and frames are committed
// by the screen package rather than bubbletea's renderer.
package ui

import (
	"fmt"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/actions"
	"github.com/Dicklesworthstone/proctop/internal/config"
	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/Dicklesworthstone/proctop/internal/screen"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Sampler produces raw OS readings.
type Sampler interface {
	Sample() model.RawSample
}

// Enricher fills the memoized per-process details of a sample.
type Enricher interface {
	EnrichSample(raw *model.RawSample)
}

// Executor applies process actions.
type Executor interface {
	Execute(req actions.Request) error
	ReadOnly() bool
	Affinity(pid int32) ([]int, error)
}

// Screen commits frames to the terminal.
type Screen interface {
	Draw(paint func(area screen.Rect, buf *screen.Buffer)) (screen.CommitStats, error)
	Resize(width, height int) error
	Size() (int, int)
	Invalidate()
}

// Deps are the collaborators an App drives.
type Deps struct {
	Sampler  Sampler
	Enricher Enricher
	Executor Executor
	Screen   Screen
	Logger   logger.Logger
	Now      func() time.Time
}

// Option adjusts the initial session state.
type Option func(*App)

// WithUser shows only processes owned by user.
func WithUser(user string) Option {
	return func(a *App) { a.opts.User = user }
}

// WithPIDs shows only the listed pids.
func WithPIDs(pids []int32) Option {
	return func(a *App) {
		if len(pids) == 0 {
			return
		}
		a.opts.PIDs = make(map[int32]bool, len(pids))
		for _, p := range pids {
			a.opts.PIDs[p] = true
		}
	}
}

type tickMsg time.Time

// App is the session state owned by the tick loop.
type App struct {
	cfg   *config.Config
	deps  Deps
	keys  keyMap
	theme theme
	log   logger.Logger
	now   func() time.Time

	columns  []model.Column
	opts     model.Options
	showPath bool
	meters   bool

	current *model.Model
	history *model.History

	selected  int
	offset    int
	selPID    int32
	follow    bool
	paused    bool
	tableRows int

	dialog dialog

	status      string
	statusErr   bool
	statusUntil time.Time

	err error
}

// New creates an App. cfg is read once; runtime changes such as sort or
// filter live in the session only.
func New(cfg *config.Config, deps Deps, opts ...Option) *App {
	if deps.Logger == nil {
		deps.Logger = logger.Noop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	a := &App{
		cfg:      cfg,
		deps:     deps,
		keys:     defaultKeyMap(),
		theme:    themeFor(cfg.NoColor),
		log:      deps.Logger,
		now:      deps.Now,
		columns:  cfg.ColumnSet(),
		opts:     cfg.ModelOptions(),
		showPath: cfg.ShowProgramPath,
		meters:   cfg.ShowMeters,
		history:  model.NewHistory(model.DefaultHistorySize),
		selPID:   -1,
	}
	a.opts.Collapsed = model.Marks{}
	a.opts.Tagged = model.Marks{}
	for _, o := range opts {
		o(a)
	}
	if deps.Executor.ReadOnly() {
		a.setStatus("read-only mode", false)
	}
	return a
}

// Err is the error that ended the session, if any.
func (a *App) Err() error { return a.err }

// Model is the most recently built model.
func (a *App) Model() *model.Model { return a.current }

func (a *App) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(a.now()) }
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(a.cfg.RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if !a.paused {
			a.refresh()
		}
		cmd = a.scheduleTick()
	case tea.WindowSizeMsg:
		if err := a.deps.Screen.Resize(msg.Width, msg.Height); err != nil {
			return a.fail(err)
		}
	case tea.KeyMsg:
		if a.handleKey(msg) {
			return a, tea.Quit
		}
	default:
		return a, nil
	}
	if err := a.render(); err != nil {
		return a.fail(err)
	}
	return a, cmd
}

// View is unused; frames are committed by the screen package.
func (a *App) View() string { return "" }

func (a *App) fail(err error) (tea.Model, tea.Cmd) {
	a.err = err
	return a, tea.Quit
}

// refresh runs one sample, enrich and build cycle.
func (a *App) refresh() {
	raw := a.deps.Sampler.Sample()
	if a.deps.Enricher != nil {
		a.deps.Enricher.EnrichSample(&raw)
	}
	first := a.current == nil
	a.current = model.Build(&raw, a.current, a.opts)
	a.opts.Tagged.Prune(a.current)
	a.opts.Collapsed.Prune(a.current)
	if !first {
		a.history.Push(a.current)
	}
	a.restoreSelection(a.follow)
}

// rearrange re-sorts and re-filters the current model without sampling.
func (a *App) rearrange() {
	if a.current == nil {
		return
	}
	a.current.Arrange(a.opts)
	a.restoreSelection(true)
}

// restoreSelection puts the cursor back on the selected pid when byPID is
// set and it is still listed; otherwise the row index is kept in range.
func (a *App) restoreSelection(byPID bool) {
	rows := a.rows()
	if byPID && a.selPID >= 0 {
		if i := a.current.RowIndex(a.selPID); i >= 0 {
			a.selected = i
			return
		}
		if a.follow {
			a.follow = false
			a.setStatus(fmt.Sprintf("process %d is gone, follow off", a.selPID), false)
		}
	}
	a.selected = min(max(a.selected, 0), max(len(rows)-1, 0))
	a.syncSelPID()
}

func (a *App) syncSelPID() {
	rows := a.rows()
	if a.selected < len(rows) {
		a.selPID = rows[a.selected].PID
	} else {
		a.selPID = -1
	}
}

func (a *App) rows() []model.ProcessNode {
	if a.current == nil {
		return nil
	}
	return a.current.Rows
}

func (a *App) selectedNode() *model.ProcessNode {
	rows := a.rows()
	if a.selected < 0 || a.selected >= len(rows) {
		return nil
	}
	n := rows[a.selected].Snapshot()
	return &n
}

func (a *App) cores() int {
	if a.current == nil {
		return 0
	}
	return a.current.Cores
}

func (a *App) moveTo(i int) {
	a.selected = min(max(i, 0), max(len(a.rows())-1, 0))
	a.syncSelPID()
}

func (a *App) setSort(col model.Column) {
	a.opts.SortKey = col
	a.opts.Descending = col.DefaultDescending()
	a.rearrange()
}

// jumpToMatch moves to the next search match in direction dir, starting
// at the current row when inclusive is set.
func (a *App) jumpToMatch(dir int, inclusive bool) {
	rows := a.rows()
	n := len(rows)
	if n == 0 || a.opts.Search == "" {
		return
	}
	step := 1
	if dir < 0 {
		step = -1
	}
	start := a.selected
	if !inclusive {
		start += step
	}
	for k := 0; k < n; k++ {
		i := ((start+k*step)%n + n) % n
		if rows[i].SearchMatch {
			a.moveTo(i)
			return
		}
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	a.statusUntil = a.now().Add(5 * time.Second)
}

func (a *App) setError(err error) {
	a.setStatus(errors.Summary(err), true)
}

// execute runs a request captured earlier and reports the outcome.
func (a *App) execute(req actions.Request) {
	if err := a.deps.Executor.Execute(req); err != nil {
		a.setError(err)
		return
	}
	a.setStatus(req.Describe(), false)
}

// targets returns requests for the tagged processes, or for the selected
// one when nothing is tagged. Each is captured now, before any later tick.
func (a *App) targets(kind actions.Kind) []actions.Request {
	var reqs []actions.Request
	for _, n := range a.rows() {
		if n.Tagged {
			reqs = append(reqs, actions.Snapshot(&n, kind))
		}
	}
	if len(reqs) == 0 {
		if n := a.selectedNode(); n != nil {
			reqs = append(reqs, actions.Snapshot(n, kind))
		}
	}
	return reqs
}

func (a *App) render() error {
	_, err := a.deps.Screen.Draw(a.paint)
	return err
}

// handleKey applies one key press and reports whether to quit.
func (a *App) handleKey(msg tea.KeyMsg) bool {
	if a.dialog != nil {
		if a.dialog.handleKey(a, msg) {
			a.dialog = nil
		}
		return false
	}

	k := a.keys
	page := max(a.tableRows-1, 1)
	switch {
	case key.Matches(msg, k.Quit):
		return true
	case key.Matches(msg, k.Up):
		a.moveTo(a.selected - 1)
	case key.Matches(msg, k.Down):
		a.moveTo(a.selected + 1)
	case key.Matches(msg, k.PageUp):
		a.moveTo(a.selected - page)
	case key.Matches(msg, k.PageDown):
		a.moveTo(a.selected + page)
	case key.Matches(msg, k.Home):
		a.moveTo(0)
	case key.Matches(msg, k.End):
		a.moveTo(len(a.rows()) - 1)

	case key.Matches(msg, k.Help):
		a.dialog = newHelpDialog(a)
	case key.Matches(msg, k.Sort):
		a.dialog = newSortDialog(a)
	case key.Matches(msg, k.Search):
		a.dialog = newSearchDialog(a)
	case key.Matches(msg, k.Filter):
		a.dialog = newFilterDialog(a)
	case key.Matches(msg, k.User):
		a.dialog = newUserDialog(a)
	case key.Matches(msg, k.Info):
		if n := a.selectedNode(); n != nil {
			a.dialog = newInfoDialog(a, n)
		}

	case key.Matches(msg, k.Next):
		a.jumpToMatch(1, false)
	case key.Matches(msg, k.Prev):
		a.jumpToMatch(-1, false)

	case key.Matches(msg, k.Tree):
		if a.opts.View == model.ViewTree {
			a.opts.View = model.ViewFlat
		} else {
			a.opts.View = model.ViewTree
		}
		a.rearrange()
	case key.Matches(msg, k.Invert):
		a.opts.Descending = !a.opts.Descending
		a.rearrange()
	case key.Matches(msg, k.Kernel):
		a.opts.ShowKernelThreads = !a.opts.ShowKernelThreads
		a.rearrange()
	case key.Matches(msg, k.Path):
		a.showPath = !a.showPath

	case key.Matches(msg, k.Tag):
		if n := a.selectedNode(); n != nil {
			a.opts.Tagged.Toggle(n)
			a.rearrange()
			a.moveTo(a.selected + 1)
		}
	case key.Matches(msg, k.TagTree):
		if n := a.selectedNode(); n != nil {
			for _, pid := range a.current.Descendants(n.PID) {
				if d, ok := a.current.Node(pid); ok {
					a.opts.Tagged.Add(&d)
				}
			}
			a.rearrange()
		}
	case key.Matches(msg, k.Untag):
		a.opts.Tagged = model.Marks{}
		a.rearrange()
	case key.Matches(msg, k.Follow):
		a.follow = !a.follow
		if a.follow {
			a.setStatus(fmt.Sprintf("following %d", a.selPID), false)
		}

	case key.Matches(msg, k.Expand):
		if n := a.selectedNode(); n != nil {
			delete(a.opts.Collapsed, n.PID)
			a.rearrange()
		}
	case key.Matches(msg, k.Collapse):
		if n := a.selectedNode(); n != nil && n.HasChildren && a.opts.View == model.ViewTree {
			a.opts.Collapsed.Add(n)
			a.rearrange()
		}
	case key.Matches(msg, k.ToggleAll):
		a.toggleAllCollapsed()

	case key.Matches(msg, k.Kill):
		if a.denyReadOnly() {
			break
		}
		if reqs := a.targets(actions.KindSignal); len(reqs) > 0 {
			a.dialog = newKillDialog(a, reqs)
		}
	case key.Matches(msg, k.NiceUp), key.Matches(msg, k.NiceDn):
		if a.denyReadOnly() {
			break
		}
		delta := int32(1)
		if key.Matches(msg, k.NiceUp) {
			delta = -1
		}
		for _, r := range a.targets(actions.KindNice) {
			r.Nice = min(max(r.Nice+delta, actions.MinNice), actions.MaxNice)
			a.execute(r)
		}
	case key.Matches(msg, k.Affinity):
		if a.denyReadOnly() {
			break
		}
		if n := a.selectedNode(); n != nil {
			a.dialog = newAffinityDialog(a, n)
		}

	case key.Matches(msg, k.Pause):
		a.paused = !a.paused
	case key.Matches(msg, k.Redraw):
		a.deps.Screen.Invalidate()
	}
	return false
}

func (a *App) denyReadOnly() bool {
	if a.deps.Executor.ReadOnly() {
		a.setStatus("read-only mode: actions are disabled", true)
		return true
	}
	return false
}

func (a *App) toggleAllCollapsed() {
	if a.current == nil {
		return
	}
	if len(a.opts.Collapsed) > 0 {
		a.opts.Collapsed = model.Marks{}
	} else {
		for _, pid := range a.current.Parents() {
			if n, ok := a.current.Node(pid); ok {
				a.opts.Collapsed.Add(&n)
			}
		}
	}
	a.rearrange()
}

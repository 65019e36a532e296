package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/prefs"
	"github.com/readyverse/rvshowroom/internal/showroom"
	"github.com/readyverse/rvshowroom/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// inputMode tells what the command bar input is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputDeepLink
)

// Client is the part of the showroom client the browser uses.
type Client interface {
	showroom.DetailsGetter
	Search(ctx context.Context, query string) ([]showroom.Summary, error)
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     Client
	Dispatcher *deeplink.Dispatcher
	Store      *state.Store
	BaseURL    string
	LogPath    string
	ThemeName  string
	ShowLog    bool
	PrefsPath  string
	PollTick   time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	client     Client
	dispatcher *deeplink.Dispatcher
	store      *state.Store
	baseURL    string
	logPath    string
	prefsPath  string
	pollTick   time.Duration
	keys       keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	seenLoad time.Time

	// List state
	selectedRow   int
	searchQuery   string
	searchResults []showroom.Summary
	searching     bool

	// Detail state
	detailViewport viewport.Model
	loadingID      string

	// Command bar input
	input     textinput.Model
	inputMode inputMode

	// Log pane
	showLog  bool
	logLines []string
	logErr   error

	spinner spinner.Model
	help    help.Model

	// Footer message
	status    string
	statusErr bool
	statusAt  time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	input := textinput.New()
	input.CharLimit = 2048

	return Model{
		ctx:            ctx,
		client:         opts.Client,
		dispatcher:     opts.Dispatcher,
		store:          store,
		baseURL:        opts.BaseURL,
		logPath:        opts.LogPath,
		prefsPath:      prefsPath,
		pollTick:       pollTick,
		keys:           DefaultKeyMap(),
		theme:          GetTheme(themeName),
		currentView:    ViewList,
		showLog:        opts.ShowLog,
		input:          input,
		detailViewport: viewport.New(0, 0),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:           help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		fetchSnapshotCmd(m.store),
		m.spinner.Tick,
	}
	if m.showLog && m.logPath != "" {
		cmds = append(cmds, tailLogCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.Width = max(msg.Width-20, 10)
		m.resizeDetail()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case detailMsg:
		if msg.id == m.loadingID {
			m.loadingID = ""
		}
		return m, fetchSnapshotCmd(m.store)

	case searchMsg:
		if msg.query != m.searchQuery {
			return m, nil // superseded by a newer search
		}
		m.searching = false
		if msg.err != nil {
			m.setStatus("Search failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.searchResults = msg.results
		m.selectedRow = 0
		return m, nil

	case dispatchMsg:
		if msg.err != nil {
			m.setStatus("Deep link rejected: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus("Deep link accepted", false)
		return m, fetchSnapshotCmd(m.store)

	case logMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshDetail()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		m.savePrefs()
		m.resizeDetail()
		if m.showLog && m.logPath != "" {
			return m, tailLogCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.openInput(inputSearch, m.searchQuery)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.DeepLink):
		m.openInput(inputDeepLink, "")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.currentView == ViewDetail:
			m.currentView = ViewList
		case m.searchQuery != "":
			m.clearSearch()
		}
		return m, nil
	}

	if m.currentView == ViewDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handleListKey moves the selection and opens the selected showroom.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleShowrooms()
	count := len(items)
	if count == 0 {
		return m, nil
	}
	half := max(m.contentHeight()/2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(m.selectedRow+half, count-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(m.selectedRow-half, 0)
	case key.Matches(msg, m.keys.Open):
		m.selectedRow = min(m.selectedRow, count-1)
		return m.openShowroom(items[m.selectedRow].ID)
	}
	return m, nil
}

// handleDetailKey scrolls the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfViewUp()
	case key.Matches(msg, m.keys.Refresh):
		if m.snapshot.HasLoaded {
			return m.openShowroom(m.snapshot.Loaded.ID)
		}
	}
	return m, nil
}

// handleInputKey feeds the command bar input until it is submitted or
// cancelled.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		mode := m.inputMode
		value := m.input.Value()
		m.closeInput()
		if mode == inputSearch {
			return m.runSearch(value)
		}
		return m.runDeepLink(value)
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}
	if m.showLog && m.logPath != "" {
		cmds = append(cmds, tailLogCmd(m.logPath))
	}
	if m.status != "" && time.Since(m.statusAt) > StatusTTL {
		m.status = ""
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot stores the latest snapshot and switches to the detail view
// when a new showroom finished loading.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if count := len(m.visibleShowrooms()); m.selectedRow >= count {
		m.selectedRow = max(count-1, 0)
	}

	if !snap.LoadedAt.After(m.seenLoad) {
		return
	}
	m.seenLoad = snap.LoadedAt
	if snap.LoadErr != nil {
		m.setStatus("Load failed: "+snap.LoadErr.Error(), true)
		return
	}
	m.currentView = ViewDetail
	m.refreshDetail()
	m.detailViewport.GotoTop()
	m.setStatus("Opened "+snap.Loaded.DisplayName()+" ("+string(snap.LoadSource)+")", false)
}

// openShowroom starts an asynchronous detail lookup for id.
func (m Model) openShowroom(id string) (tea.Model, tea.Cmd) {
	if m.client == nil {
		m.setStatus("No showroom client configured", true)
		return m, nil
	}
	m.loadingID = id
	return m, fetchDetailCmd(m.ctx, m.client, m.store, id)
}

// runSearch replaces the list with search results. A blank query returns
// to the full list.
func (m Model) runSearch(query string) (tea.Model, tea.Cmd) {
	if query == "" || m.client == nil {
		m.clearSearch()
		return m, nil
	}
	m.searchQuery = query
	m.searching = true
	return m, searchCmd(m.ctx, m.client, query)
}

// runDeepLink hands a pasted rvshowroom:// link to the dispatcher.
func (m Model) runDeepLink(raw string) (tea.Model, tea.Cmd) {
	if m.dispatcher == nil {
		m.setStatus("Deep links are not available", true)
		return m, nil
	}
	if raw == "" {
		return m, nil
	}
	return m, dispatchCmd(m.ctx, m.dispatcher, raw)
}

func (m *Model) openInput(mode inputMode, value string) {
	m.inputMode = mode
	switch mode {
	case inputSearch:
		m.input.Prompt = "/"
		m.input.Placeholder = "name, company or genre"
	case inputDeepLink:
		m.input.Prompt = "link: "
		m.input.Placeholder = deeplink.Prefix + "?projectId=..."
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchResults = nil
	m.searching = false
	m.selectedRow = 0
}

// visibleShowrooms returns the search results while a search is active and
// the polled list otherwise.
func (m Model) visibleShowrooms() []showroom.Summary {
	if m.searchQuery != "" {
		return m.searchResults
	}
	return m.snapshot.Showrooms
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	m.statusAt = time.Now()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowLog: m.showLog}); err != nil {
		m.setStatus("Save preferences: "+err.Error(), true)
	}
}

// busy reports whether any request started by the user is in flight.
func (m Model) busy() bool {
	if m.searching || m.loadingID != "" {
		return true
	}
	return m.dispatcher != nil && len(m.dispatcher.Pending()) > 0
}

// Run starts the Bubble Tea program. Cancelling opts.Context stops it
// without an error.
func Run(opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(New(opts), programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}

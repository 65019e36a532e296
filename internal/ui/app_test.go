package ui

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/logging"
	"github.com/readyverse/rvshowroom/internal/prefs"
	"github.com/readyverse/rvshowroom/internal/showroom"
	"github.com/readyverse/rvshowroom/internal/state"
)

type fakeClient struct {
	details  map[string]showroom.Details
	results  []showroom.Summary
	err      error
	searched []string
}

func (f *fakeClient) GetShowroomByID(_ context.Context, id string, onComplete func(showroom.Details, error)) {
	d, ok := f.details[id]
	if !ok {
		onComplete(showroom.Details{}, errors.New("http 404"))
		return
	}
	onComplete(d, nil)
}

func (f *fakeClient) Search(_ context.Context, query string) ([]showroom.Summary, error) {
	f.searched = append(f.searched, query)
	return f.results, f.err
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return update(t, m, cmd())
}

func sampleList() []showroom.Summary {
	return []showroom.Summary{
		{ID: "1", Name: "Star Drift", CompanyName: "Orbit Works", ShowroomTier: "premium", BuildStatus: "live"},
		{ID: "2", Name: "Fast Lane", Genre: "Racing", BuildStatus: "beta"},
		{ID: "3", Slug: "deep-sea"},
	}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Store == nil {
		opts.Store = &state.Store{}
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return m
}

func withList(t *testing.T, m Model, list []showroom.Summary) Model {
	t.Helper()
	m.store.UpdateList(list, nil)
	m, _ = run(t, m, fetchSnapshotCmd(m.store))
	return m
}

func TestListNavigation(t *testing.T) {
	m := withList(t, newTestModel(t, Options{}), sampleList())

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, runes("j"))
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d, want 2 (clamped)", m.selectedRow)
	}
	m, _ = update(t, m, runes("g"))
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow after g = %d, want 0", m.selectedRow)
	}
	m, _ = update(t, m, runes("G"))
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow after G = %d, want 2", m.selectedRow)
	}

	// A shorter list clamps the selection.
	m = withList(t, m, sampleList()[:1])
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow after shrink = %d, want 0", m.selectedRow)
	}
}

func TestEnterOpensDetailThroughStore(t *testing.T) {
	client := &fakeClient{details: map[string]showroom.Details{
		"2": {Summary: showroom.Summary{ID: "2", Name: "Fast Lane", ShowroomLightingColorLinear: showroom.White}, TargetPlatforms: []string{"PC"}},
	}}
	m := withList(t, newTestModel(t, Options{Client: client}), sampleList())

	m, _ = update(t, m, runes("j"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.loadingID != "2" {
		t.Fatalf("loadingID = %q, want 2", m.loadingID)
	}

	m, cmd = run(t, m, cmd) // detailMsg
	if m.loadingID != "" {
		t.Fatalf("loadingID = %q after detail, want empty", m.loadingID)
	}
	m, _ = run(t, m, cmd) // snapshotMsg

	if m.currentView != ViewDetail {
		t.Fatalf("currentView = %v, want detail", m.currentView)
	}
	if m.snapshot.LoadSource != deeplink.SourceFetched {
		t.Fatalf("LoadSource = %q, want fetched", m.snapshot.LoadSource)
	}
	view := m.View()
	if !strings.Contains(view, "Fast Lane") || !strings.Contains(view, "#ffffff") {
		t.Fatalf("detail view missing name or color:\n%s", view)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewList {
		t.Fatalf("esc should return to list, got %v", m.currentView)
	}
}

func TestFailedLookupKeepsListAndReportsError(t *testing.T) {
	client := &fakeClient{}
	m := withList(t, newTestModel(t, Options{Client: client}), sampleList())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = run(t, m, cmd)
	m, _ = run(t, m, cmd)

	if m.currentView != ViewList {
		t.Fatalf("currentView = %v, want list", m.currentView)
	}
	if !m.statusErr || !strings.Contains(m.status, "404") {
		t.Fatalf("status = %q (err=%v), want load failure", m.status, m.statusErr)
	}
}

func TestDeepLinkInput(t *testing.T) {
	store := &state.Store{}
	d := deeplink.New(deeplink.Options{Logger: logging.Discard()})
	unsubscribe := d.OnShowroomLoaded(store.RecordLoad)
	defer unsubscribe()

	m := newTestModel(t, Options{Store: store, Dispatcher: d})

	payload := url.QueryEscape(`{"id":"9","name":"Inline Room","showroomLightingColor":"#ff0000"}`)
	link := deeplink.Prefix + "?showroomData=" + payload + "&action=open_showroom"

	m, _ = update(t, m, runes("o"))
	if m.inputMode != inputDeepLink {
		t.Fatalf("inputMode = %v, want deep link", m.inputMode)
	}
	m, _ = update(t, m, runes(link))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputMode != inputNone {
		t.Fatal("input should close on enter")
	}

	m, cmd = run(t, m, cmd) // dispatchMsg
	if m.statusErr {
		t.Fatalf("unexpected error status %q", m.status)
	}
	m, _ = run(t, m, cmd) // snapshotMsg

	if m.currentView != ViewDetail || m.snapshot.Loaded.Name != "Inline Room" {
		t.Fatalf("view = %v loaded = %q, want detail of Inline Room", m.currentView, m.snapshot.Loaded.Name)
	}
	if m.snapshot.LoadSource != deeplink.SourceEmbedded {
		t.Fatalf("LoadSource = %q, want embedded", m.snapshot.LoadSource)
	}
}

func TestDeepLinkRejected(t *testing.T) {
	d := deeplink.New(deeplink.Options{Logger: logging.Discard()})
	m := newTestModel(t, Options{Dispatcher: d})

	m, _ = update(t, m, runes(":"))
	m, _ = update(t, m, runes("https://example.com"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = run(t, m, cmd)

	if !m.statusErr || !strings.Contains(m.status, "invalid deep link format") {
		t.Fatalf("status = %q, want rejection", m.status)
	}
}

func TestInputEscapeCancels(t *testing.T) {
	m := newTestModel(t, Options{Client: &fakeClient{}})

	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, runes("e")) // typed, not quit
	if m.input.Value() != "e" {
		t.Fatalf("input = %q, want e", m.input.Value())
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.inputMode != inputNone || cmd != nil {
		t.Fatal("esc should close the input without a command")
	}
}

func TestSearch(t *testing.T) {
	client := &fakeClient{results: []showroom.Summary{{ID: "7", Name: "Drifter"}}}
	m := withList(t, newTestModel(t, Options{Client: client}), sampleList())

	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, runes("drift"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.searching {
		t.Fatal("search should be in flight")
	}
	m, _ = run(t, m, cmd)

	got := m.visibleShowrooms()
	if len(got) != 1 || got[0].ID != "7" {
		t.Fatalf("visibleShowrooms = %+v, want search results", got)
	}
	if len(client.searched) != 1 || client.searched[0] != "drift" {
		t.Fatalf("searched = %v", client.searched)
	}

	// Results of a superseded query are dropped.
	m, _ = update(t, m, searchMsg{query: "old", results: nil})
	if len(m.visibleShowrooms()) != 1 {
		t.Fatal("stale search result replaced current results")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.searchQuery != "" || len(m.visibleShowrooms()) != 3 {
		t.Fatalf("esc should clear search, got query %q and %d rows", m.searchQuery, len(m.visibleShowrooms()))
	}
}

func TestSearchFailureShowsStatus(t *testing.T) {
	client := &fakeClient{err: errors.New("network error")}
	m := newTestModel(t, Options{Client: client})

	next, cmd := m.runSearch("x")
	m, _ = run(t, next.(Model), cmd)
	if !m.statusErr || !strings.Contains(m.status, "network error") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{ThemeName: "Nightfox", PrefsPath: path})

	m, _ = update(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if got := prefs.Load(path); got.Theme != "Kanagawa" || got.ShowLog {
		t.Fatalf("saved prefs = %+v", got)
	}
}

func TestToggleLogPane(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "rv.log")
	content := "time=1 level=INFO msg=start\ntime=2 level=ERROR msg=\"load failed\"\n"
	if err := os.WriteFile(logPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	prefsPath := filepath.Join(dir, "prefs.toml")
	m := newTestModel(t, Options{LogPath: logPath, PrefsPath: prefsPath})
	fullHeight := m.contentHeight()

	m, cmd := update(t, m, runes("l"))
	if !m.showLog {
		t.Fatal("log pane should be visible")
	}
	if m.contentHeight() != fullHeight-LogPaneHeight-1 {
		t.Fatalf("contentHeight = %d, want %d", m.contentHeight(), fullHeight-LogPaneHeight-1)
	}
	if !prefs.Load(prefsPath).ShowLog {
		t.Fatal("ShowLog not saved")
	}

	m, _ = run(t, m, cmd)
	if len(m.logLines) != 2 {
		t.Fatalf("logLines = %v", m.logLines)
	}
	if !strings.Contains(m.View(), "load failed") {
		t.Fatal("log pane should show the tail")
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = update(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help should be shown")
	}
	m, cmd := update(t, m, runes("e"))
	if m.showHelp || cmd != nil {
		t.Fatal("any key should only close help")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := update(t, m, runes("e"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("e should quit")
	}
}

func TestHeaderShowsConnectionState(t *testing.T) {
	m := newTestModel(t, Options{BaseURL: "https://api.example.com"})
	if !strings.Contains(m.View(), "Connecting") {
		t.Fatal("expected connecting state before the first refresh")
	}

	m.store.UpdateList(nil, errors.New("boom"))
	m.store.UpdateList(nil, errors.New("boom"))
	m, _ = run(t, m, fetchSnapshotCmd(m.store))

	view := m.View()
	if !strings.Contains(view, "Offline") || !strings.Contains(view, "https://api.example.com") {
		t.Fatalf("header missing offline state or base url:\n%s", view)
	}
}

func TestListRendersRowsAndBadges(t *testing.T) {
	m := withList(t, newTestModel(t, Options{}), sampleList())
	view := m.View()
	for _, want := range []string{"NAME", "Star Drift", "Orbit Works", "deep-sea", "premium", "beta"} {
		if !strings.Contains(view, want) {
			t.Fatalf("list view missing %q:\n%s", want, view)
		}
	}
}

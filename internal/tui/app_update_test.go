package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bricktrack/internal/app"
	"bricktrack/internal/model"
	"bricktrack/internal/repository"
	"bricktrack/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

type manualTicker struct {
	mu sync.Mutex
	ch chan time.Time
}

func (m *manualTicker) ticker() (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ch = make(chan time.Time)
	return m.ch, func() {}
}

func (m *manualTicker) channel() chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ch
}

type harness struct {
	shell  *app.App
	ticks  *TickSource
	ticker *manualTicker
}

func newHarness(t *testing.T, lang string) (App, *harness) {
	t.Helper()
	h := &harness{ticks: NewTickSource(), ticker: &manualTicker{}}
	h.shell = app.New(app.Options{
		Repo:     repository.Load(nil, repository.Options{}),
		Language: lang,
		Ticker:   h.ticker.ticker,
		OnTick:   h.ticks.Notify,
	})
	t.Cleanup(func() { _ = h.shell.Close() })

	m, _ := NewApp(h.shell, Options{Ticks: h.ticks}).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App), h
}

// tick advances the running timer by n seconds through the program's tick path.
func (h *harness) tick(t *testing.T, m App, n int) App {
	t.Helper()
	for i := 0; i < n; i++ {
		h.ticker.channel() <- time.Now()
		msg := h.ticks.wait()()
		if _, ok := msg.(TickMsg); !ok {
			t.Fatalf("wait()=%T, want TickMsg", msg)
		}
		next, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatal("TickMsg should re-arm the tick listener")
		}
		m = next.(App)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m App, keys ...string) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(App)
	}
	return m, cmd
}

func TestAppUpdate_CreateFromModal(t *testing.T) {
	m, h := newHarness(t, "en")
	m, cmd := press(m, "n")
	if m.mode != modeModal || cmd == nil {
		t.Fatalf("mode=%v cmd=%v, want modal with blink", m.mode, cmd)
	}
	m, _ = press(m, "tab", "tab")
	if m.modal.focus != fieldName {
		t.Fatalf("focus=%v, want name", m.modal.focus)
	}
	m, _ = press(m, "Castle")
	m.modal.inputs[fieldPieces].SetValue("200")
	m.modal.inputs[fieldBags].SetValue("2")
	m, _ = press(m, "enter")

	if m.mode != modeBrowse {
		t.Fatalf("mode=%v, want browse", m.mode)
	}
	set, ok := h.shell.Active()
	if !ok || set.Name != "Castle" || set.TotalPieces != 200 || set.TotalBags != 2 {
		t.Fatalf("active=%+v ok=%v", set, ok)
	}
	if !strings.Contains(m.status, "Castle") || m.statusErr {
		t.Fatalf("status=%q err=%v", m.status, m.statusErr)
	}
}

func TestAppUpdate_ModalEscDiscardsDraft(t *testing.T) {
	m, h := newHarness(t, "en")
	m, _ = press(m, "n", "tab", "tab", "Draft")
	m, _ = press(m, "esc")
	if m.mode != modeBrowse || len(h.shell.Sets()) != 0 {
		t.Fatalf("mode=%v sets=%d", m.mode, len(h.shell.Sets()))
	}
	if h.shell.Draft() != (model.Draft{}) {
		t.Fatalf("draft=%+v, want empty", h.shell.Draft())
	}
}

func TestAppUpdate_TimerFlow(t *testing.T) {
	m, h := newHarness(t, "en")
	h.shell.CreateSet(model.Draft{Name: "Castle", TotalPieces: "200", TotalBags: "2"})

	m, _ = press(m, "space")
	if h.shell.TimerSnapshot().State != timer.Running {
		t.Fatalf("state=%v, want running", h.shell.TimerSnapshot().State)
	}
	m = h.tick(t, m, 3)
	m, _ = press(m, "enter")
	if m.status != "Bag 1 logged in 3s" {
		t.Fatalf("status=%q", m.status)
	}
	set, _ := h.shell.Active()
	if len(set.Sessions) != 1 || set.Sessions[0].DurationInSeconds != 3 {
		t.Fatalf("sessions=%+v", set.Sessions)
	}

	m, _ = press(m, "enter")
	if !m.statusErr {
		t.Fatalf("zero-second finish should report an error, status=%q", m.status)
	}

	m, _ = press(m, "+", "+", "-")
	if got := h.shell.TimerSnapshot().BagNumber; got != 3 {
		t.Fatalf("bag=%d, want 3", got)
	}
	m, _ = press(m, "space")
	m = h.tick(t, m, 2)
	m, _ = press(m, "r")
	if s := h.shell.TimerSnapshot(); s.State != timer.Idle || s.Seconds != 0 {
		t.Fatalf("after reset: %+v", s)
	}
}

func TestAppUpdate_CompletedSetHidesTimer(t *testing.T) {
	m, h := newHarness(t, "en")
	h.shell.CreateSet(model.Draft{Name: "Tiny", TotalBags: "1"})
	m, _ = press(m, "space")
	m = h.tick(t, m, 1)
	m, _ = press(m, "enter")

	if h.shell.TimerVisible() {
		t.Fatal("timer should be hidden for a completed set")
	}
	if strings.Contains(m.View(), strings.ToUpper(h.shell.T("timer.title"))) {
		t.Fatal("timer panel rendered for a completed set")
	}
	m, _ = press(m, "space")
	if h.shell.TimerSnapshot().State != timer.Idle {
		t.Fatal("space should do nothing without a visible timer")
	}
}

func TestAppUpdate_DeleteConfirm(t *testing.T) {
	m, h := newHarness(t, "fr")
	set, _ := h.shell.CreateSet(model.Draft{Name: "Castle"})

	m, _ = press(m, "d")
	if m.mode != modeConfirm || !strings.Contains(m.View(), "Castle") {
		t.Fatalf("mode=%v, want confirm prompt", m.mode)
	}
	m, _ = press(m, "n")
	if m.mode != modeBrowse || len(h.shell.Sets()) != 1 {
		t.Fatal("cancel should keep the set")
	}

	m, _ = press(m, "d", "o")
	if m.mode != modeBrowse || len(h.shell.Sets()) != 0 {
		t.Fatalf("sets=%d, want 0", len(h.shell.Sets()))
	}
	if h.shell.ActiveID() != "" {
		t.Fatalf("active=%q, want cleared (deleted %s)", h.shell.ActiveID(), set.ID)
	}
}

func TestAppUpdate_GalleryOpensSet(t *testing.T) {
	m, h := newHarness(t, "en")
	older, _ := h.shell.CreateSet(model.Draft{Name: "Older"})
	h.shell.CreateSet(model.Draft{Name: "Newer"})

	m, _ = press(m, "v")
	if h.shell.View() != app.ViewGallery {
		t.Fatalf("view=%v, want gallery", h.shell.View())
	}
	if m.cursor != 0 {
		t.Fatalf("cursor=%d, want 0 (active set first)", m.cursor)
	}
	m, _ = press(m, "j", "enter")
	if h.shell.View() != app.ViewTracker || h.shell.ActiveID() != older.ID {
		t.Fatalf("view=%v active=%q, want tracker/%s", h.shell.View(), h.shell.ActiveID(), older.ID)
	}
}

func TestAppUpdate_TrackerNavigationSelects(t *testing.T) {
	m, h := newHarness(t, "en")
	older, _ := h.shell.CreateSet(model.Draft{Name: "Older"})
	newer, _ := h.shell.CreateSet(model.Draft{Name: "Newer"})

	m, _ = press(m, "down")
	if h.shell.ActiveID() != older.ID {
		t.Fatalf("active=%q, want %s", h.shell.ActiveID(), older.ID)
	}
	m, _ = press(m, "k", "k")
	if h.shell.ActiveID() != newer.ID || m.cursor != 0 {
		t.Fatalf("active=%q cursor=%d", h.shell.ActiveID(), m.cursor)
	}
}

func TestAppUpdate_NavigationKeepsRunningTimer(t *testing.T) {
	m, h := newHarness(t, "en")
	h.shell.CreateSet(model.Draft{Name: "Older", TotalBags: "4"})
	h.shell.CreateSet(model.Draft{Name: "Newer", TotalBags: "4"})

	m, _ = press(m, "space")
	m = h.tick(t, m, 2)
	m, _ = press(m, "down", "k")
	if s := h.shell.TimerSnapshot(); s.State != timer.Running || s.Seconds != 2 {
		t.Fatalf("after moving the selection: %+v, want Running/2", s)
	}
	m = h.tick(t, m, 1)
	m, _ = press(m, "enter")
	if m.status != "Bag 1 logged in 3s" {
		t.Fatalf("status=%q", m.status)
	}
}

func TestAppUpdate_Insight(t *testing.T) {
	m, h := newHarness(t, "en")
	if _, cmd := press(m, "i"); cmd != nil {
		t.Fatal("insight without sets should not start a request")
	}

	h.shell.CreateSet(model.Draft{Name: "Castle"})
	m, cmd := press(m, "i")
	if cmd == nil || !m.insightLoading {
		t.Fatal("insight request not started")
	}
	if _, again := press(m, "i"); again != nil {
		t.Fatal("second request while loading should be ignored")
	}

	next, _ := m.Update(cmd())
	m = next.(App)
	if m.insightLoading || h.shell.Insight() != "Error analyzing stats." {
		t.Fatalf("loading=%v insight=%q", m.insightLoading, h.shell.Insight())
	}
	if !strings.Contains(m.View(), "MASTER BUILDER INSIGHTS") {
		t.Fatal("insight panel not rendered")
	}

	m, _ = press(m, "x")
	if h.shell.Insight() != "" || strings.Contains(m.View(), "MASTER BUILDER INSIGHTS") {
		t.Fatal("insight panel should close")
	}
}

func TestAppUpdate_SearchAndScanResults(t *testing.T) {
	m, h := newHarness(t, "en")
	m, _ = press(m, "n")

	m, cmd := press(m, "enter")
	if cmd != nil {
		t.Fatal("blank search should not start a request")
	}
	m, _ = press(m, "falcon")
	m, cmd = press(m, "enter")
	if cmd == nil || m.modal.busy != "modal.searching" {
		t.Fatalf("busy=%q, want searching", m.modal.busy)
	}

	next, _ := m.Update(SearchMsg{Result: &model.SearchResult{
		Draft:   model.Draft{Name: "Millennium Falcon", SetNumber: "75192", TotalPieces: "7541"},
		Sources: []model.Citation{{Title: "Official store listing page", URI: "https://example.com/75192"}},
	}})
	m = next.(App)
	if m.modal.busy != "" || m.modal.value(fieldName) != "Millennium Falcon" || m.modal.value(fieldPieces) != "7541" {
		t.Fatalf("modal not filled: busy=%q name=%q", m.modal.busy, m.modal.value(fieldName))
	}
	if len(h.shell.Sources()) != 1 || !strings.Contains(m.View(), "https://example.com/75192") {
		t.Fatal("sources not shown")
	}

	next, _ = m.Update(SearchMsg{})
	m = next.(App)
	if !m.modal.noteErr || m.modal.value(fieldName) != "Millennium Falcon" {
		t.Fatal("failed search should keep the fields and report")
	}

	next, _ = m.Update(ScanMsg{Err: errors.New("no such file")})
	m = next.(App)
	if !m.modal.noteErr || !strings.Contains(m.modal.note, "no such file") {
		t.Fatalf("note=%q", m.modal.note)
	}

	next, _ = m.Update(ScanMsg{Draft: &model.Draft{Theme: "Star Wars", TotalBags: "17"}})
	m = next.(App)
	if m.modal.value(fieldTheme) != "Star Wars" || m.modal.value(fieldName) != "Millennium Falcon" {
		t.Fatalf("scan merge: theme=%q name=%q", m.modal.value(fieldTheme), m.modal.value(fieldName))
	}

	m, _ = press(m, "esc")
	next, _ = m.Update(ScanMsg{Draft: &model.Draft{Name: "late"}})
	if next.(App).shell.Draft().Name != "" {
		t.Fatal("results arriving after the modal closed must be ignored")
	}
}

func TestAppUpdate_LanguageToggle(t *testing.T) {
	m, h := newHarness(t, "en")
	m, _ = press(m, "l")
	if h.shell.Language() != "fr" {
		t.Fatalf("language=%q, want fr", h.shell.Language())
	}
	if !strings.Contains(m.View(), strings.ToUpper(h.shell.T("queue.title"))) {
		t.Fatal("view not re-rendered in French")
	}
	press(m, "l")
	if h.shell.Language() != "en" {
		t.Fatalf("language=%q, want en", h.shell.Language())
	}
}

func TestAppUpdate_Quit(t *testing.T) {
	m, _ := newHarness(t, "en")
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestView_Tracker(t *testing.T) {
	m, h := newHarness(t, "en")
	if !strings.Contains(m.View(), "Select a project") {
		t.Fatal("empty tracker should ask for a selection")
	}
	h.shell.CreateSet(model.Draft{Name: "Castle", SetNumber: "10305", TotalPieces: "200", TotalBags: "4"})
	for i := 0; i < 2; i++ {
		m, _ = press(m, "space")
		m = h.tick(t, m, 2)
		m, _ = press(m, "enter")
	}
	m, _ = press(m, "space")
	m = h.tick(t, m, 1)

	out := m.View()
	for _, want := range []string{"BRICKTRACK", "BUILD QUEUE", "CASTLE", "#10305", "ACTIVE SESSION",
		"Building bag 3 of 4", "00:00:01", "Bag 1", "Bag 2", "In progress", "2/4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_HistoryNewestFirst(t *testing.T) {
	m, h := newHarness(t, "en")
	h.shell.CreateSet(model.Draft{Name: "Castle", TotalBags: "5"})
	for i := 0; i < 2; i++ {
		m, _ = press(m, "space")
		m = h.tick(t, m, i+1)
		m, _ = press(m, "enter")
	}
	set, _ := h.shell.Active()
	out := m.renderHistory(set, 60)
	first := strings.Index(out, "0m 2s")
	second := strings.Index(out, "0m 1s")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("history not newest first:\n%s", out)
	}
}

func TestView_Gallery(t *testing.T) {
	m, h := newHarness(t, "en")
	m, _ = press(m, "v")
	if !strings.Contains(m.View(), "Your archive is empty.") {
		t.Fatal("empty gallery message missing")
	}

	h.shell.SetView(app.ViewTracker)
	h.shell.CreateSet(model.Draft{Name: "Tiny", TotalPieces: "50", TotalBags: "1"})
	m, _ = press(m, "space")
	m = h.tick(t, m, 1)
	m, _ = press(m, "enter")
	h.shell.CreateSet(model.Draft{Name: "Big", TotalPieces: "1000", TotalBags: "10", Theme: "Icons"})

	m, _ = press(m, "v")
	out := m.View()
	for _, want := range []string{"MY COLLECTION", "1 sets completed · 1050 pieces", "TINY", "BIG", "EXPERT", "ICONS", "Completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("gallery missing %q:\n%s", want, out)
		}
	}
}

func TestTickSource(t *testing.T) {
	src := NewTickSource()
	src.Notify(timer.Snapshot{Seconds: 1})
	src.Notify(timer.Snapshot{Seconds: 2})
	msg := src.wait()()
	if tm, ok := msg.(TickMsg); !ok || tm.Seconds != 1 {
		t.Fatalf("wait()=%#v, want first tick", msg)
	}
	src.Close()
	if msg := src.wait()(); msg != nil {
		t.Fatalf("wait() after Close=%#v, want nil", msg)
	}
	var none *TickSource
	if none.wait() != nil {
		t.Fatal("nil source should not schedule a listener")
	}
}

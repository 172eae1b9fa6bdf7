package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bricktrack/internal/gateway"
	"bricktrack/internal/model"
	"bricktrack/internal/repository"
	"bricktrack/internal/storage"
	"bricktrack/internal/timer"
)

// manualTicker lets tests drive the timer one tick at a time.
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

type fixture struct {
	app    *App
	store  *storage.FileStore
	ticks  *manualTicker
	ticked chan timer.Snapshot
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{store: store, ticks: &manualTicker{}, ticked: make(chan timer.Snapshot, 8)}
	if opts.Repo == nil {
		opts.Repo = repository.Load(store, repository.Options{})
	}
	if opts.Store == nil {
		opts.Store = store
	}
	opts.Ticker = f.ticks.ticker
	opts.OnTick = func(s timer.Snapshot) { f.ticked <- s }
	f.app = New(opts)
	t.Cleanup(func() { _ = f.app.Close() })
	return f
}

func (f *fixture) run(t *testing.T, seconds int) {
	t.Helper()
	f.app.StartTimer()
	for i := 0; i < seconds; i++ {
		f.ticks.channel() <- time.Now()
		select {
		case <-f.ticked:
		case <-time.After(2 * time.Second):
			t.Fatal("tick not observed")
		}
	}
}

func TestCreateSelectsAndRebases(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	f.app.SetDraft(model.Draft{Name: "draft"})
	set, err := f.app.CreateSet(model.Draft{Name: "Castle", TotalPieces: "200", TotalBags: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if f.app.ActiveID() != set.ID {
		t.Fatalf("new set not selected")
	}
	if f.app.Draft() != (model.Draft{}) {
		t.Fatalf("draft not cleared: %+v", f.app.Draft())
	}
	if s := f.app.TimerSnapshot(); s.BagNumber != 1 || s.State != timer.Idle {
		t.Fatalf("timer=%+v, want Idle bag 1", s)
	}
}

func TestFinishBagScenario(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	set, _ := f.app.CreateSet(model.Draft{Name: "Castle", TotalPieces: "200", TotalBags: "2"})

	f.run(t, 3)
	logged, ok, err := f.app.FinishBag()
	if !ok || err != nil {
		t.Fatalf("FinishBag ok=%v err=%v", ok, err)
	}
	if logged != (LoggedBag{BagNumber: 1, Seconds: 3}) {
		t.Fatalf("logged=%+v, want bag 1 in 3s", logged)
	}
	got, _ := f.app.Active()
	if len(got.Sessions) != 1 || got.Sessions[0].BagNumber != 1 || got.Sessions[0].DurationInSeconds != 3 {
		t.Fatalf("sessions=%+v", got.Sessions)
	}
	if got.Status != model.StatusInProgress || !f.app.TimerVisible() {
		t.Fatalf("status=%s visible=%v", got.Status, f.app.TimerVisible())
	}
	if f.app.TimerSnapshot().BagNumber != 2 {
		t.Fatalf("working bag=%d, want 2", f.app.TimerSnapshot().BagNumber)
	}

	f.run(t, 2)
	f.app.FinishBag()
	got, _ = f.app.Active()
	if got.ID != set.ID || got.Status != model.StatusCompleted {
		t.Fatalf("status=%s, want COMPLETED", got.Status)
	}
	if f.app.TimerVisible() {
		t.Fatal("timer should be hidden once completed")
	}
}

func TestFinishBagRejections(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	if _, ok, _ := f.app.FinishBag(); ok {
		t.Fatal("FinishBag without selection should be rejected")
	}
	f.app.CreateSet(model.Draft{Name: "A"})
	f.app.StartTimer()
	if _, ok, _ := f.app.FinishBag(); ok {
		t.Fatal("FinishBag at 0s should be rejected")
	}
	set, _ := f.app.Active()
	if len(set.Sessions) != 0 {
		t.Fatalf("sessions=%+v, want none", set.Sessions)
	}
}

func TestSelectRebasesOnProgress(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	a, _ := f.app.CreateSet(model.Draft{Name: "A", TotalBags: "10"})
	f.app.SetBagNumber(4)
	f.run(t, 1)
	f.app.FinishBag()
	b, _ := f.app.CreateSet(model.Draft{Name: "B"})
	if f.app.ActiveID() != b.ID || f.app.TimerSnapshot().BagNumber != 1 {
		t.Fatalf("selection/bag after create: %q/%d", f.app.ActiveID(), f.app.TimerSnapshot().BagNumber)
	}
	f.app.Select(a.ID)
	if f.app.TimerSnapshot().BagNumber != 5 {
		t.Fatalf("bag=%d, want 5 after selecting A", f.app.TimerSnapshot().BagNumber)
	}
	if f.app.Select("missing") {
		t.Fatal("Select unknown should fail")
	}
	if f.app.ActiveID() != a.ID {
		t.Fatal("failed Select changed selection")
	}
}

func TestSelectKeepsRunningTimer(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	a, _ := f.app.CreateSet(model.Draft{Name: "A", TotalBags: "5"})
	f.run(t, 1)
	f.app.FinishBag()
	b, _ := f.app.CreateSet(model.Draft{Name: "B", TotalBags: "5"})

	f.run(t, 3)
	if !f.app.Select(a.ID) {
		t.Fatal("Select A failed")
	}
	s := f.app.TimerSnapshot()
	if s.State != timer.Running || s.Seconds != 3 || s.BagNumber != 2 {
		t.Fatalf("after select: %+v, want Running/3/bag 2", s)
	}

	f.app.Select(b.ID)
	f.run(t, 1)
	logged, ok, err := f.app.FinishBag()
	if !ok || err != nil || logged != (LoggedBag{BagNumber: 1, Seconds: 4}) {
		t.Fatalf("FinishBag=%+v, %v, %v, want bag 1 in 4s", logged, ok, err)
	}
	got, _ := f.app.Active()
	if got.ID != b.ID || len(got.Sessions) != 1 || got.Sessions[0].DurationInSeconds != 4 {
		t.Fatalf("B sessions=%+v", got.Sessions)
	}
}

func TestFinishBagRefusedOnCompletedSet(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	done, _ := f.app.CreateSet(model.Draft{Name: "Done", TotalBags: "1"})
	f.run(t, 1)
	f.app.FinishBag()
	f.app.CreateSet(model.Draft{Name: "Open", TotalBags: "3"})

	f.run(t, 2)
	f.app.Select(done.ID)
	if _, ok, _ := f.app.FinishBag(); ok {
		t.Fatal("FinishBag on a completed set should be rejected")
	}
	got, _ := f.app.Active()
	if len(got.Sessions) != 1 {
		t.Fatalf("completed set gained sessions: %+v", got.Sessions)
	}
	if s := f.app.TimerSnapshot(); s.Seconds != 2 {
		t.Fatalf("elapsed time lost: %+v", s)
	}
}

func TestDeleteActive(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	set, _ := f.app.CreateSet(model.Draft{Name: "A"})
	f.run(t, 2)
	if err := f.app.DeleteSet(set.ID); err != nil {
		t.Fatal(err)
	}
	if f.app.ActiveID() != "" {
		t.Fatal("selection should be cleared")
	}
	if s := f.app.TimerSnapshot(); s.State != timer.Idle || s.Seconds != 0 {
		t.Fatalf("timer not reset: %+v", s)
	}
	if err := f.app.DeleteSet("unknown"); err != nil {
		t.Fatal(err)
	}
}

func TestLanguagePersistence(t *testing.T) {
	f := newFixture(t, Options{DefaultLanguage: "fr"})
	if f.app.Language() != "fr" {
		t.Fatalf("Language=%q, want fr", f.app.Language())
	}
	if f.app.ToggleLanguage() != "en" {
		t.Fatal("toggle should switch to en")
	}
	data, err := f.store.Get(storage.LangKey)
	if err != nil || string(data) != "en" {
		t.Fatalf("stored lang=%q err=%v", data, err)
	}
	if f.app.T("view.gallery") != "Gallery" {
		t.Fatalf("T not following locale: %q", f.app.T("view.gallery"))
	}

	again := New(Options{Repo: repository.Load(f.store, repository.Options{}), Store: f.store, DefaultLanguage: "fr"})
	defer again.Close()
	if again.Language() != "en" {
		t.Fatalf("stored preference ignored: %q", again.Language())
	}

	forced := New(Options{Repo: repository.Load(f.store, repository.Options{}), Store: f.store, Language: "fr"})
	defer forced.Close()
	if forced.Language() != "fr" {
		t.Fatalf("forced language ignored: %q", forced.Language())
	}
}

func TestViewToggle(t *testing.T) {
	f := newFixture(t, Options{View: ViewGallery})
	if f.app.View() != ViewGallery {
		t.Fatalf("View=%q", f.app.View())
	}
	if f.app.ToggleView() != ViewTracker || f.app.ToggleView() != ViewGallery {
		t.Fatal("ToggleView broken")
	}
	if ParseView("GALLERY") != ViewGallery || ParseView("nope") != ViewTracker {
		t.Fatal("ParseView broken")
	}
}

type stubBackend struct {
	text    string
	sources []model.Citation
	err     error
}

func (s stubBackend) Name() string { return "stub" }
func (s stubBackend) Generate(context.Context, string) (string, error) {
	return s.text, s.err
}
func (s stubBackend) Identify(context.Context, string, []byte, string) (string, error) {
	return s.text, s.err
}
func (s stubBackend) Search(context.Context, string) (string, []model.Citation, error) {
	return s.text, s.sources, s.err
}

func TestAIJobsMergeIntoDraft(t *testing.T) {
	gw := gateway.New(gateway.Options{
		Backend:   stubBackend{text: `{"name":"Titanic","setNumber":"10294","totalPieces":9090,"totalBags":41}`, sources: []model.Citation{{Title: "t", URI: "u"}}},
		Tokenizer: gateway.NewHeuristicTokenizer(),
	})
	f := newFixture(t, Options{Gateway: gw, Language: "en"})
	if !f.app.AIAvailable() {
		t.Fatal("AI should be available")
	}
	f.app.SetDraft(model.Draft{Theme: "Icons", Name: "mine"})

	if !f.app.ApplySearch(f.app.SearchJob("titanic")(context.Background())) {
		t.Fatal("ApplySearch failed")
	}
	d := f.app.Draft()
	if d.Name != "Titanic" || d.Theme != "Icons" || d.TotalBags != "41" {
		t.Fatalf("draft=%+v", d)
	}
	if len(f.app.Sources()) != 1 {
		t.Fatalf("sources=%+v", f.app.Sources())
	}

	if f.app.ApplyScan(nil) {
		t.Fatal("nil scan should not apply")
	}
	if f.app.Draft() != d {
		t.Fatal("nil scan changed the draft")
	}

	f.app.SetInsight(f.app.InsightJob()(context.Background()))
	if f.app.Insight() == "" {
		t.Fatal("insight empty")
	}
	f.app.ClearInsight()
	if f.app.Insight() != "" {
		t.Fatal("ClearInsight failed")
	}
}

func TestAIJobsWithoutBackend(t *testing.T) {
	f := newFixture(t, Options{Language: "en"})
	if f.app.AIAvailable() {
		t.Fatal("no backend configured")
	}
	if got := f.app.InsightJob()(context.Background()); got != "Error analyzing stats." {
		t.Fatalf("insight=%q", got)
	}
	if f.app.SearchJob("x")(context.Background()) != nil {
		t.Fatal("search should be nil")
	}
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	jpg := filepath.Join(dir, "box.JPG")
	if err := os.WriteFile(jpg, []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	data, mimeType, err := ReadImage(jpg)
	if err != nil || len(data) != 6 || mimeType != "image/jpeg" {
		t.Fatalf("ReadImage=%d bytes %q err=%v", len(data), mimeType, err)
	}

	noext := filepath.Join(dir, "photo")
	if err := os.WriteFile(noext, []byte("\x89PNG\r\n\x1a\n0000"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, mimeType, _ := ReadImage(noext); mimeType != "image/png" {
		t.Fatalf("sniffed mime=%q, want image/png", mimeType)
	}

	if _, _, err := ReadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err=%v", err)
	}
	if _, _, err := ReadImage(" "); err == nil {
		t.Fatal("blank path should fail")
	}
}

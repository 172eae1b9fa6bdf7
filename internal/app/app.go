// Package app is the application shell shared by the terminal UI and the
// line shell. It owns the selection-driven timer, the new-set draft, the
// language preference and the insight panel, and routes every mutation of
// stored sets through the repository.
package app

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/gateway"
	"bricktrack/internal/i18n"
	"bricktrack/internal/logging"
	"bricktrack/internal/model"
	"bricktrack/internal/repository"
	"bricktrack/internal/storage"
	"bricktrack/internal/timer"

	"go.uber.org/zap"
)

// View is the main screen layout.
type View string

const (
	ViewTracker View = "tracker"
	ViewGallery View = "gallery"
)

// ParseView maps a name onto a View, defaulting to the tracker.
func ParseView(s string) View {
	if View(strings.ToLower(strings.TrimSpace(s))) == ViewGallery {
		return ViewGallery
	}
	return ViewTracker
}

// maxImageBytes bounds photos read for identification.
const maxImageBytes = 20 << 20

var ErrImageTooLarge = errors.New("image too large")

type Options struct {
	Repo    *repository.Repository
	Gateway *gateway.Gateway
	// Store persists the language preference. Optional.
	Store storage.Store
	// Language forces a locale and persists it.
	Language string
	// DefaultLanguage applies when nothing is stored.
	DefaultLanguage string
	View            View
	Ticker          timer.TickerFunc
	OnTick          func(timer.Snapshot)
	Logger          *zap.Logger
}

type App struct {
	repo  *repository.Repository
	gw    *gateway.Gateway
	store storage.Store
	timer *timer.Timer
	msgs  *i18n.I18n
	log   *zap.Logger

	view      View
	draft     model.Draft
	sources   []model.Citation
	insight   string
	commitErr error
}

func New(opts Options) *App {
	a := &App{
		repo:  opts.Repo,
		gw:    opts.Gateway,
		store: opts.Store,
		log:   logging.OrNop(opts.Logger),
		view:  ParseView(string(opts.View)),
	}
	if a.gw == nil {
		a.gw = gateway.New(gateway.Options{Logger: a.log})
	}
	a.timer = timer.New(timer.Options{
		Ticker:   opts.Ticker,
		OnTick:   opts.OnTick,
		OnCommit: a.appendSession,
		Logger:   a.log,
	})

	lang, persist := a.resolveLanguage(opts.Language, opts.DefaultLanguage)
	a.msgs = i18n.New(lang)
	if persist {
		a.persistLanguage()
	}
	return a
}

func (a *App) resolveLanguage(forced, fallback string) (string, bool) {
	if strings.TrimSpace(forced) != "" {
		return i18n.Normalize(forced), true
	}
	if a.store != nil {
		data, err := a.store.Get(storage.LangKey)
		if err == nil && strings.TrimSpace(string(data)) != "" {
			return i18n.Normalize(string(data)), false
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			a.log.Warn("failed to read language preference", zap.Error(err))
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return i18n.Normalize(fallback), false
	}
	return i18n.DetectLocale(), false
}

func (a *App) appendSession(seconds, bagNumber int) {
	_, a.commitErr = a.repo.AppendSession(a.repo.ActiveID(), bagNumber, seconds)
}

// T translates key in the current language.
func (a *App) T(key string, args ...any) string { return a.msgs.T(key, args...) }

// Language is the current two-letter locale.
func (a *App) Language() string { return a.msgs.Locale() }

// SetLanguage switches and persists the locale.
func (a *App) SetLanguage(lang string) string {
	a.msgs.SetLocale(lang)
	a.persistLanguage()
	return a.msgs.Locale()
}

// ToggleLanguage switches to the next supported locale.
func (a *App) ToggleLanguage() string {
	return a.SetLanguage(i18n.Next(a.Language()))
}

func (a *App) persistLanguage() {
	if a.store == nil {
		return
	}
	if err := a.store.Put(storage.LangKey, []byte(a.msgs.Locale())); err != nil {
		a.log.Error("failed to save language preference", zap.Error(err))
	}
}

// Sets lists every set, newest first.
func (a *App) Sets() []model.Set { return a.repo.List() }

// Stats aggregates the whole collection.
func (a *App) Stats() aggregate.GlobalStats { return aggregate.Global(a.repo.List()) }

// Active returns the selected set.
func (a *App) Active() (model.Set, bool) { return a.repo.Active() }

// ActiveID is the selected set's id, or "".
func (a *App) ActiveID() string { return a.repo.ActiveID() }

// Select changes the active set and points the working bag past its
// progress. A running or paused timer keeps its elapsed time. An empty id
// clears the selection.
func (a *App) Select(id string) bool {
	if !a.repo.Select(id) {
		return false
	}
	current := 0
	if set, ok := a.repo.Active(); ok {
		current = set.CurrentBag
	}
	a.timer.Rebase(current)
	a.log.Debug("selection changed", zap.String("id", id))
	return true
}

// CreateSet stores a set built from draft, selects it and clears the form.
func (a *App) CreateSet(draft model.Draft) (model.Set, error) {
	set, err := a.repo.Create(draft)
	a.Select(set.ID)
	a.ClearDraft()
	return set, err
}

// DeleteSet removes a set. Deleting the active set also resets the timer.
func (a *App) DeleteSet(id string) error {
	wasActive := id != "" && id == a.repo.ActiveID()
	err := a.repo.Delete(id)
	if wasActive {
		a.timer.Reset()
		a.timer.Rebase(0)
	}
	return err
}

// Timer controls.

func (a *App) TimerSnapshot() timer.Snapshot { return a.timer.Snapshot() }
func (a *App) StartTimer() bool { return a.timer.Start() }
func (a *App) PauseTimer() bool { return a.timer.Pause() }
func (a *App) ToggleTimer() timer.State { return a.timer.Toggle() }
func (a *App) ResetTimer() { a.timer.Reset() }
func (a *App) SetBagNumber(n int) { a.timer.SetBagNumber(n) }

// TimerVisible reports whether the timer panel applies: a set is selected
// and not yet completed.
func (a *App) TimerVisible() bool {
	set, ok := a.repo.Active()
	return ok && set.Status != model.StatusCompleted
}

// LoggedBag is what FinishBag committed.
type LoggedBag struct {
	BagNumber int
	Seconds   int
}

// FinishBag commits the timer into the active set and returns the bag and
// seconds actually logged. It reports false when no set is selected, the
// set is already completed or no time has elapsed; the error reports a
// failed save.
func (a *App) FinishBag() (LoggedBag, bool, error) {
	if !a.TimerVisible() {
		return LoggedBag{}, false, nil
	}
	a.commitErr = nil
	seconds, bag, ok := a.timer.Commit()
	if !ok {
		return LoggedBag{}, false, nil
	}
	return LoggedBag{BagNumber: bag, Seconds: seconds}, true, a.commitErr
}

// View and draft state.

func (a *App) View() View { return a.view }

func (a *App) SetView(v View) { a.view = v }

func (a *App) ToggleView() View {
	if a.view == ViewGallery {
		a.view = ViewTracker
	} else {
		a.view = ViewGallery
	}
	return a.view
}

func (a *App) Draft() model.Draft { return a.draft }

func (a *App) SetDraft(d model.Draft) { a.draft = d }

// Sources are the citations of the last search merged into the draft.
func (a *App) Sources() []model.Citation { return append([]model.Citation(nil), a.sources...) }

func (a *App) ClearDraft() {
	a.draft = model.Draft{}
	a.sources = nil
}

// AI jobs. Each job captures its inputs on the caller's goroutine and may run
// anywhere; its result is applied back with the matching Apply method.

// AIAvailable reports whether an AI backend is configured.
func (a *App) AIAvailable() bool { return a.gw.Available() }

// InsightJob snapshots the collection and language for an insight request.
func (a *App) InsightJob() func(context.Context) string {
	sets := a.repo.List()
	lang := a.Language()
	gw := a.gw
	return func(ctx context.Context) string {
		return gw.GenerateInsight(ctx, sets, lang)
	}
}

// ScanJob identifies a set from image bytes.
func (a *App) ScanJob(image []byte, mimeType string) func(context.Context) *model.Draft {
	gw := a.gw
	return func(ctx context.Context) *model.Draft {
		return gw.IdentifyFromImage(ctx, image, mimeType)
	}
}

// SearchJob looks a set up by text.
func (a *App) SearchJob(query string) func(context.Context) *model.SearchResult {
	gw := a.gw
	return func(ctx context.Context) *model.SearchResult {
		return gw.SearchByQuery(ctx, query)
	}
}

// ApplyScan merges identified fields into the draft. A nil result leaves
// the draft untouched and reports false.
func (a *App) ApplyScan(d *model.Draft) bool {
	if d == nil {
		return false
	}
	a.draft = a.draft.Merge(*d)
	return true
}

// ApplySearch merges a search result and its sources into the draft.
func (a *App) ApplySearch(r *model.SearchResult) bool {
	if r == nil {
		return false
	}
	a.draft = a.draft.Merge(r.Draft)
	a.sources = append([]model.Citation(nil), r.Sources...)
	return true
}

func (a *App) Insight() string { return a.insight }

func (a *App) SetInsight(text string) { a.insight = text }

func (a *App) ClearInsight() { a.insight = "" }

// ReadImage loads a photo for identification and guesses its MIME type from
// the extension, then from the content.
func ReadImage(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, "", errors.New("empty image path")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > maxImageBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// Close stops the timer and flushes the repository.
func (a *App) Close() error {
	a.timer.Close()
	return a.repo.Close()
}

// Package shell is a line-oriented front end to the application shell, for
// terminals where the full-screen UI is unwanted or unavailable.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/app"
	"bricktrack/internal/logging"
	"bricktrack/internal/model"
	"bricktrack/internal/timer"

	"github.com/chzyer/readline"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[90m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiBold   = "\x1b[1m"
)

type command struct {
	name  string
	usage string
}

var commands = []command{
	{"help", "help"},
	{"list", "list"},
	{"select", "select <n|id>"},
	{"new", "new [name] [#set] [pieces] [bags]"},
	{"delete", "delete"},
	{"bag", "bag <n>"},
	{"start", "start"},
	{"pause", "pause"},
	{"reset", "reset"},
	{"done", "done"},
	{"stats", "stats"},
	{"insight", "insight"},
	{"search", "search <query>"},
	{"scan", "scan <path>"},
	{"lang", "lang [en|fr]"},
	{"view", "view [tracker|gallery]"},
	{"quit", "quit"},
}

// Options configures a Shell.
type Options struct {
	// Color enables ANSI styling.
	Color  bool
	Logger *zap.Logger
}

// Shell reads commands and applies them to the application shell.
type Shell struct {
	app   *app.App
	in    LineInput
	out   io.Writer
	color bool
	log   *zap.Logger
}

func New(a *app.App, in LineInput, out io.Writer, opts Options) *Shell {
	return &Shell{
		app:   a,
		in:    in,
		out:   out,
		color: opts.Color,
		log:   logging.OrNop(opts.Logger),
	}
}

// Run reads and executes commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.println(s.paint(ansiBold, s.app.T("shell.welcome")))
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := s.in.ReadLine(s.prompt())
		if err != nil {
			switch {
			case errors.Is(err, readline.ErrInterrupt):
				s.println("")
				continue
			case errors.Is(err, io.EOF):
				s.println(s.app.T("shell.bye"))
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}
		if s.Execute(ctx, line) {
			s.println(s.app.T("shell.bye"))
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	set, ok := s.app.Active()
	if !ok {
		return "bricktrack> "
	}
	name := runewidth.Truncate(set.Name, 24, "…")
	if !s.app.TimerVisible() {
		return fmt.Sprintf("%s> ", name)
	}
	snap := s.app.TimerSnapshot()
	return fmt.Sprintf("%s [#%d %s %s]> ", name, snap.BagNumber, timer.Format(snap.Seconds), snap.State)
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	s.log.Debug("shell command", zap.String("cmd", name), zap.Int("args", len(args)))

	switch name {
	case "help", "?":
		s.help()
	case "list", "ls":
		s.list()
	case "select", "sel":
		s.selectSet(args)
	case "new", "add":
		s.newSet(args)
	case "delete", "rm":
		s.deleteActive()
	case "bag":
		s.bag(args)
	case "start":
		s.start()
	case "pause":
		s.pause()
	case "reset":
		s.app.ResetTimer()
		s.println(s.app.T("shell.reset"))
	case "done", "finish":
		s.done()
	case "stats":
		s.stats()
	case "insight":
		s.insight(ctx)
	case "search":
		s.search(ctx, rest)
	case "scan":
		s.scan(ctx, rest)
	case "lang":
		s.lang(args)
	case "view":
		s.view(args)
	case "quit", "exit", "q":
		return true
	default:
		s.println(s.paint(ansiRed, s.app.T("shell.unknown", name)))
	}
	return false
}

func (s *Shell) help() {
	width := 0
	for _, c := range commands {
		if w := runewidth.StringWidth(c.usage); w > width {
			width = w
		}
	}
	for _, c := range commands {
		s.printf("  %s  %s\n", runewidth.FillRight(c.usage, width), s.paint(ansiDim, s.app.T("cmd."+c.name)))
	}
}

func (s *Shell) list() {
	if s.app.View() == app.ViewGallery {
		st := s.app.Stats()
		s.println(s.paint(ansiBold, strings.ToUpper(s.app.T("gallery.title"))) + "  " +
			s.app.T("gallery.summary", st.CompletedSets, st.CollectionPieces))
	} else {
		s.println(s.paint(ansiBold, strings.ToUpper(s.app.T("queue.title"))))
	}
	WriteList(s.out, s.app.T, s.app.Sets(), s.app.ActiveID())
}

func (s *Shell) selectSet(args []string) {
	if len(args) == 0 {
		s.println(s.app.T("shell.usage", "select <n|id>"))
		return
	}
	target, ok := FindSet(s.app.Sets(), args[0])
	if !ok {
		s.println(s.app.T("shell.not_found", args[0]))
		return
	}
	s.app.Select(target.ID)
	s.println(s.app.T("shell.selected", target.Name))
}

func (s *Shell) newSet(args []string) {
	d := s.app.Draft().Merge(parseNewArgs(args))
	set, err := s.app.CreateSet(d)
	if err != nil {
		s.println(s.paint(ansiRed, s.app.T("error.save", err)))
		return
	}
	s.println(s.paint(ansiGreen, s.app.T("shell.created", set.Name)))
}

// parseNewArgs reads "name words... [#set] [pieces=N] [bags=N] [pieces] [bags]".
// A "#" token is the set number. Trailing integers fill the piece and bag
// counts the keyed forms left empty, in that order.
func parseNewArgs(args []string) model.Draft {
	var d model.Draft
	words := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case len(a) > 1 && a[0] == '#':
			d.SetNumber = a[1:]
		case strings.HasPrefix(strings.ToLower(a), "pieces="):
			d.TotalPieces = a[len("pieces="):]
		case strings.HasPrefix(strings.ToLower(a), "bags="):
			d.TotalBags = a[len("bags="):]
		default:
			words = append(words, a)
		}
	}

	var slots []*string
	if d.TotalPieces == "" {
		slots = append(slots, &d.TotalPieces)
	}
	if d.TotalBags == "" {
		slots = append(slots, &d.TotalBags)
	}
	var nums []string
	for len(words) > 0 && len(nums) < len(slots) {
		last := words[len(words)-1]
		if _, err := strconv.Atoi(last); err != nil {
			break
		}
		nums = append([]string{last}, nums...)
		words = words[:len(words)-1]
	}
	for i, n := range nums {
		*slots[i] = n
	}
	d.Name = strings.Join(words, " ")
	return d
}

func (s *Shell) deleteActive() {
	set, ok := s.app.Active()
	if !ok {
		s.println(s.app.T("shell.no_active"))
		return
	}
	answer, err := s.in.ReadLine(s.app.T("delete.confirm", set.Name) + " ")
	if err != nil {
		return
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "o", "oui":
	default:
		return
	}
	if err := s.app.DeleteSet(set.ID); err != nil {
		s.println(s.paint(ansiRed, s.app.T("error.save", err)))
		return
	}
	s.println(s.app.T("delete.done", set.Name))
}

func (s *Shell) bag(args []string) {
	if !s.requireTimer() {
		return
	}
	if len(args) == 0 {
		s.println(s.app.T("shell.usage", "bag <n>"))
		return
	}
	s.app.SetBagNumber(model.LeadingInt(args[0], 1))
	s.println(s.app.T("shell.bag_set", s.app.TimerSnapshot().BagNumber))
}

func (s *Shell) start() {
	if !s.requireTimer() {
		return
	}
	s.app.StartTimer()
	s.println(s.paint(ansiGreen, s.app.T("shell.started")))
}

func (s *Shell) pause() {
	if !s.requireTimer() {
		return
	}
	s.app.PauseTimer()
	s.println(s.app.T("shell.paused", timer.Format(s.app.TimerSnapshot().Seconds)))
}

func (s *Shell) done() {
	if !s.requireTimer() {
		return
	}
	logged, ok, err := s.app.FinishBag()
	switch {
	case err != nil:
		s.println(s.paint(ansiRed, s.app.T("error.save", err)))
	case !ok:
		s.println(s.paint(ansiYellow, s.app.T("timer.rejected")))
	default:
		s.println(s.paint(ansiGreen, s.app.T("timer.logged", logged.BagNumber, aggregate.FormatDuration(float64(logged.Seconds)))))
	}
}

// requireTimer reports whether a set is selected and still being built.
func (s *Shell) requireTimer() bool {
	set, ok := s.app.Active()
	if !ok {
		s.println(s.app.T("shell.no_active"))
		return false
	}
	if set.Status == model.StatusCompleted {
		s.println(s.app.T("status.COMPLETED"))
		return false
	}
	return true
}

func (s *Shell) stats() {
	WriteStats(s.out, s.app.T, s.app.Stats())
	set, ok := s.app.Active()
	if !ok {
		return
	}
	s.println("")
	WriteSet(s.out, s.app.T, set)
	if s.app.TimerVisible() {
		snap := s.app.TimerSnapshot()
		s.printf("%s: %s %d %s  %s (%s)\n", s.app.T("timer.title"), s.app.T("timer.bag"), snap.BagNumber,
			s.app.T("timer.of", set.TotalBags), timer.Format(snap.Seconds), snap.State)
	}
}

func (s *Shell) insight(ctx context.Context) {
	if len(s.app.Sets()) == 0 {
		s.println(s.app.T("queue.empty"))
		return
	}
	s.println(s.paint(ansiDim, s.app.T("insight.loading")))
	text := s.app.InsightJob()(ctx)
	s.app.SetInsight(text)
	s.println(s.paint(ansiBold, strings.ToUpper(s.app.T("insight.title"))))
	s.println(text)
}

func (s *Shell) search(ctx context.Context, query string) {
	if query == "" {
		s.println(s.app.T("shell.usage", "search <query>"))
		return
	}
	s.println(s.paint(ansiDim, s.app.T("modal.searching")))
	if !s.app.ApplySearch(s.app.SearchJob(query)(ctx)) {
		s.println(s.paint(ansiYellow, s.app.T("modal.search_failed")))
		return
	}
	s.printDraft()
	if sources := s.app.Sources(); len(sources) > 0 {
		s.println(s.app.T("modal.sources") + ":")
		for _, c := range sources {
			s.printf("  - %s %s\n", runewidth.Truncate(c.Title, 40, "…"), s.paint(ansiDim, c.URI))
		}
	}
}

func (s *Shell) scan(ctx context.Context, path string) {
	if path == "" {
		s.println(s.app.T("shell.usage", "scan <path>"))
		return
	}
	data, mimeType, err := app.ReadImage(path)
	if err != nil {
		s.println(s.paint(ansiRed, s.app.T("modal.read_failed", err.Error())))
		return
	}
	s.println(s.paint(ansiDim, s.app.T("modal.scanning")))
	if !s.app.ApplyScan(s.app.ScanJob(data, mimeType)(ctx)) {
		s.println(s.paint(ansiYellow, s.app.T("modal.scan_failed")))
		return
	}
	s.printDraft()
}

func (s *Shell) printDraft() {
	d := s.app.Draft()
	s.println(s.paint(ansiGreen, s.app.T("shell.found", d.Name)))
	s.println(s.app.T("shell.draft", d.Name, d.SetNumber, d.TotalPieces, d.TotalBags, d.Theme))
	if d.ImageURL != "" {
		s.println(s.app.T("detail.image") + ": " + d.ImageURL)
	}
	s.println(s.paint(ansiDim, s.app.T("shell.draft_hint")))
}

func (s *Shell) lang(args []string) {
	var lang string
	if len(args) == 0 {
		lang = s.app.ToggleLanguage()
	} else {
		lang = s.app.SetLanguage(args[0])
	}
	s.println(s.app.T("lang.switched", strings.ToUpper(lang)))
}

func (s *Shell) view(args []string) {
	if len(args) == 0 {
		s.app.ToggleView()
	} else {
		s.app.SetView(app.ParseView(args[0]))
	}
	s.println(s.app.T("shell.view", s.app.T("view."+string(s.app.View()))))
}

func (s *Shell) paint(code, text string) string {
	if !s.color {
		return text
	}
	return code + text + ansiReset
}

func (s *Shell) println(text string) { fmt.Fprintln(s.out, text) }

func (s *Shell) printf(format string, args ...any) { fmt.Fprintf(s.out, format, args...) }

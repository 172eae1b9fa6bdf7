package tui

import (
	"context"
	"strings"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/app"
	"bricktrack/internal/model"
	"bricktrack/internal/timer"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Tea Messages ---

// TickMsg 计时器跳动
// TickMsg carries a timer snapshot from the tick goroutine
type TickMsg timer.Snapshot

// InsightMsg AI 分析结果
// InsightMsg carries a finished insight (or its localized fallback)
type InsightMsg struct{ Text string }

// ScanMsg 拍照识别结果
// ScanMsg carries the identified draft; Err reports an unreadable photo
type ScanMsg struct {
	Draft *model.Draft
	Err   error
}

// SearchMsg 文本搜索结果
// SearchMsg carries a search result, nil when nothing was found
type SearchMsg struct{ Result *model.SearchResult }

type mode int

const (
	modeBrowse mode = iota
	modeModal
	modeConfirm
)

// insightHeight is the number of rendered insight lines shown at once.
const insightHeight = 8

// Options 配置 TUI
// Options configures the program
type Options struct {
	Ticks *TickSource
	Theme string
	// Context bounds AI requests. Defaults to context.Background.
	Context context.Context
}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 状态 / State
	shell          *app.App
	ticks          *TickSource
	ctx            context.Context
	mode           mode
	cursor         int
	modal          modal
	pendingID      string
	pendingName    string
	insightView    viewport.Model
	insightLoading bool
	status         string
	statusErr      bool

	// 配置 / Config
	theme Theme
	keys  KeyMap
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application around the shared shell
func NewApp(shell *app.App, opts Options) App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	a := App{
		shell:       shell,
		ticks:       opts.Ticks,
		ctx:         ctx,
		theme:       ThemeByName(opts.Theme),
		keys:        DefaultKeyMap(),
		insightView: viewport.New(80, insightHeight),
	}
	a.syncCursor()
	return a
}

func (a App) Init() tea.Cmd {
	return a.ticks.wait()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case TickMsg:
		return a, a.ticks.wait()

	case InsightMsg:
		a.insightLoading = false
		a.shell.SetInsight(msg.Text)
		a.refreshInsight()
		return a, nil

	case ScanMsg:
		if a.mode != modeModal {
			return a, nil
		}
		a.modal.busy = ""
		switch {
		case msg.Err != nil:
			a.modal.setNote(a.shell.T("modal.read_failed", msg.Err.Error()), true)
		case msg.Draft == nil:
			a.modal.setNote(a.shell.T("modal.scan_failed"), true)
		default:
			a.shell.SetDraft(a.modal.draft())
			a.shell.ApplyScan(msg.Draft)
			a.modal.fill(a.shell.Draft())
			a.modal.setNote(a.shell.T("shell.found", a.shell.Draft().Name), false)
		}
		return a, nil

	case SearchMsg:
		if a.mode != modeModal {
			return a, nil
		}
		a.modal.busy = ""
		if msg.Result == nil {
			a.modal.setNote(a.shell.T("modal.search_failed"), true)
			return a, nil
		}
		a.shell.SetDraft(a.modal.draft())
		a.shell.ApplySearch(msg.Result)
		a.modal.fill(a.shell.Draft())
		a.modal.setNote(a.shell.T("shell.found", a.shell.Draft().Name), false)
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case modeModal:
			return a.updateModal(msg)
		case modeConfirm:
			return a.updateConfirm(msg)
		default:
			return a.updateBrowse(msg)
		}
	}

	if a.mode == modeModal {
		var cmd tea.Cmd
		a.modal.inputs[a.modal.focus], cmd = a.modal.inputs[a.modal.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.setStatus("")
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Up):
		a.move(-1)
	case key.Matches(msg, a.keys.Down):
		a.move(1)

	case key.Matches(msg, a.keys.Toggle):
		if a.shell.TimerVisible() {
			a.shell.ToggleTimer()
		}

	case key.Matches(msg, a.keys.Finish):
		if a.shell.View() == app.ViewGallery {
			a.openCursorSet()
		} else {
			a.finishBag()
		}

	case key.Matches(msg, a.keys.Reset):
		if a.shell.TimerVisible() {
			a.shell.ResetTimer()
		}

	case key.Matches(msg, a.keys.BagUp):
		if a.shell.TimerVisible() {
			a.shell.SetBagNumber(a.shell.TimerSnapshot().BagNumber + 1)
		}
	case key.Matches(msg, a.keys.BagDown):
		if a.shell.TimerVisible() {
			a.shell.SetBagNumber(a.shell.TimerSnapshot().BagNumber - 1)
		}

	case key.Matches(msg, a.keys.New):
		return a.openModal()

	case key.Matches(msg, a.keys.Delete):
		a.askDelete()

	case key.Matches(msg, a.keys.Insight):
		return a.requestInsight()
	case key.Matches(msg, a.keys.Close):
		a.shell.ClearInsight()
		a.insightLoading = false

	case key.Matches(msg, a.keys.View):
		a.shell.ToggleView()
		a.syncCursor()

	case key.Matches(msg, a.keys.Lang):
		lang := a.shell.ToggleLanguage()
		a.setStatus(a.shell.T("lang.switched", strings.ToUpper(lang)))

	case key.Matches(msg, a.keys.PageUp):
		a.insightView.SetYOffset(a.insightView.YOffset - insightHeight/2)
	case key.Matches(msg, a.keys.PageDown):
		a.insightView.SetYOffset(a.insightView.YOffset + insightHeight/2)
	}
	return a, nil
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		if err := a.shell.DeleteSet(a.pendingID); err != nil {
			a.setError(a.shell.T("error.save", err))
		} else {
			a.setStatus(a.shell.T("delete.done", a.pendingName))
		}
		a.mode = modeBrowse
		a.pendingID, a.pendingName = "", ""
		a.syncCursor()
	case key.Matches(msg, a.keys.Cancel), msg.String() == "ctrl+c":
		a.mode = modeBrowse
		a.pendingID, a.pendingName = "", ""
	}
	return a, nil
}

func (a App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return a, tea.Quit
	case msg.String() == "esc":
		a.mode = modeBrowse
		a.shell.ClearDraft()
		return a, nil
	case key.Matches(msg, a.keys.NextField):
		a.modal.next()
		return a, nil
	case key.Matches(msg, a.keys.PrevField):
		a.modal.prev()
		return a, nil
	case key.Matches(msg, a.keys.Search):
		return a.search()
	case key.Matches(msg, a.keys.Scan):
		return a.scan()
	case key.Matches(msg, a.keys.Submit):
		switch a.modal.focus {
		case fieldSearch:
			return a.search()
		case fieldPhoto:
			return a.scan()
		}
		return a.createSet()
	}

	var cmd tea.Cmd
	a.modal.inputs[a.modal.focus], cmd = a.modal.inputs[a.modal.focus].Update(msg)
	return a, cmd
}

// --- 操作 / Actions ---

func (a *App) move(delta int) {
	sets := a.shell.Sets()
	if len(sets) == 0 {
		return
	}
	if a.shell.View() == app.ViewGallery {
		a.cursor = clamp(a.cursor+delta, 0, len(sets)-1)
		return
	}
	idx := indexOf(sets, a.shell.ActiveID())
	if idx < 0 {
		idx = 0
	} else {
		idx = clamp(idx+delta, 0, len(sets)-1)
	}
	if sets[idx].ID != a.shell.ActiveID() {
		a.shell.Select(sets[idx].ID)
	}
	a.cursor = idx
}

func (a *App) openCursorSet() {
	sets := a.shell.Sets()
	if a.cursor < 0 || a.cursor >= len(sets) {
		return
	}
	if sets[a.cursor].ID != a.shell.ActiveID() {
		a.shell.Select(sets[a.cursor].ID)
	}
	a.shell.SetView(app.ViewTracker)
}

func (a *App) syncCursor() {
	sets := a.shell.Sets()
	if idx := indexOf(sets, a.shell.ActiveID()); idx >= 0 {
		a.cursor = idx
	}
	a.cursor = clamp(a.cursor, 0, len(sets)-1)
}

func (a *App) finishBag() {
	if !a.shell.TimerVisible() {
		return
	}
	logged, ok, err := a.shell.FinishBag()
	switch {
	case err != nil:
		a.setError(a.shell.T("error.save", err))
	case !ok:
		a.setError(a.shell.T("timer.rejected"))
	default:
		a.setStatus(a.shell.T("timer.logged", logged.BagNumber, aggregate.FormatDuration(float64(logged.Seconds))))
	}
}

func (a *App) askDelete() {
	var target model.Set
	found := false
	if a.shell.View() == app.ViewGallery {
		sets := a.shell.Sets()
		if a.cursor >= 0 && a.cursor < len(sets) {
			target, found = sets[a.cursor], true
		}
	} else {
		target, found = a.shell.Active()
	}
	if !found {
		return
	}
	a.pendingID, a.pendingName = target.ID, target.Name
	a.mode = modeConfirm
}

func (a App) requestInsight() (tea.Model, tea.Cmd) {
	if len(a.shell.Sets()) == 0 || a.insightLoading {
		return a, nil
	}
	a.insightLoading = true
	a.refreshInsight()
	job := a.shell.InsightJob()
	ctx := a.ctx
	return a, func() tea.Msg {
		return InsightMsg{Text: job(ctx)}
	}
}

func (a App) openModal() (tea.Model, tea.Cmd) {
	a.shell.ClearDraft()
	a.modal = newModal(a.shell.T, a.shell.Draft())
	a.modal.setWidth(a.modalInputWidth())
	a.mode = modeModal
	return a, textinput.Blink
}

func (a App) search() (tea.Model, tea.Cmd) {
	query := a.modal.value(fieldSearch)
	if query == "" || a.modal.busy != "" {
		return a, nil
	}
	a.modal.busy = "modal.searching"
	a.modal.setNote("", false)
	job := a.shell.SearchJob(query)
	ctx := a.ctx
	return a, func() tea.Msg {
		return SearchMsg{Result: job(ctx)}
	}
}

func (a App) scan() (tea.Model, tea.Cmd) {
	path := a.modal.value(fieldPhoto)
	if path == "" || a.modal.busy != "" {
		return a, nil
	}
	a.modal.busy = "modal.scanning"
	a.modal.setNote("", false)
	shell := a.shell
	ctx := a.ctx
	return a, func() tea.Msg {
		data, mimeType, err := app.ReadImage(path)
		if err != nil {
			return ScanMsg{Err: err}
		}
		return ScanMsg{Draft: shell.ScanJob(data, mimeType)(ctx)}
	}
}

func (a App) createSet() (tea.Model, tea.Cmd) {
	set, err := a.shell.CreateSet(a.modal.draft())
	a.mode = modeBrowse
	if err != nil {
		a.setError(a.shell.T("error.save", err))
	} else {
		a.setStatus(a.shell.T("shell.created", set.Name))
	}
	a.syncCursor()
	return a, nil
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusErr = false
}

func (a *App) setError(text string) {
	a.status = text
	a.statusErr = true
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	w := a.width - 4
	if w < 20 {
		w = 20
	}
	a.insightView.Width = w
	a.insightView.Height = insightHeight
	a.refreshInsight()
	if a.mode == modeModal {
		a.modal.setWidth(a.modalInputWidth())
	}
}

func (a *App) refreshInsight() {
	content := a.shell.Insight()
	if a.insightLoading {
		content = a.shell.T("insight.loading")
	}
	a.insightView.SetContent(RenderMarkdown(content, a.insightView.Width))
	a.insightView.GotoTop()
}

func (a App) modalInputWidth() int {
	w := a.width - 30
	if w > 48 {
		w = 48
	}
	if w < 16 {
		w = 16
	}
	return w
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func indexOf(sets []model.Set, id string) int {
	if id == "" {
		return -1
	}
	for i := range sets {
		if sets[i].ID == id {
			return i
		}
	}
	return -1
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(shell *app.App, opts Options) error {
	p := tea.NewProgram(NewApp(shell, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch {
	case a.mode == modeModal:
		box := a.modal.view(a.shell.T, a.shell.Sources(), a.theme, a.width)
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, box)
	case a.shell.View() == app.ViewGallery:
		body = a.renderGallery(a.width, bodyHeight)
	default:
		body = a.renderTracker(a.width, bodyHeight)
	}

	body = clipLines(body, bodyHeight)
	body = lipgloss.NewStyle().Height(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

func (a App) renderHeader() string {
	title := a.theme.TitleStyle.Render("■ " + strings.ToUpper(a.shell.T("app.title")))

	tabs := []struct {
		view app.View
		name string
	}{
		{app.ViewTracker, a.shell.T("view.tracker")},
		{app.ViewGallery, a.shell.T("view.gallery")},
	}
	var parts []string
	for _, tab := range tabs {
		if tab.view == a.shell.View() {
			parts = append(parts, a.theme.BadgeStyle.Render(tab.name))
		} else {
			parts = append(parts, a.theme.LabelStyle.Padding(0, 1).Render(tab.name))
		}
	}

	var langs []string
	for _, l := range []string{"en", "fr"} {
		if l == a.shell.Language() {
			langs = append(langs, a.theme.ValueStyle.Render(strings.ToUpper(l)))
		} else {
			langs = append(langs, a.theme.MutedStyle.Render(strings.ToUpper(l)))
		}
	}

	left := title + "  " + strings.Join(parts, " ")
	right := strings.Join(langs, "|") + " "
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (a App) renderFooter() string {
	var status string
	switch {
	case a.mode == modeConfirm:
		status = a.theme.DangerStyle.Render(a.shell.T("delete.confirm", a.pendingName))
	case a.status != "" && a.statusErr:
		status = a.theme.ErrorStyle.Render(a.status)
	case a.status != "":
		status = a.theme.SuccessStyle.Render(a.status)
	}

	help := []string{"keys.nav", "keys.start", "keys.finish", "keys.reset", "keys.bag",
		"keys.new", "keys.delete", "keys.insight", "keys.view", "keys.lang", "keys.quit"}
	parts := make([]string, 0, len(help))
	for _, k := range help {
		parts = append(parts, a.shell.T(k))
	}
	bar := Truncate(" "+strings.Join(parts, " · "), a.width)
	return status + "\n" + a.theme.StatusBarStyle.Width(a.width).Render(bar)
}

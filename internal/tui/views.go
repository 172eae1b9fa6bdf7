package tui

import (
	"fmt"
	"strings"
	"time"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/model"
	"bricktrack/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

// defaultTheme labels sets saved without a theme.
const defaultTheme = "Expert"

// --- 追踪视图 / Tracker view ---

func (a App) renderTracker(width, height int) string {
	sections := []string{a.renderStats(width)}
	if a.insightLoading || a.shell.Insight() != "" {
		sections = append(sections, a.renderInsight(width))
	}
	remaining := height - lipgloss.Height(strings.Join(sections, "\n"))

	sets := a.shell.Sets()
	if width >= 96 {
		queueWidth := width / 3
		queue := a.renderQueue(sets, queueWidth, remaining)
		detail := a.renderDetail(width - queueWidth - 1)
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, queue, " ", detail))
	} else {
		queueHeight := remaining / 3
		if queueHeight < 4 {
			queueHeight = 4
		}
		sections = append(sections, a.renderQueue(sets, width, queueHeight), a.renderDetail(width))
	}
	return strings.Join(sections, "\n")
}

func (a App) renderStats(width int) string {
	st := a.shell.Stats()
	cards := []struct{ label, value string }{
		{a.shell.T("stats.total_time"), aggregate.FormatDuration(float64(st.TotalSeconds))},
		{a.shell.T("stats.sets_completed"), fmt.Sprintf("%d", st.CompletedSets)},
		{a.shell.T("stats.avg_bag"), aggregate.FormatDuration(st.AverageBagSeconds)},
		{a.shell.T("stats.ppm"), fmt.Sprintf("%.1f", st.PiecesPerMinute)},
	}
	w := (width - 2*len(cards)) / len(cards)
	if w < 10 {
		w = 10
	}
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := a.theme.LabelStyle.Render(Truncate(c.label, w-2)) + "\n" + a.theme.ValueStyle.Render(c.value)
		rendered = append(rendered, a.theme.CardStyle.Width(w).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a App) renderInsight(width int) string {
	title := a.theme.TitleStyle.Render(strings.ToUpper(a.shell.T("insight.title"))) +
		a.theme.MutedStyle.Render("  [x]")
	return a.theme.ActiveCardStyle.Width(width - 2).Render(title + "\n" + a.insightView.View())
}

func (a App) renderQueue(sets []model.Set, width, height int) string {
	inner := width - 4
	header := a.theme.HeaderStyle.Render(strings.ToUpper(a.shell.T("queue.title"))) +
		a.theme.MutedStyle.Render(fmt.Sprintf("  %d", len(sets)))

	if len(sets) == 0 {
		body := header + "\n\n" + a.theme.MutedStyle.Render(a.shell.T("queue.empty"))
		return a.theme.CardStyle.Width(width - 2).Render(body)
	}

	// Two lines per entry; keep the active entry in the window.
	capacity := (height - 4) / 2
	if capacity < 1 {
		capacity = 1
	}
	active := indexOf(sets, a.shell.ActiveID())
	start := 0
	if active >= capacity {
		start = active - capacity + 1
	}
	end := start + capacity
	if end > len(sets) {
		end = len(sets)
	}

	lines := []string{header}
	for i := start; i < end; i++ {
		s := sets[i]
		marker := "  "
		name := a.theme.ValueStyle.Render(Truncate(strings.ToUpper(s.Name), inner-2))
		if s.ID == a.shell.ActiveID() {
			marker = a.theme.TitleStyle.Render("▸ ")
			name = a.theme.TitleStyle.Render(Truncate(strings.ToUpper(s.Name), inner-2))
		}
		meta := fmt.Sprintf("%s · #%s · %d %s · %s", themeOf(s), s.SetNumber, s.TotalPieces,
			strings.ToLower(a.shell.T("detail.pieces")), a.shell.T("gallery.bags", len(s.Sessions), s.TotalBags))
		lines = append(lines, marker+name, "  "+a.theme.MutedStyle.Render(Truncate(meta, inner-2)))
	}
	if end < len(sets) {
		lines = append(lines, a.theme.MutedStyle.Render(fmt.Sprintf("  … +%d", len(sets)-end)))
	}
	return a.theme.CardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a App) renderDetail(width int) string {
	set, ok := a.shell.Active()
	if !ok {
		return a.theme.CardStyle.Width(width - 2).Render(
			"\n" + a.theme.MutedStyle.Render(a.shell.T("detail.select")) + "\n")
	}

	parts := []string{a.renderSetCard(set, width)}
	if a.shell.TimerVisible() {
		parts = append(parts, a.renderTimer(set, width))
	}
	if width >= 80 {
		half := width / 2
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
			a.renderChart(set, half), a.renderHistory(set, width-half)))
	} else {
		parts = append(parts, a.renderChart(set, width), a.renderHistory(set, width))
	}
	return strings.Join(parts, "\n")
}

func (a App) renderSetCard(set model.Set, width int) string {
	inner := width - 4
	title := a.theme.TitleStyle.Render(Truncate(strings.ToUpper(set.Name), inner))
	meta := []string{"#" + set.SetNumber, fmt.Sprintf("%d %s", set.TotalPieces, strings.ToUpper(a.shell.T("detail.pieces")))}
	if set.Theme != "" {
		meta = append(meta, set.Theme)
	}
	subtitle := a.theme.MutedStyle.Render(Truncate(strings.Join(meta, " · "), inner))

	total := aggregate.TotalDuration(set.Sessions)
	cells := []struct{ label, value string }{
		{a.shell.T("detail.status"), a.shell.T("status." + string(set.Status))},
		{a.shell.T("detail.time_log"), fmt.Sprintf("%dm", total/60)},
		{a.shell.T("detail.bags"), fmt.Sprintf("%d/%d", set.CurrentBag, set.TotalBags)},
		{a.shell.T("detail.speed"), a.shell.T("detail.speed_value", aggregate.SetPace(set))},
	}
	cellWidth := inner / len(cells)
	row := make([]string, 0, len(cells))
	for _, c := range cells {
		value := a.theme.ValueStyle.Render(c.value)
		if c.label == a.shell.T("detail.status") {
			value = a.statusStyle(set.Status).Render(c.value)
		}
		row = append(row, lipgloss.NewStyle().Width(cellWidth).Render(
			a.theme.LabelStyle.Render(Truncate(c.label, cellWidth-1))+"\n"+value))
	}

	body := title + "\n" + subtitle + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, row...)
	if set.Image != "" {
		body += "\n" + a.theme.MutedStyle.Render(Truncate(a.shell.T("detail.image")+": "+set.Image, inner))
	}
	return a.theme.CardStyle.Width(width - 2).Render(body)
}

func (a App) renderTimer(set model.Set, width int) string {
	snap := a.shell.TimerSnapshot()
	var state string
	switch snap.State {
	case timer.Running:
		state = a.theme.SuccessStyle.Render("● " + a.shell.T("timer.running"))
	case timer.Paused:
		state = a.theme.TimerStyle.Render("❚❚ " + a.shell.T("timer.paused"))
	default:
		state = a.theme.MutedStyle.Render("○ " + a.shell.T("timer.idle"))
	}
	head := a.theme.HeaderStyle.Render(strings.ToUpper(a.shell.T("timer.title"))) + "  " + state
	bag := fmt.Sprintf("%s %d %s", a.shell.T("timer.bag"), snap.BagNumber, a.shell.T("timer.of", set.TotalBags))
	clock := a.theme.TimerStyle.Render(timer.Format(snap.Seconds))
	line := a.theme.ValueStyle.Render(bag) + "    " + clock
	return a.theme.ActiveCardStyle.Width(width - 2).Render(head + "\n" + line)
}

func (a App) renderChart(set model.Set, width int) string {
	title := a.theme.HeaderStyle.Render(strings.ToUpper(a.shell.T("chart.title")))
	rows := aggregate.ChartRows(set.Sessions)
	var body string
	if len(rows) == 0 {
		body = a.theme.MutedStyle.Render(a.shell.T("chart.empty"))
	} else {
		label := func(bag int) string { return a.shell.T("chart.bar_label", bag) }
		body = RenderBarChart(rows, width-4, label, a.theme)
	}
	return a.theme.CardStyle.Width(width - 2).Render(title + "\n" + body)
}

func (a App) renderHistory(set model.Set, width int) string {
	title := a.theme.HeaderStyle.Render(strings.ToUpper(a.shell.T("history.title"))) +
		a.theme.MutedStyle.Render("  "+a.shell.T("history.entries", len(set.Sessions)))
	lines := []string{title}
	if len(set.Sessions) == 0 {
		lines = append(lines, a.theme.MutedStyle.Render(a.shell.T("history.empty")))
	}
	for i := len(set.Sessions) - 1; i >= 0; i-- {
		s := set.Sessions[i]
		d := s.DurationInSeconds
		entry := fmt.Sprintf("%s  %dm %ds  %s",
			a.theme.BadgeStyle.Render(fmt.Sprintf("%d", s.BagNumber)), d/60, d%60,
			a.theme.MutedStyle.Render(formatStamp(s.Timestamp)))
		lines = append(lines, entry+" "+a.theme.SuccessStyle.Render("✓"))
	}
	return a.theme.CardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// --- 收藏视图 / Gallery view ---

func (a App) renderGallery(width, height int) string {
	st := a.shell.Stats()
	header := a.theme.TitleStyle.Render(strings.ToUpper(a.shell.T("gallery.title"))) + "  " +
		a.theme.ValueStyle.Render(a.shell.T("gallery.summary", st.CompletedSets, st.CollectionPieces))

	sets := a.shell.Sets()
	if len(sets) == 0 {
		empty := a.theme.CardStyle.Width(width - 2).Render(
			"\n" + a.theme.MutedStyle.Render(a.shell.T("gallery.empty")) + "\n")
		return header + "\n\n" + empty
	}

	columns := width / 32
	if columns < 1 {
		columns = 1
	}
	cardWidth := width/columns - 2
	var rows []string
	for start := 0; start < len(sets); start += columns {
		end := start + columns
		if end > len(sets) {
			end = len(sets)
		}
		cards := make([]string, 0, columns)
		for i := start; i < end; i++ {
			cards = append(cards, a.renderGalleryCard(sets[i], cardWidth, i == a.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	// Keep the cursor's row on screen.
	cardRow := a.cursor / columns
	rowHeight := lipgloss.Height(rows[0])
	visible := (height - 2) / rowHeight
	if visible < 1 {
		visible = 1
	}
	first := 0
	if cardRow >= visible {
		first = cardRow - visible + 1
	}
	return header + "\n\n" + strings.Join(rows[first:], "\n")
}

func (a App) renderGalleryCard(set model.Set, width int, focused bool) string {
	inner := width - 2
	badges := a.theme.BadgeStyle.Render(Truncate(strings.ToUpper(themeOf(set)), inner/2)) + " " +
		a.theme.TimerStyle.Render("#"+set.SetNumber)
	if set.Status == model.StatusCompleted {
		badges += " " + a.theme.SuccessStyle.Render("🏆")
	}
	name := a.theme.ValueStyle.Render(Truncate(strings.ToUpper(set.Name), inner))
	pieces := a.theme.LabelStyle.Render(a.shell.T("detail.pieces")+" ") + fmt.Sprintf("%d", set.TotalPieces)
	status := a.statusStyle(set.Status).Render(a.shell.T("status." + string(set.Status)))
	bags := a.theme.MutedStyle.Render(a.shell.T("gallery.bags", set.CurrentBag, set.TotalBags))

	body := strings.Join([]string{badges, "", name, pieces, status + "  " + bags}, "\n")
	style := a.theme.CardStyle
	if focused {
		style = a.theme.ActiveCardStyle
	}
	return style.Width(width).Render(body)
}

func (a App) statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusCompleted:
		return a.theme.SuccessStyle.Bold(true)
	case model.StatusInProgress:
		return a.theme.TitleStyle
	default:
		return a.theme.LabelStyle
	}
}

func themeOf(set model.Set) string {
	if set.Theme == "" {
		return defaultTheme
	}
	return set.Theme
}

func formatStamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("Jan 2 15:04")
}

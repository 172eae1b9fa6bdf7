package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/model"

	"github.com/mattn/go-runewidth"
)

// Translate looks up a localized message.
type Translate func(key string, args ...any) string

const (
	maxNameWidth = 32
	chartWidth   = 30
)

// FindSet resolves ref as a 1-based position in sets or as a unique id prefix.
func FindSet(sets []model.Set, ref string) (model.Set, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(sets) {
			return sets[n-1], true
		}
		return model.Set{}, false
	}
	var match model.Set
	found := 0
	for _, set := range sets {
		if set.ID == ref {
			return set, true
		}
		if strings.HasPrefix(set.ID, ref) {
			match = set
			found++
		}
	}
	return match, found == 1
}

// WriteList prints one numbered line per set, newest first, marking activeID.
func WriteList(w io.Writer, t Translate, sets []model.Set, activeID string) {
	if len(sets) == 0 {
		fmt.Fprintln(w, t("queue.empty"))
		return
	}
	nameWidth := 0
	for _, set := range sets {
		if n := runewidth.StringWidth(set.Name); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}
	for i, set := range sets {
		marker := " "
		if set.ID == activeID {
			marker = "▸"
		}
		name := runewidth.FillRight(runewidth.Truncate(set.Name, nameWidth, "…"), nameWidth)
		fmt.Fprintf(w, "%s %2d. %s  #%-8s %-12s %s  %d %s\n", marker, i+1, name, set.SetNumber,
			t("status."+string(set.Status)),
			t("gallery.bags", len(set.Sessions), set.TotalBags),
			set.TotalPieces, strings.ToLower(t("detail.pieces")))
	}
}

// WriteStats prints the collection-wide stat cards.
func WriteStats(w io.Writer, t Translate, st aggregate.GlobalStats) {
	rows := [][2]string{
		{t("stats.total_time"), aggregate.FormatDuration(float64(st.TotalSeconds))},
		{t("stats.sets_completed"), fmt.Sprintf("%d / %d", st.CompletedSets, st.TotalSets)},
		{t("stats.avg_bag"), aggregate.FormatDuration(st.AverageBagSeconds)},
		{t("stats.ppm"), fmt.Sprintf("%.1f", st.PiecesPerMinute)},
		{t("stats.pieces"), fmt.Sprintf("%d", st.CompletedPieces)},
	}
	writeRows(w, rows)
}

// WriteSet prints a set's detail card, its per-bag chart and its history,
// newest session first.
func WriteSet(w io.Writer, t Translate, set model.Set) {
	fmt.Fprintf(w, "%s  #%s\n", strings.ToUpper(set.Name), set.SetNumber)
	total := aggregate.TotalDuration(set.Sessions)
	rows := [][2]string{
		{t("detail.status"), t("status." + string(set.Status))},
		{t("detail.pieces"), fmt.Sprintf("%d", set.TotalPieces)},
		{t("detail.bags"), fmt.Sprintf("%d/%d", set.CurrentBag, set.TotalBags)},
		{t("detail.time_log"), fmt.Sprintf("%dm", total/60)},
		{t("detail.speed"), t("detail.speed_value", aggregate.SetPace(set))},
	}
	if set.Theme != "" {
		rows = append(rows, [2]string{t("detail.theme"), set.Theme})
	}
	if set.Image != "" {
		rows = append(rows, [2]string{t("detail.image"), set.Image})
	}
	writeRows(w, rows)

	chart := aggregate.ChartRows(set.Sessions)
	if len(chart) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t("chart.title"))
		writeChart(w, t, chart)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s (%s)\n", t("history.title"), t("history.entries", len(set.Sessions)))
	if len(set.Sessions) == 0 {
		fmt.Fprintln(w, "  "+t("history.empty"))
	}
	for i := len(set.Sessions) - 1; i >= 0; i-- {
		sess := set.Sessions[i]
		fmt.Fprintf(w, "  #%-3d %dm %ds  %s\n", sess.BagNumber,
			sess.DurationInSeconds/60, sess.DurationInSeconds%60, sess.Timestamp)
	}
}

func writeChart(w io.Writer, t Translate, rows []aggregate.ChartRow) {
	labels := make([]string, len(rows))
	labelWidth := 0
	peak := 0.0
	for i, r := range rows {
		labels[i] = t("chart.bar_label", r.Bag)
		if n := runewidth.StringWidth(labels[i]); n > labelWidth {
			labelWidth = n
		}
		if r.Minutes > peak {
			peak = r.Minutes
		}
	}
	for i, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Minutes / peak * chartWidth)
		}
		if n == 0 && r.Seconds > 0 {
			n = 1
		}
		glyph := "▒"
		if i == len(rows)-1 {
			glyph = "█"
		}
		fmt.Fprintf(w, "  %s %s %.1fm\n", runewidth.FillRight(labels[i], labelWidth), strings.Repeat(glyph, n), r.Minutes)
	}
}

func writeRows(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		if n := runewidth.StringWidth(r[0]); n > width {
			width = n
		}
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(r[0], width), r[1])
	}
}

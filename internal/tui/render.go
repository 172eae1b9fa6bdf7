package tui

import (
	"fmt"
	"strings"

	"bricktrack/internal/aggregate"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// RenderBarChart 渲染每袋用时横向柱状图，最后一根高亮
// RenderBarChart draws one horizontal bar per bag, scaled to the slowest
// bag. The last bar uses the highlight style.
func RenderBarChart(rows []aggregate.ChartRow, width int, label func(bag int) string, theme Theme) string {
	if len(rows) == 0 {
		return ""
	}
	labels := make([]string, len(rows))
	labelWidth := 0
	peak := 0.0
	for i, r := range rows {
		labels[i] = label(r.Bag)
		if w := runewidth.StringWidth(labels[i]); w > labelWidth {
			labelWidth = w
		}
		if r.Minutes > peak {
			peak = r.Minutes
		}
	}

	barWidth := width - labelWidth - 10
	if barWidth < 4 {
		barWidth = 4
	}

	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Minutes / peak * float64(barWidth))
		}
		if n == 0 && r.Seconds > 0 {
			n = 1
		}
		style := theme.BarStyle
		if i == len(rows)-1 {
			style = theme.LastBarStyle
		}
		bar := style.Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s %s %sm",
			runewidth.FillRight(labels[i], labelWidth), bar, formatMinutes(r.Minutes)))
	}
	return strings.Join(lines, "\n")
}

func formatMinutes(m float64) string {
	s := fmt.Sprintf("%.1f", m)
	return strings.TrimSuffix(s, ".0")
}

// Truncate 按显示宽度截断字符串
// Truncate cuts s to width display cells, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

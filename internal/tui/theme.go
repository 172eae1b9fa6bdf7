package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme 定义 TUI 主题色彩和样式
// Theme defines TUI colors and styles
type Theme struct {
	// 基础色 / Base colors
	Brick   lipgloss.Color
	Stud    lipgloss.Color
	Success lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	TextDim lipgloss.Color
	Bg      lipgloss.Color
	Border  lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle      lipgloss.Style
	HeaderStyle     lipgloss.Style
	CardStyle       lipgloss.Style
	ActiveCardStyle lipgloss.Style
	LabelStyle      lipgloss.Style
	ValueStyle      lipgloss.Style
	BadgeStyle      lipgloss.Style
	TimerStyle      lipgloss.Style
	BarStyle        lipgloss.Style
	LastBarStyle    lipgloss.Style
	StatusBarStyle  lipgloss.Style
	ModalStyle      lipgloss.Style
	ErrorStyle      lipgloss.Style
	SuccessStyle    lipgloss.Style
	MutedStyle      lipgloss.Style
	DangerStyle     lipgloss.Style
}

// DarkTheme 暗色主题（默认）
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	return buildTheme(Theme{
		Brick:   lipgloss.Color("#EF4444"),
		Stud:    lipgloss.Color("#FBBF24"),
		Success: lipgloss.Color("#10B981"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#E5E7EB"),
		TextDim: lipgloss.Color("#9CA3AF"),
		Bg:      lipgloss.Color("#111827"),
		Border:  lipgloss.Color("#374151"),
	})
}

// LightTheme 亮色主题
// LightTheme mirrors the slate-on-white palette
func LightTheme() Theme {
	return buildTheme(Theme{
		Brick:   lipgloss.Color("#DC2626"),
		Stud:    lipgloss.Color("#D97706"),
		Success: lipgloss.Color("#059669"),
		Muted:   lipgloss.Color("#94A3B8"),
		Text:    lipgloss.Color("#0F172A"),
		TextDim: lipgloss.Color("#475569"),
		Bg:      lipgloss.Color("#F1F5F9"),
		Border:  lipgloss.Color("#CBD5E1"),
	})
}

// ThemeByName 根据名称选择主题
// ThemeByName picks "light" or falls back to the dark theme
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "light") {
		return LightTheme()
	}
	return DarkTheme()
}

func buildTheme(t Theme) Theme {
	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Brick).
		Bold(true)

	t.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Bold(true)

	t.CardStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.ActiveCardStyle = t.CardStyle.
		BorderForeground(t.Brick)

	t.LabelStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.ValueStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.BadgeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Brick).
		Padding(0, 1).
		Bold(true)

	t.TimerStyle = lipgloss.NewStyle().
		Foreground(t.Stud).
		Bold(true)

	t.BarStyle = lipgloss.NewStyle().
		Foreground(t.Stud)

	t.LastBarStyle = lipgloss.NewStyle().
		Foreground(t.Brick)

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Bg)

	t.ModalStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(t.Brick).
		Padding(1, 2)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Brick).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.DangerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Brick).
		Bold(true).
		Padding(0, 1)

	return t
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/reminder"
	"github.com/akyairhashvil/streakboard/internal/streak"
)

type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Header    lipgloss.Style
	Task      lipgloss.Style
	DoneTask  lipgloss.Style
	Overdue   lipgloss.Style
	Input     lipgloss.Style
	Focused   lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
}

type palette struct {
	text, dim, done, overdue, err string
}

var palettes = map[string]palette{
	config.ThemeDark:  {text: "252", dim: "240", done: "240", overdue: "203", err: "196"},
	config.ThemeLight: {text: "235", dim: "245", done: "248", overdue: "160", err: "124"},
}

// ThemeFor builds the theme for a mode and accent color. System mode
// follows the terminal background.
func ThemeFor(mode, accent string) Theme {
	if mode != config.ThemeLight && mode != config.ThemeDark {
		mode = config.ThemeLight
		if lipgloss.HasDarkBackground() {
			mode = config.ThemeDark
		}
	}
	p := palettes[mode]
	a := lipgloss.Color(accent)
	return Theme{
		Name:      mode,
		Base:      lipgloss.NewStyle().Margin(0, 1),
		Border:    a,
		Header:    lipgloss.NewStyle().Foreground(a).Bold(true),
		Task:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		DoneTask:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.done)).Strikethrough(true),
		Overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.overdue)).Bold(true),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(a).Padding(0, 1).Width(56),
		Focused:   lipgloss.NewStyle().Foreground(a).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		Highlight: lipgloss.NewStyle().Foreground(a),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)),
	}
}

var priorityColors = map[models.Priority]lipgloss.Color{
	models.PriorityLow:    lipgloss.Color("244"),
	models.PriorityMedium: lipgloss.Color("39"),
	models.PriorityHigh:   lipgloss.Color("214"),
	models.PriorityUrgent: lipgloss.Color("196"),
}

func PriorityStyle(p models.Priority) lipgloss.Style {
	c, ok := priorityColors[p]
	if !ok {
		c = lipgloss.Color("244")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(p == models.PriorityUrgent)
}

var severityColors = map[streak.Severity]lipgloss.Color{
	streak.SeverityMuted:   lipgloss.Color("240"),
	streak.SeverityInfo:    lipgloss.Color("39"),
	streak.SeverityNotice:  lipgloss.Color("220"),
	streak.SeverityStrong:  lipgloss.Color("214"),
	streak.SeverityIntense: lipgloss.Color("202"),
	streak.SeverityMax:     lipgloss.Color("196"),
}

// TierStyle renders the streak badge. Higher tiers get heavier styling.
func TierStyle(t streak.Tier) lipgloss.Style {
	sev := t.Info().Severity
	s := lipgloss.NewStyle().Foreground(severityColors[sev]).Padding(0, 1)
	if sev >= streak.SeverityStrong {
		s = s.Bold(true)
	}
	if sev == streak.SeverityMax {
		s = s.Reverse(true)
	}
	return s
}

func ToastStyle(l reminder.Level) lipgloss.Style {
	s := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	switch l {
	case reminder.LevelError:
		return s.BorderForeground(lipgloss.Color("196"))
	case reminder.LevelWarn:
		return s.BorderForeground(lipgloss.Color("214"))
	default:
		return s.BorderForeground(lipgloss.Color("39"))
	}
}

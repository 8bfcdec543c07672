package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/streak"
)

func (m DashboardModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	sections := []string{m.renderHeader()}
	switch {
	case m.form != nil:
		sections = append(sections, m.form.view(m.theme))
	case m.showHelp:
		sections = append(sections, m.renderHelp())
	default:
		sections = append(sections, m.renderBoard())
	}
	if strip := m.renderToasts(); strip != "" {
		sections = append(sections, strip)
	}
	sections = append(sections, m.renderFooter())
	return m.theme.Base.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m DashboardModel) renderHeader() string {
	snap := m.sess.Streak.Snapshot()
	tier := m.sess.Streak.Tier()
	badge := TierStyle(tier).Render(fmt.Sprintf("🔥 %d  %s", snap.CurrentStreak, tier.Info().Label))

	stats := fmt.Sprintf("best %d · done %d", snap.LongestStreak, snap.TotalTasksCompleted)
	if next := streak.NextMilestone(snap.CurrentStreak); next > 0 && tier != streak.TierNone {
		stats += fmt.Sprintf(" · %d to next", next)
	}
	if n := m.overdueCount(); n > 0 {
		stats += " · " + m.theme.Overdue.Render(fmt.Sprintf("%d overdue", n))
	}

	title := m.theme.Header.Render(config.AppName) + m.theme.Dim.Render(" v"+AppVersion)
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge, "  ", m.theme.Dim.Render(stats)) + "\n"
}

func (m DashboardModel) columnWidth() int {
	w := (m.width - 4) / len(m.columns)
	if w < config.MinColumnWidth {
		w = config.MinColumnWidth
	}
	return w
}

func (m DashboardModel) renderBoard() string {
	width := m.columnWidth()
	cols := make([]string, 0, len(m.columns))
	for i, status := range boardStatuses {
		cols = append(cols, m.renderColumn(i, status, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m DashboardModel) renderColumn(idx int, status models.TaskStatus, width int) string {
	inner := width - 4
	focusedCol := idx == m.colIdx
	list := m.columns[idx]

	var b strings.Builder
	head := fmt.Sprintf("%s (%d)", status.Info().Label, len(list))
	if focusedCol {
		b.WriteString(m.theme.Focused.Render(truncateLabel(head, inner)))
	} else {
		b.WriteString(m.theme.Header.Render(truncateLabel(head, inner)))
	}
	b.WriteString("\n")

	start := 0
	if focusedCol && m.rowIdx >= config.MaxVisibleTasks {
		start = m.rowIdx - config.MaxVisibleTasks + 1
	}
	end := min(len(list), start+config.MaxVisibleTasks)
	if len(list) == 0 {
		b.WriteString(m.theme.Dim.Render("no tasks"))
	}
	for r := start; r < end; r++ {
		b.WriteString(m.renderTask(list[r], inner, focusedCol && r == m.rowIdx))
		b.WriteString("\n")
	}
	if hidden := len(list) - end; hidden > 0 {
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("+%d more", hidden)))
	}

	border := lipgloss.Color("240")
	if focusedCol {
		border = m.theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Render(b.String())
}

func (m DashboardModel) renderTask(t models.Task, width int, selected bool) string {
	marker := "  "
	if selected {
		marker = m.theme.Focused.Render("> ")
	}
	style := m.theme.Task
	switch {
	case t.Status == models.StatusDone:
		style = m.theme.DoneTask
	case t.IsOverdue(m.now):
		style = m.theme.Overdue
	}
	dot := PriorityStyle(t.Priority).Render("●")
	line := marker + dot + " " + style.Render(truncateLabel(t.Title, width-4))

	var meta []string
	if t.DueDate != nil && t.Status != models.StatusDone {
		meta = append(meta, formatDue(*t.DueDate, m.now))
	}
	if logged := formatLogged(t, m.now); logged != "" {
		if t.TimeTracking != nil && t.TimeTracking.IsRunning {
			logged = "⏱ " + logged
		}
		meta = append(meta, logged)
	}
	if len(meta) > 0 {
		line += "\n    " + m.theme.Dim.Render(truncateLabel(strings.Join(meta, " · "), width-4))
	}
	return line
}

func (m DashboardModel) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	out := make([]string, 0, len(m.toasts))
	for _, tv := range m.toasts {
		body := lipgloss.NewStyle().Bold(true).Render(tv.toast.Title)
		if tv.toast.Body != "" {
			body += " " + truncateLabel(tv.toast.Body, max(10, m.width/len(m.toasts)-8))
		}
		out = append(out, ToastStyle(tv.toast.Level).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m DashboardModel) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render("Welcome to "+config.AppName) + "\n\n")
	b.WriteString("Tasks move left to right through Backlog, To Do, In Progress and Done.\n")
	b.WriteString("Finish at least one task a day to grow your streak.\n")
	b.WriteString("Reminders fire 30 minutes before a due time, when it is due, and just after.\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()) + "\n\n")
	b.WriteString(m.theme.Dim.Render("Press any key to continue."))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2).
		Render(b.String())
}

func (m DashboardModel) renderFooter() string {
	line := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.Message != "" {
		line = m.theme.Highlight.Render(m.Message) + "\n" + line
	}
	return line
}

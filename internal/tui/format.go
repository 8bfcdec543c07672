package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/timetrack"
)

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, "…")
}

// formatLogged renders a task's logged time, or "" when nothing is logged.
func formatLogged(t models.Task, now time.Time) string {
	total := timetrack.TotalLoggedSeconds(t.TimeTracking, now)
	if total == 0 && (t.TimeTracking == nil || !t.TimeTracking.IsRunning) {
		return ""
	}
	return timetrack.FormatDuration(total).Text
}

// formatDue renders a due date relative to now.
func formatDue(due time.Time, now time.Time) string {
	d := due.Sub(now)
	switch {
	case d < 0 && d > -time.Hour:
		return fmt.Sprintf("%dm late", int(-d.Minutes()))
	case d < 0:
		return "due " + due.Format("Jan 2")
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return "at " + due.Format("15:04")
	default:
		return due.Format("Jan 2")
	}
}

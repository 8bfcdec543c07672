package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/reminder"
	"github.com/akyairhashvil/streakboard/internal/report"
	"github.com/akyairhashvil/streakboard/internal/tasks"
	"github.com/akyairhashvil/streakboard/internal/util"
)

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		m.now = m.sess.Clock.Now()
		m.pullToasts()
		m.expireToasts()
		if m.hasRunningTimer() {
			m.refresh()
		}
		return m, tickCmd()
	case ReminderTickMsg:
		return m, tea.Batch(m.checkRemindersCmd(), reminderTickCmd(m.sess.Scheduler.Interval()))
	case remindersCheckedMsg:
		m.pullToasts()
		return m, nil
	case reportWrittenMsg:
		if msg.err != nil {
			util.LogError(m.sess.Logger, "report", msg.err)
			m.Message = "Report failed: " + msg.err.Error()
		} else {
			m.Message = "Report written to " + msg.path
		}
		return m, nil
	case permissionMsg:
		if msg.granted {
			m.Message = "Desktop notifications enabled"
		} else {
			m.Message = "Desktop notifications unavailable; reminders will show here"
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		if !m.sess.TutorialSeen() {
			_ = m.sess.MarkTutorialSeen()
		}
		return m, nil
	}
	m.Message = ""
	next, cmd, _ := m.keys.Handle(m, msg)
	return next, cmd
}

func (m DashboardModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	case tea.KeyCtrlC:
		return handleQuit(m)
	case tea.KeyEnter:
		in, ok := m.form.input(m.now.Location())
		if !ok {
			return m, nil
		}
		task, err := m.sess.AddTask(in)
		if err != nil {
			var ve *tasks.ValidationError
			if errors.As(err, &ve) {
				m.form.applyErrors(ve)
				return m, nil
			}
			m.Message = err.Error()
			return m, nil
		}
		m.form = nil
		m.refresh()
		m.focusTask(task.ID)
		m.pullToasts()
		return m, m.checkRemindersCmd()
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m DashboardModel) hasRunningTimer() bool {
	for _, col := range m.columns {
		for _, t := range col {
			if t.TimeTracking != nil && t.TimeTracking.IsRunning {
				return true
			}
		}
	}
	return false
}

// afterMutation refreshes the board, keeps the cursor on id and triggers an
// immediate reminder pass.
func (m DashboardModel) afterMutation(id string, err error) (DashboardModel, tea.Cmd) {
	if err != nil {
		m.Message = err.Error()
	}
	m.refresh()
	if id != "" {
		m.focusTask(id)
	}
	m.pullToasts()
	return m, m.checkRemindersCmd()
}

func handleQuit(m DashboardModel) (DashboardModel, tea.Cmd) {
	m.Shutdown()
	return m, tea.Quit
}

func handleOpenForm(m DashboardModel) (DashboardModel, tea.Cmd) {
	m.form = newTaskForm()
	return m, nil
}

func handleAdvance(m DashboardModel) (DashboardModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	_, err := m.sess.Advance(t.ID)
	return m.afterMutation(t.ID, err)
}

func handleRetreat(m DashboardModel) (DashboardModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	_, err := m.sess.Retreat(t.ID)
	return m.afterMutation(t.ID, err)
}

func handleDelete(m DashboardModel) (DashboardModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	err := m.sess.DeleteTask(t.ID)
	if err == nil {
		m.Message = fmt.Sprintf("Deleted %q", t.Title)
	}
	return m.afterMutation("", err)
}

func handleTimer(m DashboardModel) (DashboardModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	_, err := m.sess.ToggleTimer(t.ID)
	return m.afterMutation(t.ID, err)
}

func handlePriority(m DashboardModel) (DashboardModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	_, err := m.sess.CyclePriority(t.ID)
	return m.afterMutation(t.ID, err)
}

func handleNotifications(m DashboardModel) (DashboardModel, tea.Cmd) {
	sess, ctx := m.sess, m.ctx
	if sess.Notifier.Permission() == reminder.PermissionGranted {
		m.Message = "Desktop notifications already enabled"
		return m, nil
	}
	return m, func() tea.Msg {
		return permissionMsg{granted: sess.RequestNotifications(ctx)}
	}
}

func handleTheme(m DashboardModel) (DashboardModel, tea.Cmd) {
	mode := m.sess.CycleThemeMode()
	m.theme = ThemeFor(mode, m.sess.AccentColor())
	m.Message = "Theme: " + mode
	return m, nil
}

func handleReport(m DashboardModel) (DashboardModel, tea.Cmd) {
	sess := m.sess
	now := m.now
	return m, func() tea.Msg {
		r := report.Build(sess.Tasks.List(), sess.Streak.Snapshot(), sess.Streak.Tier(), now)
		path, err := report.WriteFile(util.ReportsDir(config.AppName), r)
		if err == nil {
			sess.Logger.Info("report_written", zap.String("path", path))
		}
		return reportWrittenMsg{path: path, err: err}
	}
}

func handleHelp(m DashboardModel) (DashboardModel, tea.Cmd) {
	m.showHelp = true
	return m, nil
}

func handleLeft(m DashboardModel) (DashboardModel, tea.Cmd) {
	if m.colIdx > 0 {
		m.colIdx--
		m.clampCursor()
	}
	return m, nil
}

func handleRight(m DashboardModel) (DashboardModel, tea.Cmd) {
	if m.colIdx < len(m.columns)-1 {
		m.colIdx++
		m.clampCursor()
	}
	return m, nil
}

func handleUp(m DashboardModel) (DashboardModel, tea.Cmd) {
	if m.rowIdx > 0 {
		m.rowIdx--
	}
	return m, nil
}

func handleDown(m DashboardModel) (DashboardModel, tea.Cmd) {
	if m.rowIdx < len(m.columns[m.colIdx])-1 {
		m.rowIdx++
	}
	return m, nil
}

// overdueCount is shown in the header.
func (m DashboardModel) overdueCount() int {
	n := 0
	for _, col := range m.columns {
		for _, t := range col {
			if t.IsOverdue(m.now) {
				n++
			}
		}
	}
	return n
}

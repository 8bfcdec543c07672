package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/reminder"
	"github.com/akyairhashvil/streakboard/internal/session"
	"github.com/akyairhashvil/streakboard/internal/tasks"
	"github.com/akyairhashvil/streakboard/internal/util"
)

// --- Messages ---
type TickMsg time.Time

type ReminderTickMsg time.Time

type remindersCheckedMsg struct {
	fired []reminder.Notification
}

type reportWrittenMsg struct {
	path string
	err  error
}

type permissionMsg struct {
	granted bool
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.UITickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func reminderTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return ReminderTickMsg(t) })
}

type toastView struct {
	toast   reminder.Toast
	expires time.Time
}

// --- Model ---
type DashboardModel struct {
	sess   *session.Session
	ctx    context.Context
	cancel context.CancelFunc

	theme Theme
	keys  *HandlerRegistry
	help  help.Model

	columns  [len(boardStatuses)][]models.Task
	colIdx   int
	rowIdx   int
	form     *taskForm
	showHelp bool
	toasts   []toastView
	Message  string
	now      time.Time

	width, height int
}

var boardStatuses = [...]models.TaskStatus{
	models.StatusBacklog,
	models.StatusTodo,
	models.StatusInProgress,
	models.StatusDone,
}

func NewDashboardModel(sess *session.Session) DashboardModel {
	ctx, cancel := context.WithCancel(context.Background())
	m := DashboardModel{
		sess:   sess,
		ctx:    ctx,
		cancel: cancel,
		theme:  ThemeFor(sess.ThemeMode(), sess.AccentColor()),
		keys:   defaultRegistry(),
		help:   help.New(),
		colIdx: 1,
		now:    sess.Clock.Now(),
	}
	if !sess.TutorialSeen() {
		m.showHelp = true
	}
	if sess.InMemory() {
		m.Message = "Storage unavailable: changes will not be saved"
	}
	m.refresh()
	return m
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(), m.checkRemindersCmd(), reminderTickCmd(m.sess.Scheduler.Interval()))
}

// refresh rebuilds the columns from the store and clamps the cursor.
func (m *DashboardModel) refresh() {
	for i, status := range boardStatuses {
		list := m.sess.Tasks.List(tasks.ByStatus(status))
		tasks.SortForBoard(list)
		m.columns[i] = list
	}
	m.clampCursor()
}

func (m *DashboardModel) clampCursor() {
	m.colIdx = util.Clamp(m.colIdx, 0, len(m.columns)-1)
	m.rowIdx = util.Clamp(m.rowIdx, 0, max(0, len(m.columns[m.colIdx])-1))
}

// selected returns the task under the cursor.
func (m DashboardModel) selected() (models.Task, bool) {
	col := m.columns[m.colIdx]
	if m.rowIdx < 0 || m.rowIdx >= len(col) {
		return models.Task{}, false
	}
	return col[m.rowIdx], true
}

// focusTask moves the cursor to the task with id, wherever it now lives.
func (m *DashboardModel) focusTask(id string) {
	for c, col := range m.columns {
		for r, t := range col {
			if t.ID == id {
				m.colIdx, m.rowIdx = c, r
				return
			}
		}
	}
}

func (m DashboardModel) checkRemindersCmd() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		return remindersCheckedMsg{fired: sess.CheckReminders(ctx)}
	}
}

// pullToasts moves queued toasts onto the strip.
func (m *DashboardModel) pullToasts() {
	for _, t := range m.sess.Toasts.Drain() {
		m.toasts = append(m.toasts, toastView{toast: t, expires: m.now.Add(config.ToastLifetime)})
	}
	if over := len(m.toasts) - config.MaxToasts; over > 0 {
		m.toasts = m.toasts[over:]
	}
}

func (m *DashboardModel) expireToasts() {
	var kept []toastView
	for _, t := range m.toasts {
		if m.now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// Shutdown stops in-flight reminder work.
func (m DashboardModel) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

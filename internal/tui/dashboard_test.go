package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/database"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/reminder"
	"github.com/akyairhashvil/streakboard/internal/session"
	"github.com/akyairhashvil/streakboard/internal/tasks"
	"github.com/akyairhashvil/streakboard/internal/testutil"
	"github.com/akyairhashvil/streakboard/internal/util"
)

type dashboardFixture struct {
	sess  *session.Session
	kv    *database.MemoryStore
	clock *util.ManualClock
}

func setupTestDashboard(t *testing.T) (DashboardModel, dashboardFixture) {
	t.Helper()
	kv := database.NewMemoryStore()
	clock := util.NewManualClock(testutil.Epoch)
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Theme = config.ThemeDark
	n := 0
	sess := session.New(context.Background(), cfg, zap.NewNop(),
		session.WithStore(kv),
		session.WithClock(clock),
		session.WithNotifier(reminder.NopNotifier{}),
		session.WithTaskOptions(tasks.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		})),
	)
	if err := sess.MarkTutorialSeen(); err != nil {
		t.Fatalf("MarkTutorialSeen failed: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })

	m := NewDashboardModel(sess)
	t.Cleanup(m.Shutdown)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(DashboardModel), dashboardFixture{sess: sess, kv: kv, clock: clock}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m DashboardModel, msgs ...tea.Msg) DashboardModel {
	t.Helper()
	for _, msg := range msgs {
		model, _ := m.Update(msg)
		updated, ok := model.(DashboardModel)
		if !ok {
			t.Fatalf("expected DashboardModel, got %T", model)
		}
		m = updated
	}
	return m
}

func typeText(t *testing.T, m DashboardModel, text string) DashboardModel {
	t.Helper()
	for _, r := range text {
		if r == ' ' {
			m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m = press(t, m, runes(string(r)))
	}
	return m
}

func TestViewBeforeWindowSize(t *testing.T) {
	_, fx := setupTestDashboard(t)
	m := NewDashboardModel(fx.sess)
	defer m.Shutdown()
	if got := m.View(); got != "Initializing..." {
		t.Fatalf("expected placeholder view, got %q", got)
	}
}

func TestViewShowsColumns(t *testing.T) {
	m, _ := setupTestDashboard(t)
	out := m.View()
	for _, label := range []string{"Backlog", "To Do", "In Progress", "Done", config.AppName} {
		if !strings.Contains(out, label) {
			t.Fatalf("expected %q in view", label)
		}
	}
}

func TestAddFormRequiresTitle(t *testing.T) {
	m, fx := setupTestDashboard(t)
	m = press(t, m, runes("a"))
	if m.form == nil {
		t.Fatalf("expected form to open")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.form == nil {
		t.Fatalf("expected form to stay open on invalid input")
	}
	if m.form.errs["Title"] == "" {
		t.Fatalf("expected inline title error")
	}
	if !strings.Contains(m.View(), "Title is required") {
		t.Fatalf("expected error rendered next to the field")
	}
	if fx.sess.Tasks.Len() != 0 {
		t.Fatalf("expected no task to be created")
	}
}

func TestAddFormRejectsBadDue(t *testing.T) {
	m, _ := setupTestDashboard(t)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "Write report")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "tomorrow")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.form == nil || m.form.errs["DueDate"] == "" {
		t.Fatalf("expected due date error")
	}
}

func TestAddFormCreatesTask(t *testing.T) {
	m, fx := setupTestDashboard(t)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "Write report #work")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "2024-03-05 10:00")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.form != nil {
		t.Fatalf("expected form to close, errors: %v", m.form.errs)
	}
	task, ok := fx.sess.Tasks.Get("t1")
	if !ok {
		t.Fatalf("expected task t1")
	}
	if task.Status != models.StatusTodo {
		t.Fatalf("expected todo, got %s", task.Status)
	}
	if task.DueDate == nil || task.DueDate.Hour() != 10 {
		t.Fatalf("expected due at 10:00, got %v", task.DueDate)
	}
	if len(task.Tags) != 1 || task.Tags[0] != "work" {
		t.Fatalf("expected work tag, got %v", task.Tags)
	}
	if sel, ok := m.selected(); !ok || sel.ID != "t1" {
		t.Fatalf("expected cursor on new task")
	}
}

func TestFormEscCancels(t *testing.T) {
	m, fx := setupTestDashboard(t)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "abandoned")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil {
		t.Fatalf("expected form closed")
	}
	if fx.sess.Tasks.Len() != 0 {
		t.Fatalf("expected nothing created")
	}
}

func TestAdvanceToDoneRecordsStreak(t *testing.T) {
	m, fx := setupTestDashboard(t)
	if _, err := fx.sess.AddTask(tasks.TaskInput{Title: "ship it"}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	m.refresh()
	m.focusTask("t1")

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m = press(t, m, space, space)

	task, _ := fx.sess.Tasks.Get("t1")
	if task.Status != models.StatusDone {
		t.Fatalf("expected done, got %s", task.Status)
	}
	if m.colIdx != 3 {
		t.Fatalf("expected cursor to follow task into done, got column %d", m.colIdx)
	}
	snap := fx.sess.Streak.Snapshot()
	if snap.CurrentStreak != 1 || snap.TotalTasksCompleted != 1 {
		t.Fatalf("unexpected streak: %+v", snap)
	}
	if !strings.Contains(m.View(), "Getting started") {
		t.Fatalf("expected tier label in header")
	}

	m = press(t, m, runes("b"))
	task, _ = fx.sess.Tasks.Get("t1")
	if task.Status != models.StatusInProgress || task.CompletedAt != nil {
		t.Fatalf("expected reopened task, got %s", task.Status)
	}
}

func TestDeleteRemovesSelected(t *testing.T) {
	m, fx := setupTestDashboard(t)
	if _, err := fx.sess.AddTask(tasks.TaskInput{Title: "temp"}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	m.refresh()
	m = press(t, m, runes("x"))
	if fx.sess.Tasks.Len() != 0 {
		t.Fatalf("expected task deleted")
	}
	if !strings.Contains(m.Message, "Deleted") {
		t.Fatalf("expected delete message, got %q", m.Message)
	}
}

func TestPriorityKeyCycles(t *testing.T) {
	m, fx := setupTestDashboard(t)
	if _, err := fx.sess.AddTask(tasks.TaskInput{Title: "p"}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	m.refresh()
	press(t, m, runes("p"))
	task, _ := fx.sess.Tasks.Get("t1")
	if task.Priority != models.PriorityHigh {
		t.Fatalf("expected high, got %s", task.Priority)
	}
}

func TestTimerKeyTogglesTracking(t *testing.T) {
	m, fx := setupTestDashboard(t)
	if _, err := fx.sess.AddTask(tasks.TaskInput{Title: "focus"}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	m.refresh()
	m = press(t, m, runes("t"))
	if !m.hasRunningTimer() {
		t.Fatalf("expected running timer")
	}
	fx.clock.Advance(90 * time.Second)
	m = press(t, m, runes("t"))
	if m.hasRunningTimer() {
		t.Fatalf("expected timer stopped")
	}
	task, _ := fx.sess.Tasks.Get("t1")
	if task.TimeTracking == nil || task.TimeTracking.TotalTime != 90 {
		t.Fatalf("expected 90s logged, got %+v", task.TimeTracking)
	}
}

func TestThemeKeyPersists(t *testing.T) {
	m, fx := setupTestDashboard(t)
	if err := fx.sess.SetThemeMode(config.ThemeLight); err != nil {
		t.Fatalf("SetThemeMode failed: %v", err)
	}
	m = press(t, m, runes("T"))
	if m.theme.Name != config.ThemeDark {
		t.Fatalf("expected dark theme after light, got %s", m.theme.Name)
	}
	raw, ok, _ := fx.kv.Get(config.KeyThemeMode)
	if !ok || raw != `"dark"` {
		t.Fatalf("expected persisted dark mode, got %q", raw)
	}
}

func TestNavigationClampsToColumns(t *testing.T) {
	m, _ := setupTestDashboard(t)
	m = press(t, m, runes("h"), runes("h"), runes("h"))
	if m.colIdx != 0 {
		t.Fatalf("expected first column, got %d", m.colIdx)
	}
	m = press(t, m, runes("l"), runes("l"), runes("l"), runes("l"), runes("l"))
	if m.colIdx != 3 {
		t.Fatalf("expected last column, got %d", m.colIdx)
	}
}

func TestTutorialShownUntilDismissed(t *testing.T) {
	_, fx := setupTestDashboard(t)
	if err := fx.kv.Remove(config.KeyTutorialSeen); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	m := NewDashboardModel(fx.sess)
	defer m.Shutdown()
	m = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if !m.showHelp || !strings.Contains(m.View(), "Welcome to") {
		t.Fatalf("expected tutorial overlay")
	}
	m = press(t, m, runes("j"))
	if m.showHelp {
		t.Fatalf("expected overlay dismissed")
	}
	if !fx.sess.TutorialSeen() {
		t.Fatalf("expected tutorial flag persisted")
	}
}

func TestReminderToastsReachStrip(t *testing.T) {
	m, fx := setupTestDashboard(t)
	due := testutil.Epoch.Add(20 * time.Minute)
	if _, err := fx.sess.AddTask(tasks.TaskInput{Title: "call back", DueDate: &due}); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	fired := fx.sess.CheckReminders(context.Background())
	if len(fired) != 1 || fired[0].Kind != reminder.KindThirtyMinuteWarning {
		t.Fatalf("expected a 30 minute warning, got %+v", fired)
	}
	m = press(t, m, remindersCheckedMsg{fired: fired})
	if len(m.toasts) == 0 {
		t.Fatalf("expected toast on strip")
	}
	if !strings.Contains(m.View(), "Due soon") {
		t.Fatalf("expected toast title in view")
	}

	fx.clock.Advance(config.ToastLifetime + time.Second)
	m = press(t, m, TickMsg(fx.clock.Now()))
	if len(m.toasts) != 0 {
		t.Fatalf("expected toasts to expire")
	}
}

func TestQuitCancelsContext(t *testing.T) {
	m, _ := setupTestDashboard(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Fatalf("expected context cancelled")
	}
}

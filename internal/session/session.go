// Package session wires the task store, streak engine and reminder
// scheduler around one key/value store for the life of an application run.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/database"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/reminder"
	"github.com/akyairhashvil/streakboard/internal/streak"
	"github.com/akyairhashvil/streakboard/internal/tasks"
	"github.com/akyairhashvil/streakboard/internal/util"
)

// Session is the explicit application context. Nothing in it is global, so
// tests can run several sessions side by side.
type Session struct {
	Config    *config.Config
	Clock     util.Clock
	Logger    *zap.Logger
	KV        database.Store
	Tasks     *tasks.Store
	Streak    *streak.Engine
	Scheduler *reminder.Scheduler
	Toasts    *reminder.ToastQueue
	Notifier  reminder.Notifier

	closeKV func() error
}

type options struct {
	clock    util.Clock
	kv       database.Store
	notifier reminder.Notifier
	taskOpts []tasks.Option
}

type Option func(*options)

func WithClock(c util.Clock) Option { return func(o *options) { o.clock = c } }

// WithStore uses kv instead of opening the configured database.
func WithStore(kv database.Store) Option { return func(o *options) { o.kv = kv } }

func WithNotifier(n reminder.Notifier) Option { return func(o *options) { o.notifier = n } }

func WithTaskOptions(opts ...tasks.Option) Option {
	return func(o *options) { o.taskOpts = append(o.taskOpts, opts...) }
}

// New builds a session. An unavailable database degrades to an in-memory
// store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{clock: util.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{Config: cfg, Clock: o.clock, Logger: logger, closeKV: func() error { return nil }}
	if o.kv != nil {
		s.KV = o.kv
	} else {
		s.KV, s.closeKV = database.OpenOrMemory(ctx, cfg.DBPath(), logger)
	}

	switch {
	case o.notifier != nil:
		s.Notifier = o.notifier
	case cfg.Notifications:
		s.Notifier = reminder.NewDesktopNotifier(s.KV, logger.Named("notify"))
	default:
		s.Notifier = reminder.NopNotifier{}
	}

	s.Toasts = reminder.NewToastQueue(0)
	s.Tasks = tasks.New(s.KV, s.Clock, logger.Named("tasks"), o.taskOpts...)
	s.Streak = streak.NewEngine(s.KV, s.Clock, logger.Named("streak"))
	s.Scheduler = reminder.NewScheduler(s.Notifier, s.Toasts, logger.Named("reminder"),
		reminder.WithClock(s.Clock),
		reminder.WithInterval(cfg.ReminderInterval),
	)
	s.Tasks.OnChange(s.Scheduler.Nudge)
	return s
}

func (s *Session) Close() error {
	return s.closeKV()
}

// InMemory reports whether the session fell back to a non-durable store.
func (s *Session) InMemory() bool {
	_, ok := s.KV.(*database.MemoryStore)
	return ok
}

// StorePath describes where data lives, for status lines.
func (s *Session) StorePath() string {
	if db, ok := s.KV.(*database.Database); ok {
		return db.Path()
	}
	return "memory"
}

// absorb logs and toasts a persistence failure and reports whether err was
// one. Such failures leave the in-memory change in place.
func (s *Session) absorb(op string, err error) bool {
	if err == nil || (!errors.Is(err, tasks.ErrNotPersisted) && !isStreakWrite(err)) {
		return false
	}
	s.Logger.Warn("persist_failed", zap.String("op", op), zap.Error(err))
	s.Toasts.Push(reminder.Toast{
		Title: "Not saved",
		Body:  "Changes are kept for this session only",
		Level: reminder.LevelError,
		At:    s.Clock.Now(),
	})
	return true
}

func isStreakWrite(err error) bool {
	var opErr *database.OpError
	return errors.As(err, &opErr) && opErr.Resource == "streak"
}

func (s *Session) AddTask(in tasks.TaskInput) (models.Task, error) {
	t, err := s.Tasks.Create(in)
	if s.absorb("create", err) {
		err = nil
	}
	if err == nil && t.Status == models.StatusDone && t.CompletedAt != nil {
		s.recordCompletion(*t.CompletedAt)
	}
	return t, err
}

// SetStatus moves a task to status. Entering done records a completion on
// the streak.
func (s *Session) SetStatus(id string, status models.TaskStatus) (models.Task, error) {
	before, ok := s.Tasks.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("set status: %w", tasks.ErrTaskNotFound)
	}
	t, err := s.Tasks.Update(id, tasks.Patch{Status: &status})
	if s.absorb("set_status", err) {
		err = nil
	}
	if err != nil {
		return t, err
	}
	if before.Status != models.StatusDone && t.Status == models.StatusDone && t.CompletedAt != nil {
		s.recordCompletion(*t.CompletedAt)
	}
	return t, nil
}

func (s *Session) recordCompletion(at time.Time) {
	before := s.Streak.Tier()
	_, err := s.Streak.RecordCompletion(at)
	s.absorb("record_completion", err)
	if after := s.Streak.Tier(); after > before {
		s.Toasts.Push(reminder.Toast{
			Title: after.Info().Label,
			Body:  fmt.Sprintf("%d day streak", s.Streak.Snapshot().CurrentStreak),
			Level: reminder.LevelInfo,
			At:    s.Clock.Now(),
		})
	}
}

// Advance moves a task one column to the right.
func (s *Session) Advance(id string) (models.Task, error) {
	t, ok := s.Tasks.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("advance: %w", tasks.ErrTaskNotFound)
	}
	return s.SetStatus(id, t.Status.Next())
}

// Retreat moves a task one column to the left.
func (s *Session) Retreat(id string) (models.Task, error) {
	t, ok := s.Tasks.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("retreat: %w", tasks.ErrTaskNotFound)
	}
	return s.SetStatus(id, t.Status.Prev())
}

func (s *Session) CyclePriority(id string) (models.Task, error) {
	t, ok := s.Tasks.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("cycle priority: %w", tasks.ErrTaskNotFound)
	}
	next := t.Priority.Cycle()
	t, err := s.Tasks.Update(id, tasks.Patch{Priority: &next})
	if s.absorb("cycle_priority", err) {
		err = nil
	}
	return t, err
}

// UpdateTask applies p and forgets reminders that no longer apply.
func (s *Session) UpdateTask(id string, p tasks.Patch) (models.Task, error) {
	if p.Status != nil {
		if _, err := s.SetStatus(id, *p.Status); err != nil {
			return models.Task{}, err
		}
		p.Status = nil
	}
	t, err := s.Tasks.Update(id, p)
	if s.absorb("update", err) {
		err = nil
	}
	return t, err
}

// DeleteTask removes the task and its reminder state. Unknown ids are a
// no-op.
func (s *Session) DeleteTask(id string) error {
	err := s.Tasks.Delete(id)
	s.Scheduler.Forget(id)
	if s.absorb("delete", err) {
		return nil
	}
	return err
}

// ToggleTimer starts the task's timer, or stops it when running.
func (s *Session) ToggleTimer(id string) (models.TimeEntry, error) {
	t, ok := s.Tasks.Get(id)
	if !ok {
		return models.TimeEntry{}, fmt.Errorf("toggle timer: %w", tasks.ErrTaskNotFound)
	}
	var (
		entry models.TimeEntry
		err   error
	)
	if t.TimeTracking != nil && t.TimeTracking.IsRunning {
		entry, err = s.Tasks.StopTimer(id)
	} else {
		entry, err = s.Tasks.StartTimer(id)
	}
	if s.absorb("toggle_timer", err) {
		err = nil
	}
	return entry, err
}

// CheckReminders runs one reminder pass over the current tasks.
func (s *Session) CheckReminders(ctx context.Context) []reminder.Notification {
	return s.Scheduler.Check(ctx, s.Clock.Now(), s.Tasks.List())
}

// RunReminders polls until ctx is cancelled.
func (s *Session) RunReminders(ctx context.Context) error {
	return s.Scheduler.Run(ctx, func() []models.Task { return s.Tasks.List() })
}

// RebuildStreak recomputes streak data from the completion stamps of done
// tasks.
func (s *Session) RebuildStreak() (models.StreakData, error) {
	var stamps []time.Time
	for _, t := range s.Tasks.List(tasks.ByStatus(models.StatusDone)) {
		if t.CompletedAt != nil {
			stamps = append(stamps, *t.CompletedAt)
		}
	}
	data, err := s.Streak.Rebuild(stamps)
	if s.absorb("rebuild_streak", err) {
		err = nil
	}
	return data, err
}

// RequestNotifications asks for OS notification permission.
func (s *Session) RequestNotifications(ctx context.Context) bool {
	ok, err := s.Notifier.RequestPermission(ctx)
	if err != nil {
		s.Logger.Warn("notification_permission_failed", zap.Error(err))
		return false
	}
	return ok
}

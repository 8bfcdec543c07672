// Package reminder fires at-most-once due-date reminders as in-app toasts
// and, when permitted, OS notifications.
package reminder

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/util"
)

type pairKey struct {
	taskID string
	kind   Kind
}

// Scheduler tracks which (task, kind) pairs have fired. State is per
// instance, so independent sessions never share it.
type Scheduler struct {
	mu       sync.Mutex
	notified map[pairKey]struct{}
	dueSeen  map[string]time.Time

	notifier Notifier
	toasts   *ToastQueue
	clock    util.Clock
	logger   *zap.Logger
	interval time.Duration
	nudge    chan struct{}
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(c util.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func NewScheduler(notifier Notifier, toasts *ToastQueue, logger *zap.Logger, opts ...Option) *Scheduler {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if toasts == nil {
		toasts = NewToastQueue(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		notified: make(map[pairKey]struct{}),
		dueSeen:  make(map[string]time.Time),
		notifier: notifier,
		toasts:   toasts,
		clock:    util.SystemClock{},
		logger:   logger,
		interval: config.ReminderInterval,
		nudge:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toasts returns the queue fired reminders are pushed to.
func (s *Scheduler) Toasts() *ToastQueue { return s.toasts }

// Interval is the polling period used by Run.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Check evaluates every open task with a due date against now and fires
// each (task, kind) pair at most once. Changing a task's due date re-arms
// its pairs.
func (s *Scheduler) Check(ctx context.Context, now time.Time, tasks []models.Task) []Notification {
	var fired []Notification
	s.mu.Lock()
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == models.StatusDone {
			continue
		}
		s.rearmLocked(t.ID, *t.DueDate)
		minutes := t.DueDate.Sub(now).Minutes()
		kind, ok := KindFor(minutes)
		if !ok {
			continue
		}
		key := pairKey{taskID: t.ID, kind: kind}
		if _, done := s.notified[key]; done {
			continue
		}
		s.notified[key] = struct{}{}
		info := kind.Info()
		fired = append(fired, Notification{
			TaskID:             t.ID,
			Kind:               kind,
			Title:              info.Title,
			Body:               kind.body(t.Title, minutes),
			Tag:                t.ID + ":" + string(kind),
			RequireInteraction: info.RequireInteraction,
			FiredAt:            now,
		})
	}
	s.mu.Unlock()

	for _, n := range fired {
		s.fire(ctx, n)
	}
	return fired
}

func (s *Scheduler) rearmLocked(taskID string, due time.Time) {
	prev, seen := s.dueSeen[taskID]
	s.dueSeen[taskID] = due
	if !seen || prev.Equal(due) {
		return
	}
	for _, k := range Kinds {
		delete(s.notified, pairKey{taskID: taskID, kind: k})
	}
	s.logger.Debug("reminder_rearmed", zap.String("task_id", taskID))
}

func (s *Scheduler) fire(ctx context.Context, n Notification) {
	level := LevelInfo
	if n.RequireInteraction {
		level = LevelWarn
	}
	s.toasts.Push(Toast{Title: n.Title, Body: n.Body, Level: level, At: n.FiredAt})
	s.logger.Info("reminder_fired",
		zap.String("task_id", n.TaskID),
		zap.String("kind", string(n.Kind)),
	)
	if s.notifier.Permission() != PermissionGranted {
		return
	}
	if err := s.notifier.Show(ctx, n); err != nil {
		s.logger.Warn("os_notification_failed",
			zap.String("task_id", n.TaskID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
	}
}

// Forget drops all reminder state for a task.
func (s *Scheduler) Forget(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dueSeen, taskID)
	for _, k := range Kinds {
		delete(s.notified, pairKey{taskID: taskID, kind: k})
	}
}

// Fired reports whether the pair has already fired.
func (s *Scheduler) Fired(taskID string, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[pairKey{taskID: taskID, kind: kind}]
	return ok
}

// Nudge asks a running loop for an immediate check. It never blocks.
func (s *Scheduler) Nudge() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

// Run checks once immediately, then on every tick and nudge, until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context, source func() []models.Task) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.logger.Debug("reminder_loop_started", zap.Duration("interval", s.interval))

	s.Check(ctx, s.clock.Now(), source())
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("reminder_loop_stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Check(ctx, s.clock.Now(), source())
		case <-s.nudge:
			s.Check(ctx, s.clock.Now(), source())
		}
	}
}

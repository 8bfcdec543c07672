// Package tasks is the task record store: an in-memory collection written
// through to the key/value store after every mutation.
package tasks

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/database"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/timetrack"
	"github.com/akyairhashvil/streakboard/internal/util"
)

// Patch lists the fields an update may change. Nil fields are left alone.
type Patch struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.Priority
	DueDate       *time.Time
	ClearDueDate  bool
	Tags          *[]string
	EstimatedTime *int64
}

type Store struct {
	mu       sync.RWMutex
	kv       database.Store
	clock    util.Clock
	logger   *zap.Logger
	tasks    []models.Task
	newID    func() string
	onChange []func()
}

type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New builds a store and loads the persisted collection.
func New(kv database.Store, clock util.Clock, logger *zap.Logger, opts ...Option) *Store {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:     kv,
		clock:  clock,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.load()
	return s
}

func (s *Store) load() []models.Task {
	if s.kv == nil {
		return nil
	}
	raw, ok, err := s.kv.Get(config.KeyTasks)
	if err != nil {
		s.logger.Warn("tasks_load_failed", zap.Error(err))
		return nil
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var loaded []models.Task
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("tasks_malformed_reset", zap.Error(err))
		return nil
	}
	now := s.clock.Now()
	out := loaded[:0]
	for _, t := range loaded {
		if t.ID == "" {
			continue
		}
		if t.TimeTracking != nil {
			timetrack.Recompute(t.TimeTracking, now)
		}
		out = append(out, t)
	}
	s.logger.Debug("tasks_loaded", zap.Int("count", len(out)))
	return out
}

// OnChange registers fn to run after every successful in-memory mutation.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// persistLocked writes the full collection. Callers hold s.mu.
func (s *Store) persistLocked() error {
	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return err
	}
	return s.kv.Set(config.KeyTasks, string(data))
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextStamp returns a timestamp strictly after prev.
func (s *Store) nextStamp(prev time.Time) time.Time {
	now := s.clock.Now()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// Create validates in, stores a new task and persists the collection. When
// only persistence fails the task is kept and returned with the error.
func (s *Store) Create(in TaskInput) (models.Task, error) {
	in.Title = SanitizeText(in.Title)
	in.Description = SanitizeText(in.Description)
	if err := validateInput(in); err != nil {
		return models.Task{}, err
	}
	now := s.clock.Now()
	task := models.Task{
		ID:        s.newID(),
		Title:     in.Title,
		Status:    models.TaskStatus(in.Status),
		Priority:  models.Priority(in.Priority),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if in.Description != "" {
		task.Description = util.Ptr(in.Description)
	}
	if in.DueDate != nil {
		task.DueDate = util.Ptr(*in.DueDate)
	}
	if in.Tags != nil {
		task.Tags = util.NormalizeTags(in.Tags)
	} else if tags := util.ExtractTags(in.Title); len(tags) > 0 {
		task.Tags = tags
	}
	if task.Status == models.StatusDone {
		task.CompletedAt = util.Ptr(now)
	}
	if in.EstimatedTime != nil {
		task.TimeTracking = &models.TimeTracking{EstimatedTime: util.Ptr(*in.EstimatedTime), Entries: []models.TimeEntry{}}
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	err := s.persistLocked()
	out := task.Clone()
	s.mu.Unlock()

	s.logger.Info("task_created", zap.String("task_id", task.ID), zap.String("status", string(task.Status)))
	s.notify()
	return out, persistErr("create", task.ID, err)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

// Update merges p into the task. CompletedAt follows the status: it is
// stamped on the transition into done and cleared on the way out.
func (s *Store) Update(id string, p Patch) (models.Task, error) {
	if err := validatePatch(p); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, opErr("update", id, ErrTaskNotFound)
	}
	t := s.tasks[i].Clone()
	now := s.clock.Now()

	if p.Title != nil {
		t.Title = SanitizeText(*p.Title)
	}
	if p.Description != nil {
		if d := SanitizeText(*p.Description); d != "" {
			t.Description = &d
		} else {
			t.Description = nil
		}
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = util.Ptr(*p.DueDate)
	}
	if p.Tags != nil {
		t.Tags = util.NormalizeTags(*p.Tags)
	}
	if p.EstimatedTime != nil {
		if t.TimeTracking == nil {
			t.TimeTracking = &models.TimeTracking{Entries: []models.TimeEntry{}}
		}
		t.TimeTracking.EstimatedTime = util.Ptr(*p.EstimatedTime)
	}
	if p.Status != nil && *p.Status != t.Status {
		prev := t.Status
		t.Status = *p.Status
		switch {
		case t.Status == models.StatusDone:
			t.CompletedAt = util.Ptr(now)
			if t.TimeTracking != nil && t.TimeTracking.IsRunning {
				if _, err := timetrack.Stop(t.TimeTracking, now); err != nil {
					s.logger.Warn("timer_stop_on_done_failed", zap.String("task_id", id), zap.Error(err))
				}
			}
		case prev == models.StatusDone:
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = s.nextStamp(t.UpdatedAt)

	s.tasks[i] = t
	err := s.persistLocked()
	out := t.Clone()
	s.mu.Unlock()

	s.logger.Info("task_updated", zap.String("task_id", id))
	s.notify()
	return out, persistErr("update", id, err)
}

func validatePatch(p Patch) error {
	in := patchInput{
		Status:        p.Status,
		Priority:      p.Priority,
		EstimatedTime: p.EstimatedTime,
	}
	if p.Title != nil {
		in.Title = util.Ptr(SanitizeText(*p.Title))
	}
	if p.Description != nil {
		in.Description = util.Ptr(SanitizeText(*p.Description))
	}
	return validateStruct(in)
}

// Delete removes the task. Unknown ids are ignored and nothing is written.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	err := s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("task_deleted", zap.String("task_id", id))
	s.notify()
	return persistErr("delete", id, err)
}

// List returns copies of the tasks matching every filter, in insertion order.
func (s *Store) List(filters ...Filter) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if matchAll(t, filters) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Len reports the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// StartTimer opens a time entry on the task.
func (s *Store) StartTimer(id string) (models.TimeEntry, error) {
	return s.mutateTimer("start_timer", id, func(tt *models.TimeTracking, now time.Time) (models.TimeEntry, error) {
		return timetrack.Start(tt, id, now, s.newID)
	})
}

// StopTimer closes the running entry on the task.
func (s *Store) StopTimer(id string) (models.TimeEntry, error) {
	return s.mutateTimer("stop_timer", id, timetrack.Stop)
}

func (s *Store) mutateTimer(op, id string, fn func(*models.TimeTracking, time.Time) (models.TimeEntry, error)) (models.TimeEntry, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.TimeEntry{}, opErr(op, id, ErrTaskNotFound)
	}
	t := s.tasks[i].Clone()
	if t.TimeTracking == nil {
		t.TimeTracking = &models.TimeTracking{Entries: []models.TimeEntry{}}
	}
	entry, err := fn(t.TimeTracking, s.clock.Now())
	if err != nil {
		s.mu.Unlock()
		return models.TimeEntry{}, opErr(op, id, err)
	}
	t.UpdatedAt = s.nextStamp(t.UpdatedAt)
	s.tasks[i] = t
	perr := s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("task_"+op, zap.String("task_id", id), zap.String("entry_id", entry.ID))
	s.notify()
	return entry, persistErr(op, id, perr)
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package streak

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/database"
	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/util"
)

// Engine owns the persisted streak data.
type Engine struct {
	mu     sync.Mutex
	kv     database.Store
	clock  util.Clock
	logger *zap.Logger
	data   models.StreakData
}

func NewEngine(kv database.Store, clock util.Clock, logger *zap.Logger) *Engine {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{kv: kv, clock: clock, logger: logger}
	e.Load()
	return e
}

// Load reads the persisted data. Unreadable or corrupt data resets the
// engine to the zero state.
func (e *Engine) Load() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = e.read()
}

func (e *Engine) read() models.StreakData {
	empty := models.StreakData{CompletionDates: []string{}}
	if e.kv == nil {
		return empty
	}
	raw, ok, err := e.kv.Get(config.KeyStreak)
	if err != nil {
		e.logger.Warn("streak_load_failed", zap.Error(err))
		return empty
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return empty
	}
	var data models.StreakData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		e.logger.Warn("streak_malformed_reset", zap.Error(err))
		return empty
	}
	if data.CurrentStreak < 0 || data.LongestStreak < 0 || data.TotalTasksCompleted < 0 {
		e.logger.Warn("streak_malformed_reset", zap.String("reason", "negative counter"))
		return empty
	}
	data.CompletionDates = normalizeDays(data.CompletionDates)
	return data
}

// RecordCompletion adds the day of ts to the day set, bumps the completion
// total and persists the result. On a failed write the new state is kept
// and the error returned.
func (e *Engine) RecordCompletion(ts time.Time) (models.StreakData, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	day := DayKey(ts.In(now.Location()))

	e.data.CompletionDates = normalizeDays(append(e.data.CompletionDates, day))
	e.data.TotalTasksCompleted++
	e.recomputeLocked(now)

	err := e.persistLocked()
	e.logger.Info("streak_completion_recorded",
		zap.String("day", day),
		zap.Int("current", e.data.CurrentStreak),
		zap.Int("longest", e.data.LongestStreak),
		zap.Int("total", e.data.TotalTasksCompleted),
	)
	return cloneData(e.data), err
}

// Rebuild replaces the day set with the days of completions and sets the
// total to their count.
func (e *Engine) Rebuild(completions []time.Time) (models.StreakData, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	days := make([]string, 0, len(completions))
	for _, ts := range completions {
		days = append(days, DayKey(ts.In(now.Location())))
	}
	e.data = models.StreakData{
		CompletionDates:     normalizeDays(days),
		TotalTasksCompleted: len(completions),
	}
	e.recomputeLocked(now)
	err := e.persistLocked()
	e.logger.Info("streak_rebuilt", zap.Int("days", len(e.data.CompletionDates)), zap.Int("total", len(completions)))
	return cloneData(e.data), err
}

func (e *Engine) recomputeLocked(now time.Time) {
	e.data.CurrentStreak = CurrentStreak(e.data.CompletionDates, now)
	e.data.LongestStreak = LongestStreak(e.data.CompletionDates, e.data.CurrentStreak)
	if n := len(e.data.CompletionDates); n > 0 {
		last := e.data.CompletionDates[n-1]
		e.data.LastActiveDate = &last
	} else {
		e.data.LastActiveDate = nil
	}
}

func (e *Engine) persistLocked() error {
	if e.kv == nil {
		return nil
	}
	raw, err := json.Marshal(e.data)
	if err != nil {
		return err
	}
	if err := e.kv.Set(config.KeyStreak, string(raw)); err != nil {
		return &database.OpError{Op: "persist", Resource: "streak", Err: err}
	}
	return nil
}

// Snapshot returns the data with the current streak re-evaluated against
// today, so a missed day reads as zero before the next completion.
func (e *Engine) Snapshot() models.StreakData {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := cloneData(e.data)
	out.CurrentStreak = CurrentStreak(out.CompletionDates, e.clock.Now())
	out.LongestStreak = max(out.LongestStreak, out.CurrentStreak)
	return out
}

// Tier is the milestone bracket of the live streak.
func (e *Engine) Tier() Tier {
	snap := e.Snapshot()
	alive := IsAlive(snap.CurrentStreak, util.Deref(snap.LastActiveDate), e.clock.Now())
	return TierFor(snap.CurrentStreak, alive)
}

func cloneData(d models.StreakData) models.StreakData {
	out := d
	out.CompletionDates = append([]string{}, d.CompletionDates...)
	if d.LastActiveDate != nil {
		last := *d.LastActiveDate
		out.LastActiveDate = &last
	}
	return out
}

// Package timetrack aggregates the time entries logged against a task.
package timetrack

import (
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/streakboard/internal/models"
)

var (
	ErrTimerRunning    = errors.New("timer already running")
	ErrTimerNotRunning = errors.New("timer not running")
)

// EntryDuration returns whole seconds between start and end, using now for an
// open entry.
func EntryDuration(start time.Time, end *time.Time, now time.Time) int64 {
	stop := now
	if end != nil {
		stop = *end
	}
	return int64(stop.Sub(start) / time.Second)
}

// TotalLoggedSeconds sums every entry, preferring the stored duration.
func TotalLoggedSeconds(tt *models.TimeTracking, now time.Time) int64 {
	if tt == nil {
		return 0
	}
	var total int64
	for _, e := range tt.Entries {
		if e.Duration != nil {
			total += *e.Duration
			continue
		}
		total += EntryDuration(e.StartTime, e.EndTime, now)
	}
	return total
}

// Breakdown is a duration split for display.
type Breakdown struct {
	Hours   int64
	Minutes int64
	Seconds int64
	Text    string
}

// FormatDuration renders total seconds as HH:MM:SS. Hours are not capped.
func FormatDuration(total int64) Breakdown {
	b := Breakdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
	b.Text = fmt.Sprintf("%02d:%02d:%02d", b.Hours, b.Minutes, b.Seconds)
	return b
}

// Start opens a new entry on tt. A task has at most one running entry.
func Start(tt *models.TimeTracking, taskID string, now time.Time, newID func() string) (models.TimeEntry, error) {
	if tt == nil {
		return models.TimeEntry{}, errors.New("timetrack: nil tracking record")
	}
	if active := activeIndex(tt); active >= 0 {
		return models.TimeEntry{}, ErrTimerRunning
	}
	entry := models.TimeEntry{
		ID:        newID(),
		TaskID:    taskID,
		StartTime: now,
		CreatedAt: now,
	}
	tt.Entries = append(tt.Entries, entry)
	Recompute(tt, now)
	return entry, nil
}

// Stop closes the running entry and stamps its duration.
func Stop(tt *models.TimeTracking, now time.Time) (models.TimeEntry, error) {
	if tt == nil {
		return models.TimeEntry{}, ErrTimerNotRunning
	}
	i := activeIndex(tt)
	if i < 0 {
		return models.TimeEntry{}, ErrTimerNotRunning
	}
	end := now
	if end.Before(tt.Entries[i].StartTime) {
		end = tt.Entries[i].StartTime
	}
	d := EntryDuration(tt.Entries[i].StartTime, &end, now)
	tt.Entries[i].EndTime = &end
	tt.Entries[i].Duration = &d
	Recompute(tt, now)
	return tt.Entries[i], nil
}

// Recompute rewrites the cached total, running flag and active entry id from
// the entries.
func Recompute(tt *models.TimeTracking, now time.Time) {
	if tt == nil {
		return
	}
	tt.TotalTime = TotalLoggedSeconds(tt, now)
	if i := activeIndex(tt); i >= 0 {
		id := tt.Entries[i].ID
		tt.IsRunning = true
		tt.ActiveEntryID = &id
		return
	}
	tt.IsRunning = false
	tt.ActiveEntryID = nil
}

func activeIndex(tt *models.TimeTracking) int {
	for i := len(tt.Entries) - 1; i >= 0; i-- {
		if tt.Entries[i].EndTime == nil {
			return i
		}
	}
	return -1
}

// Progress reports logged time against the estimate as a fraction, or -1
// when there is no estimate.
func Progress(tt *models.TimeTracking, now time.Time) float64 {
	if tt == nil || tt.EstimatedTime == nil || *tt.EstimatedTime <= 0 {
		return -1
	}
	return float64(TotalLoggedSeconds(tt, now)) / float64(*tt.EstimatedTime)
}

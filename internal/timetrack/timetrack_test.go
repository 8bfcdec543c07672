package timetrack

import (
	"errors"
	"testing"
	"time"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/testutil"
	"github.com/akyairhashvil/streakboard/internal/util"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{86399, "23:59:59"},
		{360000, "100:00:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in).Text; got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
	b := FormatDuration(3725)
	if b.Hours != 1 || b.Minutes != 2 || b.Seconds != 5 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestEntryDuration(t *testing.T) {
	start := testutil.Epoch
	end := start.Add(90*time.Second + 900*time.Millisecond)
	if got := EntryDuration(start, &end, time.Time{}); got != 90 {
		t.Fatalf("closed entry = %d, want 90", got)
	}
	if got := EntryDuration(start, nil, start.Add(2*time.Minute)); got != 120 {
		t.Fatalf("open entry = %d, want 120", got)
	}
}

func TestTotalLoggedSeconds(t *testing.T) {
	now := testutil.Epoch.Add(time.Hour)
	if got := TotalLoggedSeconds(nil, now); got != 0 {
		t.Fatalf("nil tracking = %d", got)
	}
	if got := TotalLoggedSeconds(&models.TimeTracking{}, now); got != 0 {
		t.Fatalf("empty tracking = %d", got)
	}

	closed := testutil.NewEntry("t1", testutil.Epoch).Closed(testutil.Epoch.Add(10 * time.Minute)).Build()
	stored := int64(42)
	closed.Duration = &stored
	open := testutil.NewEntry("t1", now.Add(-5*time.Minute)).WithID("open").Build()
	tt := &models.TimeTracking{Entries: []models.TimeEntry{closed, open}}
	if got := TotalLoggedSeconds(tt, now); got != 42+300 {
		t.Fatalf("total = %d, want %d", got, 42+300)
	}
}

func TestStartStop(t *testing.T) {
	clock := util.NewManualClock(testutil.Epoch)
	ids := 0
	newID := func() string {
		ids++
		return "e" + string(rune('0'+ids))
	}
	tt := &models.TimeTracking{}

	entry, err := Start(tt, "t1", clock.Now(), newID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !tt.IsRunning || tt.ActiveEntryID == nil || *tt.ActiveEntryID != entry.ID {
		t.Fatalf("expected running tracking, got %+v", tt)
	}
	if _, err := Start(tt, "t1", clock.Now(), newID); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("expected ErrTimerRunning, got %v", err)
	}

	clock.Advance(25 * time.Minute)
	stopped, err := Stop(tt, clock.Now())
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if stopped.Duration == nil || *stopped.Duration != 1500 {
		t.Fatalf("expected 1500s duration, got %v", stopped.Duration)
	}
	if tt.IsRunning || tt.ActiveEntryID != nil || tt.TotalTime != 1500 {
		t.Fatalf("cache not rewritten: %+v", tt)
	}
	if _, err := Stop(tt, clock.Now()); !errors.Is(err, ErrTimerNotRunning) {
		t.Fatalf("expected ErrTimerNotRunning, got %v", err)
	}

	if _, err := Start(tt, "t1", clock.Now(), newID); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	clock.Advance(time.Minute)
	Recompute(tt, clock.Now())
	if tt.TotalTime != 1560 {
		t.Fatalf("live total = %d, want 1560", tt.TotalTime)
	}
}

func TestProgress(t *testing.T) {
	now := testutil.Epoch
	if got := Progress(nil, now); got != -1 {
		t.Fatalf("nil progress = %v", got)
	}
	est := int64(600)
	entry := testutil.NewEntry("t1", now).Closed(now.Add(5 * time.Minute)).Build()
	tt := &models.TimeTracking{EstimatedTime: &est, Entries: []models.TimeEntry{entry}}
	if got := Progress(tt, now); got != 0.5 {
		t.Fatalf("progress = %v, want 0.5", got)
	}
}

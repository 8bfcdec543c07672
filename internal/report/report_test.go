package report

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/streak"
	"github.com/akyairhashvil/streakboard/internal/testutil"
)

func sample() Report {
	now := testutil.Epoch
	entry := testutil.NewEntry("a", now.Add(-time.Hour)).Closed(now.Add(-30 * time.Minute)).Build()
	list := []models.Task{
		testutil.NewTask().WithID("a").WithTitle("Write tests").WithTimeTracking(models.TimeTracking{Entries: []models.TimeEntry{entry}}).Build(),
		testutil.NewTask().WithID("b").WithTitle("Ship café menu").WithDue(now.Add(-time.Hour)).Build(),
		testutil.NewTask().WithID("c").WithTitle("Done thing").CompletedAt(now).Build(),
	}
	return Build(list, models.StreakData{CurrentStreak: 4, LongestStreak: 9, TotalTasksCompleted: 12}, streak.TierFlame, now)
}

func TestBuild(t *testing.T) {
	r := sample()
	if len(r.Sections) != len(models.Statuses) {
		t.Fatalf("expected a section per status")
	}
	todo := r.Sections[1]
	if todo.Status != models.StatusTodo || len(todo.Tasks) != 2 {
		t.Fatalf("unexpected todo section %+v", todo)
	}
	if todo.Tasks[0].Logged != "00:30:00" || !todo.Tasks[1].Overdue {
		t.Fatalf("unexpected rows %+v", todo.Tasks)
	}
	if r.TotalLogged != "00:30:00" {
		t.Fatalf("total = %s", r.TotalLogged)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sample()); err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestWriteFile(t *testing.T) {
	path, err := WriteFile(t.TempDir(), sample())
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("report not written: %v", err)
	}
}

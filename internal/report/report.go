// Package report renders a PDF summary of tasks, logged time and streak.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/streak"
	"github.com/akyairhashvil/streakboard/internal/timetrack"
)

// Section is one status column of the report.
type Section struct {
	Status models.TaskStatus
	Tasks  []Row
}

type Row struct {
	Title    string
	Priority string
	Due      string
	Logged   string
	Overdue  bool
}

type Report struct {
	GeneratedAt time.Time
	Sections    []Section
	TotalLogged string
	Streak      models.StreakData
	Tier        streak.Tier
}

// Build groups tasks by status in board order.
func Build(list []models.Task, data models.StreakData, tier streak.Tier, now time.Time) Report {
	r := Report{GeneratedAt: now, Streak: data, Tier: tier}
	var total int64
	for _, status := range models.Statuses {
		sec := Section{Status: status}
		for _, t := range list {
			if t.Status != status {
				continue
			}
			logged := timetrack.TotalLoggedSeconds(t.TimeTracking, now)
			total += logged
			row := Row{
				Title:    t.Title,
				Priority: t.Priority.Info().Label,
				Logged:   timetrack.FormatDuration(logged).Text,
				Overdue:  t.IsOverdue(now),
			}
			if t.DueDate != nil {
				row.Due = t.DueDate.Format("2006-01-02 15:04")
			}
			sec.Tasks = append(sec.Tasks, row)
		}
		r.Sections = append(r.Sections, sec)
	}
	r.TotalLogged = timetrack.FormatDuration(total).Text
	return r
}

// WritePDF renders r to w.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Streakboard report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Task Report: %s", r.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Streak: %d days (%s)", r.Streak.CurrentStreak, r.Tier.Info().Label)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Longest: %d days   Completed: %d   Time logged: %s",
		r.Streak.LongestStreak, r.Streak.TotalTasksCompleted, r.TotalLogged))
	pdf.Ln(12)

	for _, sec := range r.Sections {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, fmt.Sprintf("%s (%d)", sec.Status.Info().Label, len(sec.Tasks)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 11)
		if len(sec.Tasks) == 0 {
			pdf.Cell(0, 7, "  - No tasks.")
			pdf.Ln(7)
		}
		for _, row := range sec.Tasks {
			line := fmt.Sprintf("  %s  [%s]  %s", row.Title, row.Priority, row.Logged)
			if row.Due != "" {
				line += "  due " + row.Due
			}
			if row.Overdue {
				pdf.SetTextColor(200, 30, 30)
				line += "  OVERDUE"
			}
			pdf.MultiCell(0, 7, tr(line), "", "", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WriteFile renders r into dir as report_<date>.pdf and returns the path.
func WriteFile(dir string, r Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.pdf", r.GeneratedAt.Format("2006-01-02")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WritePDF(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

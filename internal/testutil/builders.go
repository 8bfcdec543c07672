package testutil

import (
	"time"

	"github.com/akyairhashvil/streakboard/internal/models"
)

// Epoch is the fixed instant builders stamp onto tasks.
var Epoch = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.Local)

// TaskBuilder provides fluent API for creating test tasks.
type TaskBuilder struct {
	task models.Task
}

func NewTask() *TaskBuilder {
	return &TaskBuilder{
		task: models.Task{
			ID:        "task-1",
			Title:     "Test Task",
			Status:    models.StatusTodo,
			Priority:  models.PriorityMedium,
			CreatedAt: Epoch,
			UpdatedAt: Epoch,
		},
	}
}

func (b *TaskBuilder) WithID(id string) *TaskBuilder {
	b.task.ID = id
	return b
}

func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.task.Title = title
	return b
}

func (b *TaskBuilder) WithDescription(d string) *TaskBuilder {
	b.task.Description = &d
	return b
}

func (b *TaskBuilder) WithStatus(s models.TaskStatus) *TaskBuilder {
	b.task.Status = s
	return b
}

func (b *TaskBuilder) WithPriority(p models.Priority) *TaskBuilder {
	b.task.Priority = p
	return b
}

func (b *TaskBuilder) WithTags(tags ...string) *TaskBuilder {
	b.task.Tags = append([]string(nil), tags...)
	return b
}

func (b *TaskBuilder) WithDue(due time.Time) *TaskBuilder {
	b.task.DueDate = &due
	return b
}

// CompletedAt marks the task done at ts.
func (b *TaskBuilder) CompletedAt(ts time.Time) *TaskBuilder {
	b.task.Status = models.StatusDone
	b.task.CompletedAt = &ts
	return b
}

func (b *TaskBuilder) WithTimeTracking(tt models.TimeTracking) *TaskBuilder {
	b.task.TimeTracking = &tt
	return b
}

func (b *TaskBuilder) Build() models.Task {
	return b.task.Clone()
}

// EntryBuilder provides fluent API for creating time entries.
type EntryBuilder struct {
	entry models.TimeEntry
}

func NewEntry(taskID string, start time.Time) *EntryBuilder {
	return &EntryBuilder{
		entry: models.TimeEntry{
			ID:        "entry-" + start.Format("150405"),
			TaskID:    taskID,
			StartTime: start,
			CreatedAt: start,
		},
	}
}

func (b *EntryBuilder) WithID(id string) *EntryBuilder {
	b.entry.ID = id
	return b
}

// Closed ends the entry at end and records its duration.
func (b *EntryBuilder) Closed(end time.Time) *EntryBuilder {
	b.entry.EndTime = &end
	d := int64(end.Sub(b.entry.StartTime) / time.Second)
	b.entry.Duration = &d
	return b
}

func (b *EntryBuilder) Build() models.TimeEntry {
	return b.entry
}

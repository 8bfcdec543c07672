package models

import "time"

// TaskStatus enumerates the board columns a task moves through.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// StatusInfo is the lookup-table row for a status.
type StatusInfo struct {
	Label string
	Order int
}

// Statuses lists statuses in board order.
var Statuses = []TaskStatus{StatusBacklog, StatusTodo, StatusInProgress, StatusDone}

var statusTable = map[TaskStatus]StatusInfo{
	StatusBacklog:    {Label: "Backlog", Order: 0},
	StatusTodo:       {Label: "To Do", Order: 1},
	StatusInProgress: {Label: "In Progress", Order: 2},
	StatusDone:       {Label: "Done", Order: 3},
}

func (s TaskStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

func (s TaskStatus) Info() StatusInfo {
	if info, ok := statusTable[s]; ok {
		return info
	}
	return StatusInfo{Label: string(s), Order: -1}
}

// Next returns the following board column; done stays done.
func (s TaskStatus) Next() TaskStatus {
	i := s.Info().Order
	if i < 0 || i+1 >= len(Statuses) {
		return s
	}
	return Statuses[i+1]
}

// Prev returns the preceding board column; backlog stays backlog.
func (s TaskStatus) Prev() TaskStatus {
	i := s.Info().Order
	if i <= 0 {
		return s
	}
	return Statuses[i-1]
}

// Priority enumerates task urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// PriorityInfo is the lookup-table row for a priority.
type PriorityInfo struct {
	Label  string
	Weight int
}

// Priorities lists priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var priorityTable = map[Priority]PriorityInfo{
	PriorityLow:    {Label: "Low", Weight: 1},
	PriorityMedium: {Label: "Medium", Weight: 2},
	PriorityHigh:   {Label: "High", Weight: 3},
	PriorityUrgent: {Label: "Urgent", Weight: 4},
}

func (p Priority) Valid() bool {
	_, ok := priorityTable[p]
	return ok
}

func (p Priority) Info() PriorityInfo {
	if info, ok := priorityTable[p]; ok {
		return info
	}
	return PriorityInfo{Label: string(p)}
}

// Cycle returns the next priority, wrapping from urgent back to low.
func (p Priority) Cycle() Priority {
	w := p.Info().Weight
	if w <= 0 || w >= len(Priorities) {
		return Priorities[0]
	}
	return Priorities[w]
}

// Task is a single tracked piece of work.
type Task struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  *string       `json:"description,omitempty"`
	Status       TaskStatus    `json:"status"`
	Priority     Priority      `json:"priority"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	TimeTracking *TimeTracking `json:"timeTracking,omitempty"`
}

// IsOverdue reports whether an unfinished task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != StatusDone && now.After(*t.DueDate)
}

// Clone returns a deep copy so snapshots handed to callers never alias store state.
func (t Task) Clone() Task {
	out := t
	if t.Description != nil {
		d := *t.Description
		out.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		out.CompletedAt = &c
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.TimeTracking != nil {
		tt := t.TimeTracking.Clone()
		out.TimeTracking = &tt
	}
	return out
}

// TimeEntry is one timer session on a task. A nil EndTime means it is running.
type TimeEntry struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  *int64     `json:"duration,omitempty"`
	Note      *string    `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TimeTracking aggregates a task's time entries. TotalTime is a cache of the
// entry durations and is rewritten on every entry mutation.
type TimeTracking struct {
	TotalTime     int64       `json:"totalTime"`
	EstimatedTime *int64      `json:"estimatedTime,omitempty"`
	IsRunning     bool        `json:"isRunning"`
	ActiveEntryID *string     `json:"activeEntryId,omitempty"`
	Entries       []TimeEntry `json:"entries"`
}

func (tt TimeTracking) Clone() TimeTracking {
	out := tt
	if tt.EstimatedTime != nil {
		e := *tt.EstimatedTime
		out.EstimatedTime = &e
	}
	if tt.ActiveEntryID != nil {
		id := *tt.ActiveEntryID
		out.ActiveEntryID = &id
	}
	if tt.Entries != nil {
		out.Entries = make([]TimeEntry, len(tt.Entries))
		for i, e := range tt.Entries {
			cp := e
			if e.EndTime != nil {
				end := *e.EndTime
				cp.EndTime = &end
			}
			if e.Duration != nil {
				d := *e.Duration
				cp.Duration = &d
			}
			if e.Note != nil {
				n := *e.Note
				cp.Note = &n
			}
			out.Entries[i] = cp
		}
	}
	return out
}

// StreakData is the persisted streak cache.
type StreakData struct {
	CurrentStreak       int      `json:"currentStreak"`
	LongestStreak       int      `json:"longestStreak"`
	LastActiveDate      *string  `json:"lastActiveDate"`
	CompletionDates     []string `json:"completionDates"`
	TotalTasksCompleted int      `json:"totalTasksCompleted"`
}

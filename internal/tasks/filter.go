package tasks

import (
	"slices"
	"strings"
	"time"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/util"
)

// Filter is a predicate over tasks.
type Filter func(models.Task) bool

func matchAll(t models.Task, filters []Filter) bool {
	for _, f := range filters {
		if f != nil && !f(t) {
			return false
		}
	}
	return true
}

func ByStatus(statuses ...models.TaskStatus) Filter {
	return func(t models.Task) bool { return slices.Contains(statuses, t.Status) }
}

func NotDone() Filter {
	return func(t models.Task) bool { return t.Status != models.StatusDone }
}

func Overdue(now time.Time) Filter {
	return func(t models.Task) bool { return t.IsOverdue(now) }
}

func WithDueDate() Filter {
	return func(t models.Task) bool { return t.DueDate != nil }
}

// FromQuery turns a parsed search query into a filter. Values within one
// field are alternatives; fields and text words must all match.
func FromQuery(q util.SearchQuery) Filter {
	if q.Empty() {
		return nil
	}
	return func(t models.Task) bool {
		if len(q.Status) > 0 && !slices.Contains(q.Status, string(t.Status)) {
			return false
		}
		if len(q.Priority) > 0 && !slices.Contains(q.Priority, string(t.Priority)) {
			return false
		}
		for _, tag := range q.Tags {
			if !slices.Contains(t.Tags, tag) {
				return false
			}
		}
		haystack := strings.ToLower(t.Title + " " + util.Deref(t.Description))
		for _, word := range q.Text {
			if !strings.Contains(haystack, strings.ToLower(word)) {
				return false
			}
		}
		return true
	}
}

// SortForBoard orders tasks by priority weight (highest first), then due
// date (soonest first, undated last), then creation time.
func SortForBoard(list []models.Task) {
	slices.SortStableFunc(list, func(a, b models.Task) int {
		if wa, wb := a.Priority.Info().Weight, b.Priority.Info().Weight; wa != wb {
			return wb - wa
		}
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return -1
		case a.DueDate == nil && b.DueDate != nil:
			return 1
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Compare(*b.DueDate)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

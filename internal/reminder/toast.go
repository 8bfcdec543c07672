package reminder

import (
	"sync"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a transient in-app message.
type Toast struct {
	Title string
	Body  string
	Level Level
	At    time.Time
}

// ToastQueue is a FIFO of pending toasts, safe for concurrent use. When
// full the oldest toast is dropped.
type ToastQueue struct {
	mu    sync.Mutex
	items []Toast
	limit int
}

func NewToastQueue(limit int) *ToastQueue {
	if limit <= 0 {
		limit = 32
	}
	return &ToastQueue{limit: limit}
}

func (q *ToastQueue) Push(t Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, t)
	if over := len(q.items) - q.limit; over > 0 {
		q.items = append([]Toast(nil), q.items[over:]...)
	}
}

// Drain removes and returns every pending toast, oldest first.
func (q *ToastQueue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (q *ToastQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

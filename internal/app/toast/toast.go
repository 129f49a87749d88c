// Package toast is the dashboard's ephemeral notification queue.
package toast

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
)

// Type is the visual kind of a toast
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// DefaultDuration is used by the typed helpers
const DefaultDuration = 5 * time.Second

// Toast is one queued notification. A non-positive Duration never expires.
type Toast struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Queue owns every toast. Callers only ever see copies.
type Queue struct {
	mu        sync.Mutex
	toasts    []Toast
	listeners map[int]func([]Toast)
	nextID    int

	now       func() time.Time
	afterFunc func(time.Duration, func())
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{
		listeners: make(map[int]func([]Toast)),
		now:       time.Now,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Post appends a toast and, when duration > 0, schedules its removal
func (q *Queue) Post(typ Type, message string, duration time.Duration) Toast {
	now := q.now()
	t := Toast{
		ID:        newID(now),
		Type:      typ,
		Message:   message,
		Duration:  duration,
		CreatedAt: now,
	}

	q.mu.Lock()
	q.toasts = append(q.toasts, t)
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	metrics.RecordToast(string(typ))
	notify(listeners, snapshot)

	if duration > 0 {
		id := t.ID
		q.afterFunc(duration, func() { q.Dismiss(id) })
	}
	return t
}

// Success posts a success toast with the default duration
func (q *Queue) Success(message string) Toast {
	return q.Post(TypeSuccess, message, DefaultDuration)
}

// Error posts an error toast with the default duration
func (q *Queue) Error(message string) Toast {
	return q.Post(TypeError, message, DefaultDuration)
}

// Warning posts a warning toast with the default duration
func (q *Queue) Warning(message string) Toast {
	return q.Post(TypeWarning, message, DefaultDuration)
}

// Info posts an info toast with the default duration
func (q *Queue) Info(message string) Toast {
	return q.Post(TypeInfo, message, DefaultDuration)
}

// Dismiss removes the toast with id. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	idx := -1
	for i, t := range q.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	q.toasts = append(q.toasts[:idx:idx], q.toasts[idx+1:]...)
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	notify(listeners, snapshot)
}

// Clear empties the queue. Pending expiry timers are left to fire as no-ops.
func (q *Queue) Clear() {
	q.mu.Lock()
	if len(q.toasts) == 0 {
		q.mu.Unlock()
		return
	}
	q.toasts = nil
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	notify(listeners, snapshot)
}

// List returns the queued toasts in insertion order
func (q *Queue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

// Len returns the number of queued toasts
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}

// Subscribe registers fn to receive the queue after every change
func (q *Queue) Subscribe(fn func([]Toast)) (unsubscribe func()) {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.listeners[id] = fn
	q.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			delete(q.listeners, id)
			q.mu.Unlock()
		})
	}
}

func (q *Queue) snapshotLocked() ([]Toast, []func([]Toast)) {
	snapshot := append([]Toast(nil), q.toasts...)
	listeners := make([]func([]Toast), 0, len(q.listeners))
	for _, fn := range q.listeners {
		listeners = append(listeners, fn)
	}
	return snapshot, listeners
}

func notify(listeners []func([]Toast), snapshot []Toast) {
	for _, fn := range listeners {
		fn(append([]Toast(nil), snapshot...))
	}
}

// newID returns "toast-<unix millis>-<9 char suffix>". Uniqueness is best effort.
func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("toast-%d-%s", now.UnixMilli(), suffix)
}

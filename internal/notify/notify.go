// Package notify carries user-facing alerts (snackbars and dialogs) from the
// console's controllers to whatever renders them.
package notify

import "sync"

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Generic messages shown for transport and status failures. Raw error detail
// is logged, never shown.
const (
	MsgProblemSaving   = "Problem Saving Data"
	MsgProblemLoading  = "Problem Loading Data"
	MsgProblemDeleting = "Problem Deleting Data"
)

// Notification is one alert for the end user.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
	// NavigateTo is the screen the renderer should move to after the alert is
	// dismissed, e.g. "/stocks" after a successful create.
	NavigateTo string `json:"navigateTo,omitempty"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Queue buffers notifications until the next response drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Notify appends n.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
}

// Drain returns and removes every buffered notification.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Discard drops notifications.
type Discard struct{}

func (Discard) Notify(Notification) {}

// Error is shorthand for an error-level notification.
func Error(message string) Notification {
	return Notification{Level: LevelError, Title: "Error", Message: message}
}

// Success is shorthand for a success-level notification.
func Success(title, message, navigateTo string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Message: message, NavigateTo: navigateTo}
}

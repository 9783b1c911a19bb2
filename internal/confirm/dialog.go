// Package confirm is a yes/no gate placed in front of destructive actions.
package confirm

import (
	"context"
	"errors"
	"sync"
)

// ErrNotOpen is returned when confirming a dialog that is not showing.
var ErrNotOpen = errors.New("confirmation dialog is not open")

// Action runs when the user confirms.
type Action func(ctx context.Context) error

// Dialog is a two-button modal. Cancel closes it without running the action;
// Confirm closes it and runs the action. It carries no entity knowledge.
type Dialog struct {
	mu      sync.Mutex
	open    bool
	title   string
	message string
	action  Action
}

// State is what the renderer needs to draw the dialog.
type State struct {
	Open    bool   `json:"open"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Open shows the dialog with title and message. A dialog that is already open
// is replaced.
func (d *Dialog) Open(title, message string, action Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.title = title
	d.message = message
	d.action = action
}

// Cancel closes the dialog without running the action.
func (d *Dialog) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// Confirm closes the dialog and runs its action. The lock is not held while
// the action runs, so the action may reopen the dialog.
func (d *Dialog) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrNotOpen
	}
	action := d.action
	d.reset()
	d.mu.Unlock()

	if action == nil {
		return nil
	}
	return action(ctx)
}

// State returns the current dialog state.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{Open: d.open, Title: d.title, Message: d.message}
}

func (d *Dialog) reset() {
	d.open = false
	d.title = ""
	d.message = ""
	d.action = nil
}

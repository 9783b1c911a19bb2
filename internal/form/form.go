// Package form holds the draft behind a create or edit screen: it tracks
// edits, derives computed fields, validates presence before submission and
// reports the outcome through a notifier.
package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/notify"
)

var (
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrNotDirty       = errors.New("nothing has changed since the record was loaded")
	ErrNotSeeded      = errors.New("edit form has no loaded record")
)

// Mode tells a create form from an edit form.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Result is what the remote endpoint acknowledged.
type Result struct {
	Message string
}

// SubmitFunc sends the draft to the create or update endpoint.
type SubmitFunc[T any] func(ctx context.Context, draft T) (Result, error)

// Options configure a Controller.
type Options[T any] struct {
	// Name identifies the form in logs, e.g. "sku-create".
	Name string
	Mode Mode
	// Empty returns the initial draft of a create form.
	Empty func() T
	// Derive recomputes derived fields after every edit.
	Derive func(*T)
	// Validate defaults to the struct-tag rules of Validate.
	Validate func(T) error
	Submit   SubmitFunc[T]
	Notifier notify.Notifier
	// SuccessTitle and NavigateTo are attached to the success notification.
	SuccessTitle string
	NavigateTo   string
}

// State is the form state handed to a renderer.
type State[T any] struct {
	Mode       Mode `json:"mode"`
	Draft      T    `json:"draft"`
	Dirty      bool `json:"dirty"`
	CanSubmit  bool `json:"canSubmit"`
	Submitting bool `json:"submitting"`
	Seeded     bool `json:"seeded"`
}

// Controller owns one draft.
type Controller[T any] struct {
	mu         sync.Mutex
	opts       Options[T]
	draft      T
	baseline   T
	seeded     bool
	submitting bool
}

// New returns a form controller. Create forms start from opts.Empty; edit
// forms stay unseeded until Seed is called with the fetched record.
func New[T any](opts Options[T]) *Controller[T] {
	if opts.Validate == nil {
		opts.Validate = func(d T) error { return Validate(d) }
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Mode == "" {
		opts.Mode = ModeCreate
	}
	c := &Controller[T]{opts: opts}
	if opts.Mode == ModeCreate {
		c.draft = c.empty()
		c.baseline = clone(c.draft)
		c.seeded = true
	}
	return c
}

func (c *Controller[T]) empty() T {
	var d T
	if c.opts.Empty != nil {
		d = c.opts.Empty()
	}
	if c.opts.Derive != nil {
		c.opts.Derive(&d)
	}
	return clone(d)
}

// Seed replaces both the draft and the baseline, e.g. with a freshly fetched
// record on an edit form.
func (c *Controller[T]) Seed(d T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.Derive != nil {
		c.opts.Derive(&d)
	}
	c.draft = clone(d)
	c.baseline = clone(d)
	c.seeded = true
}

// Reset discards the draft. A create form starts over from its empty draft;
// an edit form becomes unseeded.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.Mode == ModeCreate {
		c.draft = c.empty()
		c.baseline = clone(c.draft)
		return
	}
	var zero T
	c.draft = zero
	c.baseline = zero
	c.seeded = false
}

// Edit applies fn to the draft and recomputes derived fields.
func (c *Controller[T]) Edit(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.draft)
	if c.opts.Derive != nil {
		c.opts.Derive(&c.draft)
	}
	c.draft = clone(c.draft)
}

// Draft returns the current draft.
func (c *Controller[T]) Draft() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.draft)
}

// Dirty reports whether the draft differs from the loaded baseline.
func (c *Controller[T]) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty()
}

func (c *Controller[T]) dirty() bool {
	return !reflect.DeepEqual(c.draft, c.baseline)
}

func (c *Controller[T]) canSubmit() bool {
	if c.submitting || !c.seeded {
		return false
	}
	return c.opts.Mode == ModeCreate || c.dirty()
}

// State returns a snapshot for rendering.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Mode:       c.opts.Mode,
		Draft:      clone(c.draft),
		Dirty:      c.dirty(),
		CanSubmit:  c.canSubmit(),
		Submitting: c.submitting,
		Seeded:     c.seeded,
	}
}

// Submit validates the draft and sends it. Validation failures never reach
// the network. On failure the draft is kept so the user can retry; on success
// a create form resets and an edit form adopts the draft as its new baseline.
func (c *Controller[T]) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	switch {
	case c.submitting:
		c.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	case !c.seeded:
		c.mu.Unlock()
		return Result{}, ErrNotSeeded
	case c.opts.Mode == ModeEdit && !c.dirty():
		c.mu.Unlock()
		return Result{}, ErrNotDirty
	}
	draft := clone(c.draft)
	if err := c.opts.Validate(draft); err != nil {
		c.mu.Unlock()
		msg := MsgRequired
		var verr *ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		log.Debug().Str("form", c.opts.Name).Err(err).Msg("Draft failed validation")
		c.opts.Notifier.Notify(notify.Error(msg))
		return Result{}, err
	}
	c.submitting = true
	c.mu.Unlock()

	res, err := c.opts.Submit(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		log.Error().Err(err).Str("form", c.opts.Name).Msg("Submit failed")
		c.opts.Notifier.Notify(notify.Error(notify.MsgProblemSaving))
		return Result{}, fmt.Errorf("submit %s: %w", c.opts.Name, err)
	}

	log.Info().Str("form", c.opts.Name).Msg("Submit succeeded")
	c.opts.Notifier.Notify(notify.Success(c.opts.SuccessTitle, res.Message, c.opts.NavigateTo))
	if c.opts.Mode == ModeCreate {
		c.draft = c.empty()
	}
	c.baseline = clone(c.draft)
	return res, nil
}

// clone deep-copies d so slices in the baseline are not shared with the
// draft. Drafts are always stored as clones, keeping the dirty comparison
// independent of how a nil slice is copied.
func clone[T any](d T) T {
	var out T
	if err := copier.CopyWithOption(&out, &d, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("Draft copy failed")
		return d
	}
	return out
}

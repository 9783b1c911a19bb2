package tableview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/confirm"
)

var (
	ErrNothingSelected   = errors.New("no rows selected")
	ErrDeleteUnsupported = errors.New("bulk delete is not available for this table")
)

// ListFunc fetches the full list for a table.
type ListFunc[T Record] func(ctx context.Context) ([]T, error)

// DeleteFunc removes the rows with the given identifiers.
type DeleteFunc func(ctx context.Context, ids []string) error

// SelectAllScope decides which rows select-all covers.
type SelectAllScope int

const (
	// SelectFiltered selects every row matching the active filter, across all pages.
	SelectFiltered SelectAllScope = iota
	// SelectLoaded selects every loaded row and ignores the filter.
	SelectLoaded
)

// Options configure a Controller.
type Options[T Record] struct {
	// Name identifies the table in logs, e.g. "stocks".
	Name string
	List ListFunc[T]
	// Delete is nil for tables without bulk delete.
	Delete DeleteFunc
	// DeleteTitle and DeleteMessage are shown in the confirmation dialog.
	DeleteTitle   string
	DeleteMessage string
	State         ViewState
	SelectAll     SelectAllScope
	// OnDeleted runs after a successful bulk delete, with the removed identifiers.
	OnDeleted func(ctx context.Context, ids []string)
	// OnDeleteFailed runs when the bulk delete request fails.
	OnDeleteFailed func(ctx context.Context, ids []string, err error)
	// OnReloadFailed runs when the reload after a successful delete fails.
	OnReloadFailed func(ctx context.Context, err error)
}

// View is the derived table a renderer draws.
type View[T Record] struct {
	Rows          []T           `json:"rows"`
	Total         int           `json:"total"`
	Filtered      int           `json:"filtered"`
	Filler        int           `json:"filler"`
	State         ViewState     `json:"state"`
	AllSelected   bool          `json:"allSelected"`
	SomeSelected  bool          `json:"someSelected"`
	Loading       bool          `json:"loading"`
	Loaded        bool          `json:"loaded"`
	PageSizes     []int         `json:"pageSizes"`
	DeleteConfirm confirm.State `json:"deleteConfirm"`
	CanDelete     bool          `json:"canDelete"`
}

// Controller owns the rows and view state of one entity table. It is safe for
// concurrent use; fetches run without holding the lock.
type Controller[T Record] struct {
	mu      sync.Mutex
	opts    Options[T]
	rows    []T
	state   ViewState
	loading bool
	loaded  bool
	confirm confirm.Dialog
}

// NewController returns a controller with no rows. Call Load to fetch them.
func NewController[T Record](opts Options[T]) *Controller[T] {
	state := opts.State
	if state.PageSize <= 0 {
		state.PageSize = PageSizeOptions[0]
	}
	if state.Direction == "" {
		state.Direction = Ascending
	}
	return &Controller[T]{opts: opts, state: state.clone()}
}

// Load fetches the full list and replaces the rows. On failure the previous
// rows stay in place. Selected identifiers that no longer exist are dropped.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	rows, err := c.opts.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		log.Error().Err(err).Str("table", c.opts.Name).Msg("Failed to load table rows")
		return fmt.Errorf("load %s: %w", c.opts.Name, err)
	}
	c.rows = rows
	c.loaded = true

	ids := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		ids[r.RowID()] = struct{}{}
	}
	c.state = c.state.Retain(ids)
	return nil
}

// Rows returns a copy of the loaded rows.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.rows...)
}

// Update replaces the loaded row with identifier id by fn's result, e.g. to
// reflect an acknowledged edit without a reload. It reports whether the row
// was found.
func (c *Controller[T]) Update(id string, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.rows {
		if r.RowID() == id {
			rows := append([]T(nil), c.rows...)
			rows[i] = fn(r)
			c.rows = rows
			return true
		}
	}
	return false
}

// Loaded reports whether a list fetch has succeeded at least once.
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Has reports whether a row with identifier id is loaded.
func (c *Controller[T]) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if r.RowID() == id {
			return true
		}
	}
	return false
}

// State returns the current view state.
func (c *Controller[T]) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Restore replaces the view state, e.g. with a persisted snapshot.
func (c *Controller[T]) Restore(s ViewState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s.clone()
}

func (c *Controller[T]) apply(fn func(ViewState) ViewState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
}

// SetSort sorts by key, toggling the direction if key is already active.
func (c *Controller[T]) SetSort(key string) {
	c.apply(func(s ViewState) ViewState { return s.WithSort(key) })
}

// SetFilter replaces the filter text and resets to the first page.
func (c *Controller[T]) SetFilter(text string) {
	c.apply(func(s ViewState) ViewState { return s.WithFilter(text) })
}

// SetPage moves to page n.
func (c *Controller[T]) SetPage(n int) {
	c.apply(func(s ViewState) ViewState { return s.WithPage(n) })
}

// SetPageSize changes the page size and resets to the first page.
func (c *Controller[T]) SetPageSize(n int) {
	c.apply(func(s ViewState) ViewState { return s.WithPageSize(n) })
}

// SetDense toggles the dense display.
func (c *Controller[T]) SetDense(dense bool) {
	c.apply(func(s ViewState) ViewState { return s.WithDense(dense) })
}

// ToggleSelect adds or removes one row identifier from the selection.
func (c *Controller[T]) ToggleSelect(id string) {
	c.apply(func(s ViewState) ViewState { return s.WithToggled(id) })
}

// ToggleSelectAll clears the selection when every row in scope is already
// selected, otherwise selects every row in scope.
func (c *Controller[T]) ToggleSelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	scope := c.rows
	if c.opts.SelectAll == SelectFiltered {
		scope = Filter(c.rows, c.state.Filter)
	}
	ids := make([]string, 0, len(scope))
	for _, r := range scope {
		ids = append(ids, r.RowID())
	}
	if len(ids) > 0 && coversAll(c.state, ids) {
		c.state = c.state.WithoutSelection()
		return
	}
	c.state = c.state.WithSelection(ids)
}

// ClearSelection empties the selection.
func (c *Controller[T]) ClearSelection() {
	c.apply(func(s ViewState) ViewState { return s.WithoutSelection() })
}

// RequestDelete opens the confirmation dialog for the selected rows.
func (c *Controller[T]) RequestDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.Delete == nil {
		return ErrDeleteUnsupported
	}
	if len(c.state.Selected) == 0 {
		return ErrNothingSelected
	}
	c.confirm.Open(c.opts.DeleteTitle, c.opts.DeleteMessage, c.deleteSelected)
	return nil
}

// ConfirmDelete runs the pending bulk delete.
func (c *Controller[T]) ConfirmDelete(ctx context.Context) error {
	return c.confirm.Confirm(ctx)
}

// CancelDelete closes the confirmation dialog without deleting.
func (c *Controller[T]) CancelDelete() {
	c.confirm.Cancel()
}

// deleteSelected submits the selection to the bulk delete endpoint, then clears
// the selection and reloads. On failure the selection is kept for a retry. A
// failed reload does not fail the delete: the removed rows are dropped locally
// and the rest stay as loaded.
func (c *Controller[T]) deleteSelected(ctx context.Context) error {
	c.mu.Lock()
	ids := append([]string(nil), c.state.Selected...)
	c.mu.Unlock()
	if len(ids) == 0 {
		return ErrNothingSelected
	}

	if err := c.opts.Delete(ctx, ids); err != nil {
		log.Error().Err(err).Str("table", c.opts.Name).Strs("ids", ids).Msg("Bulk delete failed")
		if c.opts.OnDeleteFailed != nil {
			c.opts.OnDeleteFailed(ctx, ids, err)
		}
		return fmt.Errorf("delete %s: %w", c.opts.Name, err)
	}
	log.Info().Str("table", c.opts.Name).Strs("ids", ids).Msg("Bulk delete succeeded")

	c.ClearSelection()
	if c.opts.OnDeleted != nil {
		c.opts.OnDeleted(ctx, ids)
	}
	if err := c.Load(ctx); err != nil {
		c.remove(ids)
		if c.opts.OnReloadFailed != nil {
			c.opts.OnReloadFailed(ctx, err)
		}
	}
	return nil
}

func (c *Controller[T]) remove(ids []string) {
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]T, 0, len(c.rows))
	for _, r := range c.rows {
		if _, ok := gone[r.RowID()]; !ok {
			kept = append(kept, r)
		}
	}
	c.rows = kept
}

// View derives the visible page: filter, then sort, then paginate.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := Filter(c.rows, c.state.Filter)
	sorted := Sort(filtered, c.state.SortKey, c.state.Direction)
	page := Paginate(sorted, c.state.Page, c.state.PageSize)

	ids := make([]string, 0, len(filtered))
	for _, r := range filtered {
		ids = append(ids, r.RowID())
	}
	selectedInView := 0
	for _, id := range ids {
		if c.state.IsSelected(id) {
			selectedInView++
		}
	}

	return View[T]{
		Rows:          page,
		Total:         len(c.rows),
		Filtered:      len(filtered),
		Filler:        Filler(len(filtered), c.state.Page, c.state.PageSize),
		State:         c.state.clone(),
		AllSelected:   len(ids) > 0 && selectedInView == len(ids),
		SomeSelected:  selectedInView > 0 && selectedInView < len(ids),
		Loading:       c.loading,
		Loaded:        c.loaded,
		PageSizes:     PageSizeOptions,
		DeleteConfirm: c.confirm.State(),
		CanDelete:     c.opts.Delete != nil,
	}
}

func coversAll(s ViewState, ids []string) bool {
	for _, id := range ids {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

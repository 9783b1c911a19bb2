package tableview

import "slices"

// PageSizeOptions are the page sizes offered by every table.
var PageSizeOptions = []int{5, 10, 25}

// ViewState is the per-screen table state. Every transition returns a new
// value; the receiver is never modified, so states can be snapshotted and
// compared freely.
type ViewState struct {
	SortKey   string    `json:"sortKey"`
	Direction Direction `json:"direction"`
	Filter    string    `json:"filter"`
	Page      int       `json:"page"`
	PageSize  int       `json:"pageSize"`
	Selected  []string  `json:"selected"`
	Dense     bool      `json:"dense"`
}

// NewViewState returns the initial state for a table sorted ascending by sortKey.
func NewViewState(sortKey string, pageSize int, dense bool) ViewState {
	if pageSize <= 0 {
		pageSize = PageSizeOptions[0]
	}
	return ViewState{
		SortKey:   sortKey,
		Direction: Ascending,
		PageSize:  pageSize,
		Selected:  []string{},
		Dense:     dense,
	}
}

// WithSort toggles the direction when key is already the sort key, otherwise
// sorts ascending by key.
func (s ViewState) WithSort(key string) ViewState {
	next := s.clone()
	if key == s.SortKey {
		next.Direction = s.Direction.Toggle()
	} else {
		next.SortKey = key
		next.Direction = Ascending
	}
	return next
}

// WithFilter replaces the filter text and returns to the first page. Sort is kept.
func (s ViewState) WithFilter(text string) ViewState {
	next := s.clone()
	next.Filter = text
	next.Page = 0
	return next
}

// WithPage moves to page n. Negative pages clamp to 0.
func (s ViewState) WithPage(n int) ViewState {
	next := s.clone()
	next.Page = max(0, n)
	return next
}

// WithPageSize changes the page size and returns to the first page.
// Non-positive sizes are ignored.
func (s ViewState) WithPageSize(n int) ViewState {
	next := s.clone()
	if n > 0 {
		next.PageSize = n
	}
	next.Page = 0
	return next
}

// WithDense sets the display density. It affects row height only.
func (s ViewState) WithDense(dense bool) ViewState {
	next := s.clone()
	next.Dense = dense
	return next
}

// IsSelected reports whether id is in the selection.
func (s ViewState) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

// WithToggled adds id to the selection, or removes it when already present.
func (s ViewState) WithToggled(id string) ViewState {
	next := s.clone()
	if i := slices.Index(next.Selected, id); i >= 0 {
		next.Selected = slices.Delete(next.Selected, i, i+1)
	} else {
		next.Selected = append(next.Selected, id)
	}
	return next
}

// WithSelection replaces the selection with ids, dropping duplicates.
func (s ViewState) WithSelection(ids []string) ViewState {
	next := s.clone()
	next.Selected = make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(next.Selected, id) {
			next.Selected = append(next.Selected, id)
		}
	}
	return next
}

// WithoutSelection clears the selection.
func (s ViewState) WithoutSelection() ViewState {
	next := s.clone()
	next.Selected = []string{}
	return next
}

// Retain drops selected identifiers that are not in ids.
func (s ViewState) Retain(ids map[string]struct{}) ViewState {
	next := s.clone()
	next.Selected = slices.DeleteFunc(next.Selected, func(id string) bool {
		_, ok := ids[id]
		return !ok
	})
	return next
}

func (s ViewState) clone() ViewState {
	s.Selected = slices.Clone(s.Selected)
	if s.Selected == nil {
		s.Selected = []string{}
	}
	return s
}

// Package tableview derives the visible page of an entity list from the full
// fetched rows and the screen's view state (sort, filter, page, selection).
package tableview

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Record is a row the table view can sort, filter and select.
type Record interface {
	RowID() string
	// Fields maps column keys to scalar values. Absent keys and nil values are
	// treated as missing.
	Fields() map[string]any
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// descending orders a before b when a's value is greater. Missing values are
// less than any present value.
func descending(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := compareValues(a, b)
	switch {
	case c > 0:
		return -1
	case c < 0:
		return 1
	}
	return 0
}

// Comparator returns the row comparison for key and direction. Ascending is
// the negation of descending.
func Comparator[T Record](key string, dir Direction) func(a, b T) int {
	return func(a, b T) int {
		c := descending(a.Fields()[key], b.Fields()[key])
		if dir == Descending {
			return c
		}
		return -c
	}
}

// Sort returns a new slice of rows ordered by key. Rows with equal keys keep
// their original relative order. The input is not modified.
func Sort[T Record](rows []T, key string, dir Direction) []T {
	type indexed struct {
		row    T
		idx    int
		fields map[string]any
	}
	pairs := make([]indexed, len(rows))
	for i, r := range rows {
		pairs[i] = indexed{row: r, idx: i, fields: r.Fields()}
	}
	slices.SortFunc(pairs, func(a, b indexed) int {
		c := descending(a.fields[key], b.fields[key])
		if dir != Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return a.idx - b.idx
	})
	out := make([]T, len(pairs))
	for i, p := range pairs {
		out[i] = p.row
	}
	return out
}

// compareValues orders two present values by their natural ordering: numbers
// numerically, strings lexically, false before true, times chronologically.
// Values of different kinds fall back to comparing their text.
func compareValues(a, b any) int {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(text(a), text(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// text converts a value to the text used for filtering and mixed-kind comparisons.
func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

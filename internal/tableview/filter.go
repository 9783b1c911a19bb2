package tableview

import "strings"

// Filter returns the rows where any field value, as lower-cased text, contains
// the lower-cased query. A blank query matches every row. Missing values never
// match. The input is not modified.
//
// Every keystroke re-filters the whole list in memory; this is fine for the
// list sizes the upstream API returns in one response.
func Filter[T Record](rows []T, query string) []T {
	out := make([]T, 0, len(rows))
	if query == "" {
		return append(out, rows...)
	}
	q := strings.ToLower(query)
	for _, r := range rows {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Record, lowered string) bool {
	for _, v := range r.Fields() {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(text(v)), lowered) {
			return true
		}
	}
	return false
}

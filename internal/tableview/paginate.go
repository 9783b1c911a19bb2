package tableview

// Window returns the half-open index range [start, end) of page within a list
// of n rows, clamped so it is never negative or out of range.
func Window(n, page, size int) (start, end int) {
	if size <= 0 || page < 0 || n <= 0 {
		return 0, 0
	}
	start = page * size
	if start > n {
		start = n
	}
	end = start + size
	if end > n {
		end = n
	}
	return start, end
}

// Paginate returns the rows of page. The returned slice has length
// min(size, max(0, len(rows)-page*size)).
func Paginate[T any](rows []T, page, size int) []T {
	start, end := Window(len(rows), page, size)
	return rows[start:end:end]
}

// Filler returns how many empty rows the renderer pads the page with so row
// height stays constant across pages. The first page is never padded.
func Filler(n, page, size int) int {
	if page <= 0 || size <= 0 {
		return 0
	}
	return min(size, max(0, (page+1)*size-n))
}

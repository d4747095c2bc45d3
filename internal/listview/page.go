// Package listview derives the page a viewer sees from an in-memory list.
// The pipeline is fixed: filter, then sort, then paginate, and every step is
// pure so the same inputs always produce the same page.
package listview

// Page is one window into a filtered, sorted list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Index      int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// paginate slices items into 1-based pages of the given size. Out-of-range
// page indexes clamp to the nearest valid page; they never wrap.
func paginate[T any](items []T, page, size int) Page[T] {
	totalPages := (len(items) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Index:      page,
		TotalPages: totalPages,
		TotalItems: len(items),
	}
}

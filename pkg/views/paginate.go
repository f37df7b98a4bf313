package views

// Page sizes used by the list screens.
const (
	DefaultPageSize = 5
	SummaryPageSize = 2
)

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// Paginate returns page number of items. The page is clamped to
// [1, TotalPages] and TotalPages is at least 1, so an empty list has one empty
// page. A size <= 0 puts everything on one page.
func Paginate[T any](items []T, number, size int) Page[T] {
	total := len(items)
	if size <= 0 {
		size = max(total, 1)
	}

	pages := max((total+size-1)/size, 1)
	number = min(max(number, 1), pages)

	start := min((number-1)*size, total)
	end := min(start+size, total)

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: pages,
	}
}

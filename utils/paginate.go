package utils

import "strconv"

// Page is a bounded slice of an ordered sequence plus navigation metadata.
type Page struct {
	Items      interface{} `json:"items"`
	Number     int         `json:"page"`
	Size       int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
	HasPrev    bool        `json:"has_prev"`
}

// PageCount returns the number of pages needed for total items at the given
// size. An empty result set still has one (empty) page.
func PageCount(total int64, size int) int {
	if size <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// ResolvePageNumber parses a raw page parameter. Non-numeric or non-positive
// input resolves to page 1; input past the end clamps to the last page.
func ResolvePageNumber(raw string, totalPages int) int {
	page := 1
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		page = n
	}
	if page > totalPages {
		page = totalPages
	}
	return page
}

// NewPage assembles a Page for the given slice of a result set.
func NewPage(items interface{}, number, size int, total int64) Page {
	totalPages := PageCount(total, size)
	return Page{
		Items:      items,
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}

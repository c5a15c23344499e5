package pagination

import "math"

// PageRequest holds optional display-windowing parameters parsed from query
// strings. The ledger queries always produce the complete matching set;
// windowing is applied afterwards, and a zero request means "everything".
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// IsZero reports whether the caller asked for any windowing at all.
func (p PageRequest) IsZero() bool {
	return p.Page == 0 && p.PageSize == 0
}

// PageResponse wraps a windowed list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Window applies display windowing to an already-complete result set. A zero
// request returns the entire set as a single page.
func Window[T any](items []T, req PageRequest) PageResponse[T] {
	total := int64(len(items))

	if req.IsZero() {
		if items == nil {
			items = []T{}
		}
		pages := 0
		if total > 0 {
			pages = 1
		}
		return PageResponse[T]{Data: items, Page: 1, PageSize: len(items), TotalItems: total, TotalPages: pages}
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	start := (req.Page - 1) * req.PageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + req.PageSize
	if end > len(items) {
		end = len(items)
	}

	data := items[start:end]
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(req.PageSize))),
	}
}

package response

// PageResponse is the standard wrapper for paginated list endpoints. Total is
// the matching-row count reported by the repository, not the page length.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse wraps one page of items together with the full match count.
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// Avoid JSON null for empty result sets
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}

// ListResponse is the wrapper for non-paginated list endpoints. The
// scheduled-event read paths return full result sets, so there is no paging
// envelope beyond the item count.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse wraps items for a list endpoint.
func NewListResponse[T any](items []T) ListResponse[T] {
	// Avoid JSON null for empty result sets
	if items == nil {
		items = make([]T, 0)
	}

	return ListResponse[T]{
		Items: items,
		Total: len(items),
	}
}

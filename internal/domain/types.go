package domain

// ID is used across domain entities.
type ID int64

// Pagination carries paging params and totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Offset converts page/limit into a LIMIT/OFFSET pair. Zero limit means "all rows".
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope returned by every collection endpoint.
type Page[T any] struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Items []T `json:"items"`
}

// NewPage fills page/limit defaults the way list endpoints report them:
// without paging the whole set is one page.
func NewPage[T any](items []T, p Pagination, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	page, limit := p.Page, p.Limit
	if page <= 0 || limit <= 0 {
		page = 1
		limit = total
	}
	return Page[T]{Total: total, Page: page, Limit: limit, Items: items}
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"isAdmin"`
}

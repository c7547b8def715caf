package domain

// PaginationParams carries page/per-page values from the HTTP layer to the
// repo layer. Page is 1-indexed. PerPage is capped by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// PerPage is the maximum number of items to return.
	PerPage int
}

// NewPaginationParams builds PaginationParams from optional raw values.
// Zero or negative values fall back to defaults (page=1, perPage=20).
// PerPage is capped at maxPerPage so a malformed or hostile per_page query
// parameter can never request an unbounded page.
func NewPaginationParams(page, perPage, maxPerPage int) PaginationParams {
	p := PaginationParams{Page: 1, PerPage: 20}
	if maxPerPage < 1 {
		maxPerPage = 50
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if page >= 1 {
		p.Page = page
	}
	if perPage >= 1 {
		p.PerPage = perPage
		if p.PerPage > maxPerPage {
			p.PerPage = maxPerPage
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one page of query results plus the pagination envelope the listing
// endpoints return.
type Page[T any] struct {
	Items    []T   `json:"data"`
	Total    int64 `json:"total"`
	PageNum  int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// NewPage assembles a Page from items, the total match count, and the
// pagination parameters that produced it. LastPage is at least 1 even for an
// empty result set.
func NewPage[T any](items []T, total int64, p PaginationParams) Page[T] {
	last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}
	return Page[T]{
		Items:    items,
		Total:    total,
		PageNum:  p.Page,
		PerPage:  p.PerPage,
		LastPage: last,
	}
}

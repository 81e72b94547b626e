package pagination

// Order list page sizes. A request past MaxPerPage gets MaxPerPage rows.
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Pagination describes where a page of orders sits in the full list
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams is the page/per_page pair bound from the list query string
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination is the first page at the default size
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PerPage: DefaultPerPage}
}

// Validate clamps params bound from an untrusted query string
func (p *PaginationParams) Validate() {
	p.Page = max(p.Page, 1)
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
}

// Offset is the number of rows skipped before this page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination builds the page summary for a list of total rows.
// An empty list has zero pages.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult is one page of rows plus its summary
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult pairs a page of rows with its summary. A nil page is
// sent as an empty list.
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{Items: items, Pagination: pagination}
}

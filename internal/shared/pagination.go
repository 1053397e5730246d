package shared

import "math"

const (
	// DefaultPerPage is used when a listing does not specify a page size.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the half-open slice window for the current page, clamped to
// total. Pages past the end yield an empty window at total.
func (p Pagination) Bounds() (start, end int) {
	if p.Total <= 0 || p.PerPage <= 0 {
		return 0, 0
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	// Checked before multiplying so huge page numbers cannot overflow.
	if page-1 > p.Total/p.PerPage {
		return p.Total, p.Total
	}
	start = (page - 1) * p.PerPage
	if start > p.Total {
		start = p.Total
	}
	end = start + min(p.PerPage, p.Total-start)
	return start, end
}

// HasNext reports whether another page follows this one.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

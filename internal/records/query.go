package records

import (
	"github.com/petrocom/uts/internal/shared"
)

// Query is a full list-page request: criteria, optional sort and page window.
type Query struct {
	Criteria Criteria
	Sort     *SortSpec
	Page     int
	PerPage  int
}

// Result is one page of a filtered, sorted view.
type Result struct {
	Records    []Record
	Matched    []Record
	Pagination shared.Pagination
	// Empty is set when no record satisfies the criteria. It is a normal
	// outcome rendered as a "no results" view, not an error.
	Empty bool
}

// Run filters, sorts and pages the collection. Matched holds the whole
// filtered and sorted view (what an export writes); Records holds the page.
func Run(c *Collection, q Query, opts ...Option) (Result, error) {
	filter, err := NewFilter(c.Schema(), q.Criteria, opts...)
	if err != nil {
		return Result{}, err
	}
	matched := filter.Apply(c.Records())
	if q.Sort != nil && q.Sort.Field != "" {
		matched, err = Sort(c.Schema(), matched, *q.Sort)
		if err != nil {
			return Result{}, err
		}
	}
	page := Paginate(matched, q.Page, q.PerPage)
	return Result{
		Records:    page.Records,
		Matched:    matched,
		Pagination: page.Pagination,
		Empty:      len(matched) == 0,
	}, nil
}

// Page is a window over a record slice.
type Page struct {
	Records    []Record
	Pagination shared.Pagination
}

// Paginate slices recs to the requested page. Pages past the end are empty.
func Paginate(recs []Record, page, perPage int) Page {
	p := shared.NewPagination(page, perPage, len(recs))
	start, end := p.Bounds()
	return Page{Records: recs[start:end:end], Pagination: p}
}

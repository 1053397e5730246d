package dashboard

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

type listParams struct {
	Query   string `validate:"max=200"`
	Range   string `validate:"omitempty,oneof=7 30 90 365 7d 30d 90d 365d all"`
	Sort    string `validate:"omitempty,max=64"`
	Dir     string `validate:"omitempty,oneof=asc desc ascending descending"`
	Page    int    `validate:"gte=0,lte=100000"`
	PerPage int    `validate:"gte=0,lte=100"`
}

// fieldErrors maps query parameter names to messages.
type fieldErrors map[string]string

func (e fieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, k+": "+v)
	}
	return "invalid query: " + strings.Join(parts, ", ")
}

var paramNames = map[string]string{
	"Query":   "q",
	"Range":   "range",
	"Sort":    "sort",
	"Dir":     "dir",
	"Page":    "page",
	"PerPage": "per_page",
}

// parseQuery turns URL parameters into a records.Query for d. Categorical
// filters are read from parameters named after the dataset's filter fields.
func (h *Handler) parseQuery(d *datasets.Dataset, values url.Values) (records.Query, error) {
	errs := fieldErrors{}
	params := listParams{
		Query: strings.TrimSpace(values.Get("q")),
		Range: strings.ToLower(strings.TrimSpace(values.Get("range"))),
		Sort:  strings.TrimSpace(values.Get("sort")),
		Dir:   strings.ToLower(strings.TrimSpace(values.Get("dir"))),
	}
	params.Page = intParam(values, "page", errs)
	params.PerPage = intParam(values, "per_page", errs)
	if len(errs) > 0 {
		return records.Query{}, errs
	}
	if err := h.validator.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return records.Query{}, err
		}
		for _, fe := range verrs {
			errs[paramNames[fe.Field()]] = "failed " + fe.Tag()
		}
		return records.Query{}, errs
	}

	q := records.Query{
		Criteria: records.Criteria{Query: params.Query},
		Page:     params.Page,
		PerPage:  params.PerPage,
	}
	if len(d.Filters) > 0 {
		q.Criteria.Equals = make(map[string]string, len(d.Filters))
		for _, field := range d.Filters {
			q.Criteria.Equals[field] = strings.TrimSpace(values.Get(field))
		}
	}
	if params.Range != "" {
		if d.DateField == "" {
			return records.Query{}, fieldErrors{"range": "dataset has no date field"}
		}
		days, err := records.ParseWindow(params.Range)
		if err != nil {
			return records.Query{}, fieldErrors{"range": err.Error()}
		}
		q.Criteria.Range = &records.Range{Field: d.DateField, Days: days}
	}

	switch {
	case params.Sort != "":
		if _, ok := d.Schema().Field(params.Sort); !ok {
			return records.Query{}, fieldErrors{"sort": "unknown field"}
		}
		dir, err := records.ParseDirection(params.Dir)
		if err != nil {
			return records.Query{}, fieldErrors{"dir": err.Error()}
		}
		q.Sort = &records.SortSpec{Field: params.Sort, Direction: dir}
	case d.DefaultSort != nil:
		spec := *d.DefaultSort
		q.Sort = &spec
	}
	if q.PerPage == 0 {
		q.PerPage = shared.DefaultPerPage
	}
	return q, nil
}

func intParam(values url.Values, name string, errs fieldErrors) int {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[name] = "must be an integer"
		return 0
	}
	return n
}

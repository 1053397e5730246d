package records

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// All is the sentinel meaning "no restriction" for categorical and range constraints.
const All = "all"

// Windows lists the accepted date-range windows, in days.
var Windows = []int{7, 30, 90, 365}

// ErrInvalidWindow is returned by ParseWindow for values outside Windows.
var ErrInvalidWindow = errors.New("records: invalid date window")

// Range restricts a time field to the last Days days. Days == 0 is unconstrained.
type Range struct {
	Field string
	Days  int
}

// Criteria combines free-text, categorical and date-range constraints.
// Empty values and All mean "no restriction".
type Criteria struct {
	Query  string
	Equals map[string]string
	Range  *Range
}

// ParseWindow accepts "7", "30", "90", "365", "all" or "" and returns the window in days.
func ParseWindow(raw string) (int, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || raw == All {
		return 0, nil
	}
	days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, raw)
	}
	for _, w := range Windows {
		if w == days {
			return days, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, raw)
}

// Option configures a Filter.
type Option func(*Filter)

// WithClock overrides the time source used by date-range constraints.
func WithClock(now func() time.Time) Option {
	return func(f *Filter) {
		if now != nil {
			f.now = now
		}
	}
}

// WithSearchFields overrides the schema's searchable fields for this filter.
func WithSearchFields(fields ...string) Option {
	return func(f *Filter) {
		f.searchOverride = append([]string(nil), fields...)
	}
}

type equality struct {
	field string
	want  string
}

// Filter is a compiled, validated Criteria. A Filter is not safe for
// concurrent use; build one per request.
type Filter struct {
	schema         *Schema
	now            func() time.Time
	searchOverride []string

	query    string
	search   []string
	equals   []equality
	rng      *Range
	folder   cases.Caser
	hasQuery bool
}

// NewFilter validates criteria against schema. Unknown field names fail here
// rather than silently matching nothing.
func NewFilter(schema *Schema, criteria Criteria, opts ...Option) (*Filter, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	f := &Filter{schema: schema, now: time.Now, folder: cases.Fold()}
	for _, opt := range opts {
		opt(f)
	}

	f.search = schema.Searchable()
	if f.searchOverride != nil {
		for _, name := range f.searchOverride {
			if _, err := schema.lookup(name); err != nil {
				return nil, err
			}
		}
		f.search = f.searchOverride
	}

	if q := strings.TrimSpace(criteria.Query); q != "" {
		f.hasQuery = true
		f.query = f.folder.String(q)
	}

	names := make([]string, 0, len(criteria.Equals))
	for name := range criteria.Equals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := schema.lookup(name); err != nil {
			return nil, err
		}
		want := criteria.Equals[name]
		if want == "" || want == All {
			continue
		}
		f.equals = append(f.equals, equality{field: name, want: want})
	}

	if criteria.Range != nil && criteria.Range.Days != 0 {
		if criteria.Range.Days < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, criteria.Range.Days)
		}
		if _, err := schema.lookup(criteria.Range.Field, KindTime); err != nil {
			return nil, err
		}
		r := *criteria.Range
		f.rng = &r
	}
	return f, nil
}

// Active reports whether any constraint restricts the result.
func (f *Filter) Active() bool {
	return f.hasQuery || len(f.equals) > 0 || f.rng != nil
}

// Apply returns the records matching every active constraint, in input order.
func (f *Filter) Apply(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	cutoff := f.cutoff()
	for _, rec := range recs {
		if f.match(rec, cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// Match reports whether a single record satisfies the filter.
func (f *Filter) Match(rec Record) bool {
	return f.match(rec, f.cutoff())
}

func (f *Filter) cutoff() time.Time {
	if f.rng == nil {
		return time.Time{}
	}
	return f.now().AddDate(0, 0, -f.rng.Days)
}

func (f *Filter) match(rec Record, cutoff time.Time) bool {
	if f.hasQuery && !f.matchQuery(rec) {
		return false
	}
	for _, eq := range f.equals {
		got, err := Text(rec[eq.field])
		if err != nil || got != eq.want {
			return false
		}
	}
	if f.rng != nil {
		t, ok := Time(rec[f.rng.Field])
		if !ok || t.Before(cutoff) {
			return false
		}
	}
	return true
}

func (f *Filter) matchQuery(rec Record) bool {
	for _, name := range f.search {
		text, err := Text(rec[name])
		if err != nil || text == "" {
			continue
		}
		if strings.Contains(f.folder.String(text), f.query) {
			return true
		}
	}
	return false
}

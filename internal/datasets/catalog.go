// Package datasets defines the mock record collections behind each dashboard
// page together with their filters, projections and default ordering.
package datasets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petrocom/uts/internal/payments"
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// ErrInvalidDataset is returned by NewCatalog for inconsistent definitions.
var ErrInvalidDataset = errors.New("datasets: invalid dataset")

// Dataset is one list page: its seed records and how they are presented.
type Dataset struct {
	Name  string
	Title string
	// Role is the role allowed to see the page; empty means public.
	Role       shared.Role
	Collection *records.Collection
	Projection *records.Projection
	// Filters are the categorical fields offered as dropdowns.
	Filters []string
	// DateField is the field the range window applies to, if any.
	DateField   string
	DefaultSort *records.SortSpec
	Workflow    *payments.Workflow
	// ChartGroup and ChartSum feed Aggregate for the overview charts.
	ChartGroup string
	ChartSum   string
}

// Public reports whether the dataset needs no sign-in.
func (d *Dataset) Public() bool {
	return d.Role == ""
}

// Schema is shorthand for the collection schema.
func (d *Dataset) Schema() *records.Schema {
	return d.Collection.Schema()
}

// Options returns the distinct values of a filter field, sorted, for dropdowns.
func (d *Dataset) Options(field string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range d.Collection.Records() {
		v := rec.Text(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (d *Dataset) validate() error {
	if d.Name == "" || d.Collection == nil || d.Projection == nil {
		return fmt.Errorf("%w: %q is incomplete", ErrInvalidDataset, d.Name)
	}
	schema := d.Schema()
	for _, name := range d.Filters {
		f, ok := schema.Field(name)
		if !ok || f.Kind != records.KindCategory {
			return fmt.Errorf("%w: %s filter %q is not a category field", ErrInvalidDataset, d.Name, name)
		}
	}
	if d.DateField != "" {
		f, ok := schema.Field(d.DateField)
		if !ok || f.Kind != records.KindTime {
			return fmt.Errorf("%w: %s date field %q is not a time field", ErrInvalidDataset, d.Name, d.DateField)
		}
	}
	if d.DefaultSort != nil {
		if _, ok := schema.Field(d.DefaultSort.Field); !ok {
			return fmt.Errorf("%w: %s sort field %q", ErrInvalidDataset, d.Name, d.DefaultSort.Field)
		}
	}
	if d.Workflow != nil {
		f, ok := schema.Field(d.Workflow.Field)
		if !ok || f.Kind != records.KindCategory {
			return fmt.Errorf("%w: %s workflow field %q", ErrInvalidDataset, d.Name, d.Workflow.Field)
		}
	}
	if d.ChartGroup != "" {
		if _, err := records.Aggregate(schema, nil, d.ChartGroup, d.ChartSum); err != nil {
			return fmt.Errorf("%w: %s chart: %v", ErrInvalidDataset, d.Name, err)
		}
	}
	return nil
}

// Catalog indexes datasets by name.
type Catalog struct {
	order  []*Dataset
	byName map[string]*Dataset
}

// NewCatalog validates and indexes ds, keeping their order.
func NewCatalog(ds ...*Dataset) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Dataset, len(ds))}
	for _, d := range ds {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidDataset, d.Name)
		}
		c.byName[d.Name] = d
		c.order = append(c.order, d)
	}
	return c, nil
}

// Default returns the catalog of every seeded page.
func Default() *Catalog {
	c, err := NewCatalog(
		Transactions(),
		AuditLogs(),
		WorkPermits(),
		Personnel(),
		JVProjects(),
		Compliance(),
		Applications(),
		Documents(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Get looks a dataset up by name.
func (c *Catalog) Get(name string) (*Dataset, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// ForRole lists the datasets a role's dashboard shows.
func (c *Catalog) ForRole(role shared.Role) []*Dataset {
	var out []*Dataset
	for _, d := range c.order {
		if d.Role == role && role != "" {
			out = append(out, d)
		}
	}
	return out
}

// Public lists the datasets served without sign-in.
func (c *Catalog) Public() []*Dataset {
	var out []*Dataset
	for _, d := range c.order {
		if d.Public() {
			out = append(out, d)
		}
	}
	return out
}

// All lists every dataset in catalog order.
func (c *Catalog) All() []*Dataset {
	return append([]*Dataset(nil), c.order...)
}

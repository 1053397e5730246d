package records

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OtherGroup collects detail fields not placed in any named group.
const OtherGroup = "Other"

// Group names a section of the detail view.
type Group struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// Cell is one formatted field value.
type Cell struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SummaryRow is the list-table representation of a record.
type SummaryRow struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// DetailSection is one titled group of cells.
type DetailSection struct {
	Title string `json:"title"`
	Cells []Cell `json:"cells"`
}

// DetailView shows every field of a record, grouped.
type DetailView struct {
	ID       string          `json:"id"`
	Sections []DetailSection `json:"sections"`
}

// Projection maps records to summary rows and detail views.
type Projection struct {
	schema  *Schema
	summary []string
	groups  []Group
	printer *message.Printer
}

// NewProjection validates the summary and group field names. Fields left out
// of every group are shown in a trailing OtherGroup section.
func NewProjection(schema *Schema, summary []string, groups ...Group) (*Projection, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	for _, name := range summary {
		if _, err := schema.lookup(name); err != nil {
			return nil, err
		}
	}
	placed := make(map[string]bool, schema.Len())
	out := make([]Group, 0, len(groups)+1)
	for _, g := range groups {
		for _, name := range g.Fields {
			if _, err := schema.lookup(name); err != nil {
				return nil, err
			}
			placed[name] = true
		}
		out = append(out, Group{Title: g.Title, Fields: append([]string(nil), g.Fields...)})
	}
	var rest []string
	for _, f := range schema.fields {
		if !placed[f.Name] {
			rest = append(rest, f.Name)
		}
	}
	if len(rest) > 0 {
		out = append(out, Group{Title: OtherGroup, Fields: rest})
	}
	return &Projection{
		schema:  schema,
		summary: append([]string(nil), summary...),
		groups:  out,
		printer: message.NewPrinter(language.English),
	}, nil
}

// MustProjection is NewProjection for static definitions; it panics on error.
func MustProjection(schema *Schema, summary []string, groups ...Group) *Projection {
	p, err := NewProjection(schema, summary, groups...)
	if err != nil {
		panic(err)
	}
	return p
}

// Row projects rec to its summary row.
func (p *Projection) Row(rec Record) SummaryRow {
	row := SummaryRow{ID: rec.Text(p.schema.key), Cells: make([]Cell, 0, len(p.summary))}
	for _, name := range p.summary {
		row.Cells = append(row.Cells, p.cell(name, rec))
	}
	return row
}

// Rows projects each record in order.
func (p *Projection) Rows(recs []Record) []SummaryRow {
	rows := make([]SummaryRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, p.Row(rec))
	}
	return rows
}

// Detail projects rec to its grouped detail view.
func (p *Projection) Detail(rec Record) DetailView {
	view := DetailView{ID: rec.Text(p.schema.key), Sections: make([]DetailSection, 0, len(p.groups))}
	for _, g := range p.groups {
		section := DetailSection{Title: g.Title, Cells: make([]Cell, 0, len(g.Fields))}
		for _, name := range g.Fields {
			section.Cells = append(section.Cells, p.cell(name, rec))
		}
		view.Sections = append(view.Sections, section)
	}
	return view
}

func (p *Projection) cell(name string, rec Record) Cell {
	f, _ := p.schema.Field(name)
	return Cell{Field: name, Label: f.Label, Value: p.Format(f, rec[name])}
}

// Format renders a value for display according to the field kind.
func (p *Projection) Format(f Field, v any) string {
	switch f.Kind {
	case KindNumber:
		n, ok := Number(v)
		if !ok {
			s, _ := Text(v)
			return s
		}
		if n == float64(int64(n)) {
			return p.printer.Sprintf("%d", int64(n))
		}
		return p.printer.Sprintf("%.2f", n)
	case KindTime:
		t, ok := Time(v)
		if !ok {
			s, _ := Text(v)
			return s
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("02 Jan 2006")
		}
		return t.Format("02 Jan 2006 15:04")
	default:
		s, _ := Text(v)
		return s
	}
}

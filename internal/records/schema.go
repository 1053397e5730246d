// Package records implements the list-page core shared by every dashboard:
// schema-checked record collections, predicate filtering, stable sorting,
// paging, view projection and export.
package records

import (
	"errors"
	"fmt"
	"strings"
)

// Kind describes how a field's values are compared and formatted.
type Kind int

const (
	// KindString is free text, compared case-sensitively when sorting.
	KindString Kind = iota
	// KindCategory is an enumerated value used by equality filters.
	KindCategory
	// KindNumber holds integers or floats.
	KindNumber
	// KindTime holds time.Time values or ISO-8601 strings.
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindCategory:
		return "category"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrUnknownField is returned when a criteria, sort or projection names a
	// field that the schema does not define.
	ErrUnknownField = errors.New("records: unknown field")
	// ErrFieldKind is returned when a field is used in a way its kind does not support.
	ErrFieldKind = errors.New("records: field kind mismatch")
	// ErrInvalidSchema is returned by NewSchema for malformed definitions.
	ErrInvalidSchema = errors.New("records: invalid schema")
)

// Field defines one column of a collection.
type Field struct {
	Name       string
	Label      string
	Kind       Kind
	Searchable bool
}

// Schema is the fixed field set shared by every record of a collection.
type Schema struct {
	key    string
	fields []Field
	index  map[string]int
}

// NewSchema validates the field list. key names the identifying field.
func NewSchema(key string, fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrInvalidSchema)
	}
	index := make(map[string]int, len(fields))
	copied := make([]Field, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidSchema, i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, name)
		}
		f.Name = name
		if f.Label == "" {
			f.Label = name
		}
		index[name] = i
		copied[i] = f
	}
	if _, ok := index[key]; !ok {
		return nil, fmt.Errorf("%w: key %q is not a field", ErrInvalidSchema, key)
	}
	return &Schema{key: key, fields: copied, index: index}, nil
}

// MustSchema is NewSchema for static definitions; it panics on error.
func MustSchema(key string, fields ...Field) *Schema {
	s, err := NewSchema(key, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Key returns the identifying field name.
func (s *Schema) Key() string {
	return s.key
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Searchable returns the names of fields matched by free-text search.
func (s *Schema) Searchable() []string {
	var names []string
	for _, f := range s.fields {
		if f.Searchable {
			names = append(names, f.Name)
		}
	}
	return names
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

func (s *Schema) lookup(name string, kinds ...Kind) (Field, error) {
	f, ok := s.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if len(kinds) == 0 {
		return f, nil
	}
	for _, k := range kinds {
		if f.Kind == k {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %q is %s", ErrFieldKind, name, f.Kind)
}

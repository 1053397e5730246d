package records

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrFieldSetMismatch is returned when a record does not carry exactly the schema's fields.
	ErrFieldSetMismatch = errors.New("records: record field set does not match schema")
	// ErrDuplicateKey is returned when two records share an identifier.
	ErrDuplicateKey = errors.New("records: duplicate key")
	// ErrNotFound is returned when no record has the requested identifier.
	ErrNotFound = errors.New("records: not found")
	// ErrUnsupportedValue is returned when a value cannot be rendered as text.
	ErrUnsupportedValue = errors.New("records: unsupported value type")
)

// Record maps field names to values. Supported values are strings, booleans,
// every sized and unsized integer type, float32, float64, time.Time and nil.
type Record map[string]any

// Clone returns a copy of the record. Values are scalars, so a shallow copy
// is enough to isolate the caller.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Text returns the field value rendered as text, or "" when missing.
func (r Record) Text(field string) string {
	s, err := Text(r[field])
	if err != nil {
		return ""
	}
	return s
}

// Collection is an ordered sequence of records sharing one schema.
type Collection struct {
	schema  *Schema
	records []Record
	byKey   map[string]int
}

// NewCollection validates records against schema and copies them.
func NewCollection(schema *Schema, records []Record) (*Collection, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	c := &Collection{
		schema:  schema,
		records: make([]Record, 0, len(records)),
		byKey:   make(map[string]int, len(records)),
	}
	for i, rec := range records {
		if err := schema.check(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		key, err := Text(rec[schema.key])
		if err != nil {
			return nil, fmt.Errorf("record %d key: %w", i, err)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		c.byKey[key] = len(c.records)
		c.records = append(c.records, rec.Clone())
	}
	return c, nil
}

// MustCollection is NewCollection for static seed data; it panics on error.
func MustCollection(schema *Schema, records []Record) *Collection {
	c, err := NewCollection(schema, records)
	if err != nil {
		panic(err)
	}
	return c
}

// Schema returns the collection schema.
func (c *Collection) Schema() *Schema {
	return c.schema
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns copies of every record in order.
func (c *Collection) Records() []Record {
	out := make([]Record, len(c.records))
	for i, rec := range c.records {
		out[i] = rec.Clone()
	}
	return out
}

// Find returns a copy of the record with the given key.
func (c *Collection) Find(key string) (Record, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	return c.records[i].Clone(), true
}

// Clone returns an independent working copy of the collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{
		schema:  c.schema,
		records: make([]Record, len(c.records)),
		byKey:   make(map[string]int, len(c.byKey)),
	}
	for i, rec := range c.records {
		out.records[i] = rec.Clone()
	}
	for k, v := range c.byKey {
		out.byKey[k] = v
	}
	return out
}

// Set replaces one field of one record in this collection only.
func (c *Collection) Set(key, field string, value any) error {
	if _, err := c.schema.lookup(field); err != nil {
		return err
	}
	if field == c.schema.key {
		return fmt.Errorf("%w: key field %q is immutable", ErrFieldKind, field)
	}
	if _, err := Text(value); err != nil {
		return fmt.Errorf("field %q: %w", field, err)
	}
	i, ok := c.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	c.records[i][field] = value
	return nil
}

func (s *Schema) check(rec Record) error {
	if len(rec) != len(s.fields) {
		return fmt.Errorf("%w: has %d fields, want %d", ErrFieldSetMismatch, len(rec), len(s.fields))
	}
	for _, f := range s.fields {
		v, ok := rec[f.Name]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrFieldSetMismatch, f.Name)
		}
		if _, err := Text(v); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Text renders a supported value as canonical text.
func Text(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		if x.IsZero() {
			return "", nil
		}
		return x.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Number converts numeric values and numeric strings to float64.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Time parses time.Time values and ISO-8601 strings.
func Time(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

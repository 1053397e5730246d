package records

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Direction orders a sort.
type Direction string

const (
	// Asc sorts smallest first.
	Asc Direction = "asc"
	// Desc sorts largest first.
	Desc Direction = "desc"
)

// ErrInvalidDirection is returned by ParseDirection.
var ErrInvalidDirection = errors.New("records: invalid sort direction")

// ParseDirection accepts asc/desc (any case); empty means Asc.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Asc, "ascending":
		return Asc, nil
	case Desc, "descending":
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// SortSpec selects the field and direction of a sort.
type SortSpec struct {
	Field     string
	Direction Direction
}

// Sort returns a stably sorted copy of recs. Ties keep their input order in
// both directions.
func Sort(schema *Schema, recs []Record, spec SortSpec) ([]Record, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	field, err := schema.lookup(spec.Field)
	if err != nil {
		return nil, err
	}
	dir := spec.Direction
	if dir == "" {
		dir = Asc
	}
	if dir != Asc && dir != Desc {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	compare := comparator(field)
	out := slices.Clone(recs)
	slices.SortStableFunc(out, func(a, b Record) int {
		c := compare(a[field.Name], b[field.Name])
		if dir == Desc {
			return -c
		}
		return c
	})
	return out, nil
}

func comparator(f Field) func(a, b any) int {
	switch f.Kind {
	case KindNumber:
		return func(a, b any) int {
			x, _ := Number(a)
			y, _ := Number(b)
			return cmp.Compare(x, y)
		}
	case KindTime:
		// Unparseable values compare as the zero time.
		return func(a, b any) int {
			x, _ := Time(a)
			y, _ := Time(b)
			return x.Compare(y)
		}
	default:
		return func(a, b any) int {
			x, _ := Text(a)
			y, _ := Text(b)
			return strings.Compare(x, y)
		}
	}
}

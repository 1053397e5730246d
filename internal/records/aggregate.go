package records

import "fmt"

// Point is one bucket of a chart series.
type Point struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

// Aggregate groups recs by groupField and sums sumField per group. Groups are
// returned in order of first appearance. An empty sumField only counts.
func Aggregate(schema *Schema, recs []Record, groupField, sumField string) ([]Point, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	if _, err := schema.lookup(groupField); err != nil {
		return nil, err
	}
	if sumField != "" {
		if _, err := schema.lookup(sumField, KindNumber); err != nil {
			return nil, err
		}
	}
	index := make(map[string]int)
	var points []Point
	for _, rec := range recs {
		label := rec.Text(groupField)
		i, ok := index[label]
		if !ok {
			i = len(points)
			index[label] = i
			points = append(points, Point{Label: label})
		}
		points[i].Count++
		if sumField != "" {
			if n, ok := Number(rec[sumField]); ok {
				points[i].Sum += n
			}
		}
	}
	return points, nil
}

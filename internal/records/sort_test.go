package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortNumbersIsStableBothWays(t *testing.T) {
	schema := paymentSchema()
	recs := paymentRecords()

	asc, err := Sort(schema, recs, SortSpec{Field: "amount", Direction: Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"P-6", "P-2", "P-4", "P-3", "P-5", "P-1"}, ids(asc))

	desc, err := Sort(schema, recs, SortSpec{Field: "amount", Direction: Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"P-1", "P-5", "P-3", "P-2", "P-4", "P-6"}, ids(desc))

	assert.Equal(t, []string{"P-1", "P-2", "P-3", "P-4", "P-5", "P-6"}, ids(recs), "input untouched")
}

func TestSortTiesKeepInputOrder(t *testing.T) {
	schema := paymentSchema()
	recs := paymentRecords()
	for _, dir := range []Direction{Asc, Desc} {
		sorted, err := Sort(schema, recs, SortSpec{Field: "status", Direction: dir})
		require.NoError(t, err)
		var completed []string
		for _, rec := range sorted {
			if rec["status"] == "completed" {
				completed = append(completed, rec.Text("id"))
			}
		}
		assert.Equal(t, []string{"P-1", "P-2", "P-5"}, completed, dir)
	}
}

func TestSortTimesAndStrings(t *testing.T) {
	schema := paymentSchema()

	byDate, err := Sort(schema, paymentRecords(), SortSpec{Field: "date"})
	require.NoError(t, err)
	assert.Equal(t, []string{"P-5", "P-4", "P-3", "P-2", "P-1", "P-6"}, ids(byDate))

	byCompany, err := Sort(schema, paymentRecords(), SortSpec{Field: "company", Direction: Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"P-5", "P-3", "P-6", "P-1", "P-4", "P-2"}, ids(byCompany))
}

func TestSortRejectsBadSpec(t *testing.T) {
	_, err := Sort(paymentSchema(), paymentRecords(), SortSpec{Field: "colour"})
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = Sort(paymentSchema(), paymentRecords(), SortSpec{Field: "amount", Direction: "sideways"})
	require.ErrorIs(t, err, ErrInvalidDirection)

	d, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Desc, d)
	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)
}

package records

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyCriteria(t *testing.T, recs []Record, c Criteria) []Record {
	t.Helper()
	f, err := NewFilter(paymentSchema(), c, WithClock(testClock))
	require.NoError(t, err)
	return f.Apply(recs)
}

func TestFilterCategorical(t *testing.T) {
	got := applyCriteria(t, paymentRecords(), Criteria{Equals: map[string]string{"status": "completed"}})
	assert.Equal(t, []string{"P-1", "P-2", "P-5"}, ids(got))

	got = applyCriteria(t, paymentRecords(), Criteria{Equals: map[string]string{"status": "completed", "method": "card"}})
	assert.Equal(t, []string{"P-2", "P-5"}, ids(got))
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	for _, q := range []string{"tullow", "TULLOW", " Tullow "} {
		got := applyCriteria(t, paymentRecords(), Criteria{Query: q})
		assert.Equal(t, []string{"P-2"}, ids(got), q)
	}
	got := applyCriteria(t, paymentRecords(), Criteria{Query: "energy"})
	assert.Equal(t, []string{"P-1", "P-5"}, ids(got))

	got = applyCriteria(t, paymentRecords(), Criteria{Query: "p-4"})
	assert.Equal(t, []string{"P-4"}, ids(got))
}

func TestFilterDateWindow(t *testing.T) {
	got := applyCriteria(t, paymentRecords(), Criteria{Range: &Range{Field: "date", Days: 7}})
	assert.Equal(t, []string{"P-1", "P-6"}, ids(got))

	got = applyCriteria(t, paymentRecords(), Criteria{Range: &Range{Field: "date", Days: 30}})
	assert.Equal(t, []string{"P-1", "P-2", "P-6"}, ids(got))

	got = applyCriteria(t, paymentRecords(), Criteria{Range: &Range{Field: "date"}})
	assert.Len(t, got, 6, "zero window is unconstrained")
}

func TestFilterSentinelIsNoOp(t *testing.T) {
	recs := paymentRecords()
	base := []Criteria{
		{},
		{Query: "oil"},
		{Range: &Range{Field: "date", Days: 90}},
		{Equals: map[string]string{"method": "bank_transfer"}},
	}
	for _, c := range base {
		without := applyCriteria(t, recs, c)

		with := c
		with.Equals = map[string]string{"status": All}
		for k, v := range c.Equals {
			with.Equals[k] = v
		}
		got := applyCriteria(t, recs, with)
		if diff := cmp.Diff(without, got); diff != "" {
			t.Fatalf("sentinel changed result (-want +got):\n%s", diff)
		}
	}

	all := applyCriteria(t, recs, Criteria{Equals: map[string]string{"status": All, "method": All}})
	assert.Empty(t, cmp.Diff(recs, all))
}

func TestFilterIdempotentAndMonotone(t *testing.T) {
	recs := paymentRecords()
	steps := []Criteria{
		{},
		{Query: "e"},
		{Query: "e", Equals: map[string]string{"status": "completed"}},
		{Query: "e", Equals: map[string]string{"status": "completed"}, Range: &Range{Field: "date", Days: 30}},
	}
	prev := len(recs) + 1
	for _, c := range steps {
		once := applyCriteria(t, recs, c)
		twice := applyCriteria(t, once, c)
		assert.Empty(t, cmp.Diff(once, twice))
		assert.LessOrEqual(t, len(once), prev)
		prev = len(once)
	}
}

func TestFilterEmptyResultIsNotAnError(t *testing.T) {
	got := applyCriteria(t, paymentRecords(), Criteria{Query: "no such company"})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestNewFilterValidatesFields(t *testing.T) {
	schema := paymentSchema()
	_, err := NewFilter(schema, Criteria{Equals: map[string]string{"colour": "red"}})
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = NewFilter(schema, Criteria{Equals: map[string]string{"colour": All}})
	require.ErrorIs(t, err, ErrUnknownField, "sentinel values still name a real field")

	_, err = NewFilter(schema, Criteria{Range: &Range{Field: "amount", Days: 7}})
	require.ErrorIs(t, err, ErrFieldKind)

	_, err = NewFilter(schema, Criteria{Range: &Range{Field: "date", Days: -1}})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewFilter(schema, Criteria{}, WithSearchFields("nope"))
	require.ErrorIs(t, err, ErrUnknownField)

	f, err := NewFilter(schema, Criteria{Equals: map[string]string{"status": ""}})
	require.NoError(t, err)
	assert.False(t, f.Active())
}

func TestParseWindow(t *testing.T) {
	for raw, want := range map[string]int{"": 0, "all": 0, "ALL": 0, "7": 7, "30d": 30, "90": 90, "365": 365} {
		got, err := ParseWindow(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"14", "-7", "week"} {
		_, err := ParseWindow(raw)
		require.ErrorIs(t, err, ErrInvalidWindow, raw)
	}
}

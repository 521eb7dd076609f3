package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	fr, err := Empty([]string{"id", "age", "signup"}, map[string]string{
		"id":     "int64",
		"age":    "int64",
		"signup": "datetime64[ns]",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, fr.NumRows())
	assert.Equal(t, []string{"id", "age", "signup"}, fr.Names())

	c, err := fr.Column("signup")
	require.NoError(t, err)
	assert.Equal(t, Datetime, c.Dtype)
}

func TestEmptyUnknownDtype(t *testing.T) {
	_, err := Empty([]string{"id"}, map[string]string{"id": "complex128"})
	assert.Error(t, err)
}

func TestColumnNotFound(t *testing.T) {
	fr, err := New(&Column{Name: "a", Dtype: Int64})
	require.NoError(t, err)

	_, err = fr.Column("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestDuplicateColumn(t *testing.T) {
	_, err := New(
		&Column{Name: "a", Dtype: Int64},
		&Column{Name: "a", Dtype: Int64},
	)
	assert.Error(t, err)
}

func TestRaggedColumns(t *testing.T) {
	_, err := New(
		&Column{Name: "a", Dtype: Int64, Values: []any{int64(1)}},
		&Column{Name: "b", Dtype: Int64, Values: []any{int64(1), int64(2)}},
	)
	assert.Error(t, err)
}

func TestCast(t *testing.T) {
	fr, err := New(
		&Column{Name: "age", Dtype: Object, Values: []any{"57", "31", nil}},
		&Column{Name: "score", Dtype: Object, Values: []any{"1.5", "-2", ""}},
		&Column{Name: "active", Dtype: Object, Values: []any{"true", "False", nil}},
		&Column{Name: "seen", Dtype: Object, Values: []any{"2020-01-02 10:30:00", "2020-01-03", nil}},
	)
	require.NoError(t, err)

	require.NoError(t, fr.Cast(map[string]string{
		"age":    "int64",
		"score":  "float64",
		"active": "bool",
		"seen":   "datetime64[ns]",
	}))

	age, _ := fr.Column("age")
	assert.Equal(t, []any{int64(57), int64(31), nil}, age.Values)
	assert.Equal(t, Int64, age.Dtype)

	score, _ := fr.Column("score")
	assert.Equal(t, []any{1.5, float64(-2), nil}, score.Values)

	active, _ := fr.Column("active")
	assert.Equal(t, []any{true, false, nil}, active.Values)

	seen, _ := fr.Column("seen")
	require.IsType(t, time.Time{}, seen.Values[0])
	assert.Equal(t, 2020, seen.Values[0].(time.Time).Year())
}

func TestCastMismatch(t *testing.T) {
	fr, err := New(&Column{Name: "age", Dtype: Object, Values: []any{"not a number"}})
	require.NoError(t, err)

	err = fr.Cast(map[string]string{"age": "int64"})
	var castErr *CastError
	require.ErrorAs(t, err, &castErr)
	assert.Equal(t, "age", castErr.Column)
	assert.Equal(t, Int64, castErr.Dtype)
}

func TestCastMissingColumn(t *testing.T) {
	fr, err := New(&Column{Name: "age", Dtype: Object, Values: []any{"1"}})
	require.NoError(t, err)

	// recorded dtypes must match the parsed columns exactly
	err = fr.Cast(map[string]string{"age": "int64", "other": "int64"})
	require.ErrorIs(t, err, ErrColumnNotFound)
	assert.ErrorContains(t, err, `"other"`)
}

func TestParseLatLong(t *testing.T) {
	ll, err := ParseLatLong("(40.5, -73.9)")
	require.NoError(t, err)
	assert.Equal(t, LatLong{Lat: 40.5, Lon: -73.9}, ll)

	assert.Equal(t, "(40.5, -73.9)", ll.String())
}

func TestParseLatLongMalformed(t *testing.T) {
	for _, s := range []string{"", "(", "(1)", "(a, b)", "(1, 2, 3)"} {
		_, err := ParseLatLong(s)
		assert.Error(t, err, "input %q", s)
	}
}

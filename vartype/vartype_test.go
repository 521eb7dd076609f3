package vartype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSpecKnownTypes(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"index", Index{}},
		{"id", ID{}},
		{"numeric", Numeric{}},
		{"boolean", Boolean{}},
		{"text", Text{}},
		{"latlong", LatLong{}},
		{"zipcode", ZIPCode{}},
		{"unknown", Unknown{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromSpec(tt.name, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.TypeString())
		})
	}
}

func TestFromSpecUnrecognizedFallsBackToUnknown(t *testing.T) {
	got, err := FromSpec("quantum_state", nil)
	require.NoError(t, err)
	assert.Equal(t, Unknown{}, got)
}

func TestFromSpecDatetimeFormat(t *testing.T) {
	got, err := FromSpec("datetime", map[string]any{"format": "2006-01-02"})
	require.NoError(t, err)
	assert.Equal(t, Datetime{Format: "2006-01-02"}, got)

	p, ok := got.(Parameterized)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"format": "2006-01-02"}, p.TypeArgs())
}

func TestFromSpecCategoricalCategories(t *testing.T) {
	got, err := FromSpec("categorical", map[string]any{"categories": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, Categorical{Categories: []any{"a", "b"}}, got)
}

func TestFromSpecMalformedArgs(t *testing.T) {
	_, err := FromSpec("datetime", map[string]any{"format": 42})
	assert.Error(t, err)

	_, err = FromSpec("categorical", map[string]any{"categories": "oops"})
	assert.Error(t, err)
}

func TestFromSpecIgnoresUnknownArgs(t *testing.T) {
	got, err := FromSpec("datetime", map[string]any{"granularity": "day"})
	require.NoError(t, err)
	assert.Equal(t, Datetime{}, got)
}

func TestLookup(t *testing.T) {
	_, ok := Lookup("numeric")
	assert.True(t, ok)

	_, ok = Lookup("quantum_state")
	assert.False(t, ok)
}

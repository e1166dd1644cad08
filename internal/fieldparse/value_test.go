package fieldparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/models"
)

func TestParseValuePercentage(t *testing.T) {
	v := ParseValue("45.2%")
	assert.Equal(t, models.ValuePercentage, v.Kind)
	assert.Equal(t, 45.2, v.Number)
	assert.Equal(t, "%", v.Unit)
	assert.Equal(t, "45.2%", v.Formatted)
}

func TestParseValueCapacityWithLimit(t *testing.T) {
	v := ParseValue("84 (Limit: 101)")
	assert.Equal(t, models.ValueCount, v.Kind)
	assert.Equal(t, 84.0, v.Number)
	require.NotNil(t, v.Meta)
	assert.Equal(t, 101.0, v.Meta.Limit)
	assert.InDelta(t, 83.17, v.Meta.Percent, 0.01)
	assert.False(t, v.Meta.Unlimited)
}

func TestParseValueMemory(t *testing.T) {
	v := ParseValue("265 MB")
	assert.Equal(t, models.ValueMemory, v.Kind)
	assert.Equal(t, 265.0, v.Number)
	assert.Equal(t, "MB", v.Unit)
}

func TestParseValueOrder(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		kind   models.ValueKind
		number float64
		text   string
	}{
		{"grouped int", "1,234", models.ValueCount, 1234, ""},
		{"plain int", "42", models.ValueCount, 42, ""},
		{"plain decimal", "3.5", models.ValueCount, 3.5, ""},
		{"negative percent", "-5%", models.ValuePercentage, -5, ""},
		{"memory lowercase unit", "1.5 gb", models.ValueMemory, 1.5, ""},
		{"text fallback", "Niagara 4.10", models.ValueText, 0, "Niagara 4.10"},
		{"empty", "", models.ValueText, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := ParseValue(tc.raw)
			assert.Equal(t, tc.kind, v.Kind)
			assert.Equal(t, tc.number, v.Number)
			assert.Equal(t, tc.text, v.Text)
			assert.Equal(t, tc.raw, v.Formatted, "original string must survive verbatim")
		})
	}
}

func TestParseValueUnlimitedCapacity(t *testing.T) {
	v := ParseValue("1,625 (Limit: none)")
	assert.Equal(t, models.ValueCount, v.Kind)
	assert.Equal(t, 1625.0, v.Number)
	require.NotNil(t, v.Meta)
	assert.True(t, v.Meta.Unlimited)
	assert.Equal(t, 0.0, v.Meta.Limit)
}

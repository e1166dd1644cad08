package fieldparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemoryMB(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"265 MB", 265, true},
		{"2 GB", 2048, true},
		{"512 KB", 0.5, true},
		{"1,024 MB", 1024, true},
		{"1.5gb", 1536, true},
		{"no unit here", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseMemoryMB(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.InDelta(t, tc.want, got, 0.001, tc.raw)
	}
}

func TestParsePercentFirstOccurrence(t *testing.T) {
	got, ok := ParsePercent("cpu at 45.2% (peak 99%)")
	require.True(t, ok)
	assert.Equal(t, 45.2, got)

	_, ok = ParsePercent("no percentage")
	assert.False(t, ok)
}

func TestParseCapacityForms(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		used      float64
		limit     float64
		unlimited bool
	}{
		{"explicit limit", "3,303 (Limit: 5,000)", 3303, 5000, false},
		{"limit none", "1,625 (Limit: none)", 1625, 0, true},
		{"bare parenthetical", "84 (101)", 84, 101, false},
		{"slash form", "84/101", 84, 101, false},
		{"zero limit is unlimited", "7 (Limit: 0)", 7, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			usage, ok := ParseCapacity(tc.raw)
			require.True(t, ok)
			assert.Equal(t, tc.used, usage.Used)
			assert.Equal(t, tc.limit, usage.Limit)
			assert.Equal(t, tc.unlimited, usage.Unlimited)
		})
	}
}

func TestParseCapacityRejectsOtherShapes(t *testing.T) {
	_, ok := ParseCapacity("45.2%")
	assert.False(t, ok)
}

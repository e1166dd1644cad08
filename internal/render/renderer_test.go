package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/models"
)

func samplePatterns() []models.FleetPattern {
	return []models.FleetPattern{
		{
			ID:          "pattern-cpu usage",
			Name:        "cpu usage recurring",
			Metric:      "cpu usage",
			Severity:    models.AlertCritical,
			Occurrences: 4,
			Prevalence:  0.8,
			LastSeen:    time.Now().UTC(),
			Templates: []models.AlertTemplate{
				{Metric: "cpu usage", Category: models.CategoryPerformance, Severity: models.AlertCritical, TypicalValue: "92.0%", Count: 4},
			},
		},
	}
}

func TestTextRendererPatterns(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}

	require.NoError(t, r.RenderPatterns(samplePatterns()))
	out := buf.String()
	assert.Contains(t, out, "fleet patterns")
	assert.Contains(t, out, "cpu usage")
	assert.Contains(t, out, "80% of analyses")
	assert.Contains(t, out, "92.0%")
}

func TestTextRendererPatternsEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}

	require.NoError(t, r.RenderPatterns(nil))
	assert.Contains(t, buf.String(), "no recurring findings")
}

func TestJSONRendererPatterns(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{w: &buf}

	require.NoError(t, r.RenderPatterns(samplePatterns()))
	var decoded []models.FleetPattern
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "cpu usage", decoded[0].Metric)

	// nil batch still encodes as an empty array, not null.
	buf.Reset()
	require.NoError(t, r.RenderPatterns(nil))
	assert.Equal(t, "[]\n", buf.String())
}

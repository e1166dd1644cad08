package fieldparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stationstack/station-insight/internal/models"
)

func TestParseStatusPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		status   models.StatusKind
		severity models.Severity
		badge    string
	}{
		{"ok", "{ok}", models.StatusOK, models.SeverityNormal, "OK"},
		{"ok beats alarm", "{ok,alarm}", models.StatusOK, models.SeverityNormal, "OK"},
		{"down alone", "{down}", models.StatusDown, models.SeverityCritical, "DOWN"},
		{"down with alarm", "{down,alarm,unackedAlarm}", models.StatusDown, models.SeverityCritical, "DOWN/ALARM"},
		{"down with fault", "{down,fault}", models.StatusFault, models.SeverityCritical, "FAULT/DOWN"},
		{"down fault alarm keeps fault badge", "{down,fault,alarm}", models.StatusFault, models.SeverityCritical, "FAULT/DOWN"},
		{"fault alone", "{fault}", models.StatusFault, models.SeverityCritical, "FAULT"},
		{"alarm alone", "{alarm}", models.StatusAlarm, models.SeverityWarning, "ALARM"},
		{"unacked alarm", "{unackedAlarm}", models.StatusAlarm, models.SeverityWarning, "ALARM"},
		{"bare word scan", "Device is down", models.StatusDown, models.SeverityCritical, "DOWN"},
		{"connected folds to ok", "connected", models.StatusOK, models.SeverityNormal, "OK"},
		{"disconnected folds to down", "disconnected", models.StatusDown, models.SeverityCritical, "DOWN"},
		{"offline folds to down", "offline", models.StatusDown, models.SeverityCritical, "DOWN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseStatus(tc.raw)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.severity, got.Severity)
			assert.Equal(t, tc.badge, got.Badge.Text)
		})
	}
}

func TestParseStatusEmpty(t *testing.T) {
	got := ParseStatus("   ")
	assert.Equal(t, models.StatusUnknown, got.Status)
	assert.Equal(t, models.SeverityNormal, got.Severity)
	assert.Equal(t, []string{"No status information"}, got.Details)
}

func TestParseStatusUnknownTruncatesBadge(t *testing.T) {
	got := ParseStatus("initializing subsystem")
	assert.Equal(t, models.StatusUnknown, got.Status)
	assert.Equal(t, "initializi...", got.Badge.Text)
	assert.Equal(t, models.BadgeNeutral, got.Badge.Variant)
}

func TestParseStatusDownAlarmDetails(t *testing.T) {
	got := ParseStatus("{down,alarm,unackedAlarm}")
	assert.Contains(t, got.Details, "Alarm condition present")
}

func TestExtractFlagsSubstringOverlap(t *testing.T) {
	// "disconnected" must not also register "connected" (which would fold
	// to ok and win the precedence check).
	got := ParseStatus("disconnected from network")
	assert.Equal(t, models.StatusDown, got.Status)

	// "unackedAlarm" alone classifies as alarm, never as ok.
	got = ParseStatus("unackedAlarm present")
	assert.Equal(t, models.StatusAlarm, got.Status)
}

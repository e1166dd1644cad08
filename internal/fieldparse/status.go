// Package fieldparse holds the micro-parsers that turn the export files' raw
// field strings into typed values and statuses. Every function here is pure:
// no state, no clock, no I/O, so each one is independently testable against
// the literal strings the vendor tool emits.
package fieldparse

import (
	"strings"

	"github.com/stationstack/station-insight/internal/models"
)

// statusVocabulary is every condition keyword the exports are known to use,
// scanned as substrings when a status string carries no brace group.
var statusVocabulary = []string{
	"unackedalarm", // before "alarm": substring overlap
	"disconnected", // before "connected"
	"ok", "down", "alarm", "fault", "connected", "online", "offline",
}

// ParseStatus converts a raw compound status string into a ParsedStatus.
//
// Classification precedence is ok > down > fault > alarm > unknown: a device
// can be down, faulted and alarming simultaneously and must not be
// double-classified.
func ParseStatus(raw string) models.ParsedStatus {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.ParsedStatus{
			Status:   models.StatusUnknown,
			Severity: models.SeverityNormal,
			Details:  []string{"No status information"},
			Badge:    models.StatusBadge{Text: "UNKNOWN", Variant: models.BadgeNeutral},
		}
	}

	lower := strings.ToLower(trimmed)
	flags := extractFlags(lower)

	switch {
	case flags["ok"]:
		return models.ParsedStatus{
			Status:   models.StatusOK,
			Severity: models.SeverityNormal,
			Details:  []string{"Device is communicating normally"},
			Badge:    models.StatusBadge{Text: "OK", Variant: models.BadgeSuccess},
		}

	case flags["down"]:
		status := models.StatusDown
		badge := models.StatusBadge{Text: "DOWN", Variant: models.BadgeCritical}
		details := []string{"Device is down"}
		if flags["fault"] {
			status = models.StatusFault
			badge.Text = "FAULT/DOWN"
			details = append(details, "Fault condition present")
		}
		if flags["alarm"] || flags["unackedalarm"] {
			details = append(details, "Alarm condition present")
			if !flags["fault"] {
				badge.Text = "DOWN/ALARM"
			}
		}
		return models.ParsedStatus{
			Status:   status,
			Severity: models.SeverityCritical,
			Details:  details,
			Badge:    badge,
		}

	case flags["fault"]:
		return models.ParsedStatus{
			Status:   models.StatusFault,
			Severity: models.SeverityCritical,
			Details:  []string{"Fault condition present"},
			Badge:    models.StatusBadge{Text: "FAULT", Variant: models.BadgeCritical},
		}

	case flags["alarm"] || flags["unackedalarm"]:
		details := []string{"Alarm condition present"}
		if flags["unackedalarm"] {
			details = append(details, "Alarm is unacknowledged")
		}
		return models.ParsedStatus{
			Status:   models.StatusAlarm,
			Severity: models.SeverityWarning,
			Details:  details,
			Badge:    models.StatusBadge{Text: "ALARM", Variant: models.BadgeWarning},
		}
	}

	return models.ParsedStatus{
		Status:   models.StatusUnknown,
		Severity: models.SeverityNormal,
		Details:  []string{"Unrecognized status: " + trimmed},
		Badge:    models.StatusBadge{Text: truncateBadge(trimmed, 10), Variant: models.BadgeNeutral},
	}
}

// extractFlags returns the condition flag set for a lower-cased status string.
// A brace group like "{down,alarm}" is split on commas; anything else is
// scanned for the known vocabulary as substrings.
func extractFlags(lower string) map[string]bool {
	flags := make(map[string]bool)

	open := strings.Index(lower, "{")
	end := strings.Index(lower, "}")
	if open >= 0 && end > open {
		for _, part := range strings.Split(lower[open+1:end], ",") {
			if flag := strings.TrimSpace(part); flag != "" {
				flags[normalizeFlag(flag)] = true
			}
		}
		return flags
	}

	remaining := lower
	for _, word := range statusVocabulary {
		if strings.Contains(remaining, word) {
			flags[normalizeFlag(word)] = true
			// Consume overlapping keywords so "disconnected" does not also
			// register "connected", nor "unackedAlarm" a plain "alarm".
			remaining = strings.ReplaceAll(remaining, word, " ")
		}
	}
	return flags
}

// normalizeFlag folds the connection keywords onto the core flag set.
func normalizeFlag(flag string) string {
	switch flag {
	case "connected", "online":
		return "ok"
	case "disconnected", "offline":
		return "down"
	default:
		return flag
	}
}

func truncateBadge(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

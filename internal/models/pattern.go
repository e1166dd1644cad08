package models

import "time"

// FleetPattern is a recurring finding mined from a batch of analyses, e.g.
// the same device offline in every export or a capacity alert firing across
// multiple sites.
type FleetPattern struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Metric      string          `json:"metric"`
	Severity    AlertSeverity   `json:"severity"`
	Occurrences int             `json:"occurrences"`
	Prevalence  float64         `json:"prevalence"`
	LastSeen    time.Time       `json:"lastSeen"`
	Templates   []AlertTemplate `json:"templates,omitempty"`
}

// AlertTemplate describes a recurring alert signature inside a pattern.
type AlertTemplate struct {
	Metric       string        `json:"metric"`
	Category     AlertCategory `json:"category"`
	Severity     AlertSeverity `json:"severity"`
	TypicalValue string        `json:"typicalValue"`
	Count        int           `json:"count"`
}

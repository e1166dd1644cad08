package models

// StatusKind is the normalized device status vocabulary.
type StatusKind string

const (
	StatusOK      StatusKind = "ok"
	StatusDown    StatusKind = "down"
	StatusAlarm   StatusKind = "alarm"
	StatusFault   StatusKind = "fault"
	StatusUnknown StatusKind = "unknown"
)

// Severity grades how serious a parsed status is.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// BadgeVariant selects the visual treatment for a status badge.
type BadgeVariant string

const (
	BadgeSuccess  BadgeVariant = "success"
	BadgeWarning  BadgeVariant = "warning"
	BadgeCritical BadgeVariant = "critical"
	BadgeNeutral  BadgeVariant = "neutral"
)

// StatusBadge is the display form of a parsed status.
type StatusBadge struct {
	Text    string       `json:"text"`
	Variant BadgeVariant `json:"variant"`
}

// ParsedStatus is the typed form of a raw compound status string.
// Derivation is deterministic: the same input always yields the same output.
type ParsedStatus struct {
	Status   StatusKind  `json:"status"`
	Severity Severity    `json:"severity"`
	Details  []string    `json:"details"`
	Badge    StatusBadge `json:"badge"`
}

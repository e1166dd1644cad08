package models

// ValueKind tags what a raw value string was recognised as.
type ValueKind string

const (
	ValuePercentage ValueKind = "percentage"
	ValueMemory     ValueKind = "memory"
	ValueCount      ValueKind = "count"
	ValueDuration   ValueKind = "duration"
	ValueTimestamp  ValueKind = "timestamp"
	ValueText       ValueKind = "text"
)

// ValueMeta carries optional derived figures for capacity-with-limit values.
type ValueMeta struct {
	Limit     float64 `json:"limit,omitempty"`
	Percent   float64 `json:"percent,omitempty"`
	Unlimited bool    `json:"unlimited,omitempty"`
}

// ParsedValue is the typed form of a raw value string. Formatted always
// preserves the original string verbatim for display and audit.
type ParsedValue struct {
	Kind      ValueKind  `json:"kind"`
	Number    float64    `json:"number"`
	Text      string     `json:"text,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Formatted string     `json:"formatted"`
	Meta      *ValueMeta `json:"meta,omitempty"`
}

// CapacityUsage is a current-usage/licensed-limit pair. Unlimited capacities
// report Limit 0 and Percent 0.
type CapacityUsage struct {
	Used      float64 `json:"used"`
	Limit     float64 `json:"limit"`
	Unlimited bool    `json:"unlimited"`
	Percent   float64 `json:"percent"`
}

package models

// Default ingestion caps. Both are overridable per call via ParseOptions.
const (
	DefaultMaxRows  = 100_000
	DefaultMaxBytes = 50 * 1024 * 1024
)

// ParseOptions tunes a single parse call.
type ParseOptions struct {
	// MaxRows stops ingestion early without erroring. Zero means DefaultMaxRows.
	MaxRows int `json:"maxRows,omitempty"`
	// MaxBytes rejects the whole file before tokenizing. Zero means DefaultMaxBytes.
	MaxBytes int64 `json:"maxBytes,omitempty"`
	// StrictValidation upgrades lenient-format column warnings to errors.
	StrictValidation bool `json:"strictValidation,omitempty"`
	// SanitizeData trims control characters from raw fields.
	SanitizeData bool `json:"sanitizeData,omitempty"`
	// FormatHint is caller-supplied evidence, not an override; the detector
	// validates it against the file before trusting it.
	FormatHint FormatID `json:"formatHint,omitempty"`
}

func (o ParseOptions) RowCap() int {
	if o.MaxRows > 0 {
		return o.MaxRows
	}
	return DefaultMaxRows
}

func (o ParseOptions) ByteCap() int64 {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return DefaultMaxBytes
}

// ParseResult is the orchestrator's answer for one file. The orchestrator
// never returns an error alongside it; failures are encoded here.
type ParseResult struct {
	Success      bool            `json:"success"`
	Dataset      *Dataset        `json:"dataset,omitempty"`
	Errors       []string        `json:"errors"`
	Warnings     []string        `json:"warnings"`
	Detection    DetectionResult `json:"formatDetection"`
	ProcessingMS int64           `json:"processingMs"`
}

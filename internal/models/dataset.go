package models

import "time"

// ColumnDef describes one column of a parsed dataset, in header order.
type ColumnDef struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// DeviceMeta holds inventory-specific attributes attached to a row.
type DeviceMeta struct {
	Category    string `json:"category"`
	Vendor      string `json:"vendor,omitempty"`
	Model       string `json:"model,omitempty"`
	Network     string `json:"network,omitempty"`
	ProtocolRev string `json:"protocolRev,omitempty"`
	DeviceID    int64  `json:"deviceId,omitempty"`
	Enabled     bool   `json:"enabled"`
	CovEnabled  bool   `json:"covEnabled"`
}

// CommHealth classifies how recently a device was heard from.
type CommHealth struct {
	LastSeenRaw string    `json:"lastSeenRaw"`
	LastSeen    time.Time `json:"lastSeen"`
	AgeSeconds  float64   `json:"ageSeconds"`
	Recency     string    `json:"recency"` // excellent, good, fair, poor
}

// TopologyMeta holds station-topology attributes attached to a row.
type TopologyMeta struct {
	Path       string `json:"path"`
	Depth      int    `json:"depth"`
	FoxPort    int    `json:"foxPort,omitempty"`
	ClientConn string `json:"clientConn,omitempty"`
	ServerConn string `json:"serverConn,omitempty"`
}

// Row is one detected data line (or the single synthetic row of a whole-file
// key-value format). Data is never mutated after creation.
type Row struct {
	ID       string                 `json:"id"`
	Selected bool                   `json:"selected"`
	Data     map[string]string      `json:"data"`
	Status   *ParsedStatus          `json:"status,omitempty"`
	Values   map[string]ParsedValue `json:"values,omitempty"`
	Device   *DeviceMeta            `json:"device,omitempty"`
	Health   *CommHealth            `json:"health,omitempty"`
	Topology *TopologyMeta          `json:"topology,omitempty"`
}

// Summary aggregates one full row scan. It is recomputed whenever a parse
// completes, never partially updated. The vendor, network, and protocol
// breakdowns are only populated by formats whose rows carry device metadata.
type Summary struct {
	TotalDevices     int                `json:"totalDevices"`
	StatusCounts     map[StatusKind]int `json:"statusCounts"`
	TypeCounts       map[string]int     `json:"typeCounts"`
	VendorCounts     map[string]int     `json:"vendorCounts"`
	NetworkCounts    map[string]int     `json:"networkCounts"`
	ProtocolCounts   map[string]int     `json:"protocolCounts"`
	CriticalFindings []string           `json:"criticalFindings"`
	Recommendations  []string           `json:"recommendations"`
}

// DatasetMetadata carries bookkeeping for one parse pass.
type DatasetMetadata struct {
	RowCount     int       `json:"rowCount"`
	ColumnCount  int       `json:"columnCount"`
	Errors       []string  `json:"errors"`
	Warnings     []string  `json:"warnings"`
	UploadedAt   time.Time `json:"uploadedAt"`
	FileSize     int64     `json:"fileSize"`
	ProcessingMS int64     `json:"processingMs"`
	Valid        bool      `json:"valid"`
	// Confidence is back-filled by the orchestrator from the detection result
	// once format identity is settled.
	Confidence int `json:"confidence"`

	Resources *ResourceReport `json:"resources,omitempty"`
	Platform  *PlatformReport `json:"platform,omitempty"`
	Alerts    []Alert         `json:"alerts,omitempty"`
}

// Dataset is the top-level parse output for a single file.
type Dataset struct {
	ID         string          `json:"id"`
	SourceFile string          `json:"sourceFile"`
	Format     FormatID        `json:"format"`
	Category   string          `json:"category"`
	Columns    []ColumnDef     `json:"columns"`
	Rows       []Row           `json:"rows"`
	Summary    Summary         `json:"summary"`
	Spec       FormatSpec      `json:"spec"`
	Metadata   DatasetMetadata `json:"metadata"`
	Raw        string          `json:"-"`
}

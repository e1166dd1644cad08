package models

// FormatID identifies one of the supported export file formats.
type FormatID string

const (
	// FormatNetworkDevice is the controller network export (CSV with a Controller Type column).
	FormatNetworkDevice FormatID = "network-device"
	// FormatDeviceInventory is the inventory export carrying Vendor/Model/Device ID metadata.
	FormatDeviceInventory FormatID = "device-inventory"
	// FormatResourceTelemetry is the resource export: exactly two columns, Name and Value.
	FormatResourceTelemetry FormatID = "resource-telemetry"
	// FormatNetworkTopology is the hierarchical station topology export.
	FormatNetworkTopology FormatID = "network-topology"
	// FormatPlatformInfo is the plain-text platform summary dump.
	FormatPlatformInfo FormatID = "platform-info"
	// FormatModbusDevice is a secondary industrial-protocol export. A spec entry
	// exists for detection but no parser is registered for it.
	FormatModbusDevice FormatID = "modbus-device"
	// FormatUnknown is the sentinel for unrecognised files.
	FormatUnknown FormatID = "unknown"
)

// FormatSpec is a static registry entry describing one export format's signature.
type FormatSpec struct {
	ID                FormatID `json:"id"`
	DisplayName       string   `json:"displayName"`
	Extensions        []string `json:"extensions"`
	RequiredColumns   []string `json:"requiredColumns"`
	OptionalColumns   []string `json:"optionalColumns"`
	IdentifierColumns []string `json:"identifierColumns"`
	KeyColumn         string   `json:"keyColumn"`
	StatusColumn      string   `json:"statusColumn"`
	ValueColumns      []string `json:"valueColumns"`
}

// DetectionResult reports the detector's best guess for a file.
// Confidence is a 0-100 heuristic score, not a calibrated probability.
type DetectionResult struct {
	Format     FormatID   `json:"format"`
	Confidence int        `json:"confidence"`
	Reasons    []string   `json:"reasons"`
	Spec       FormatSpec `json:"spec"`
}

// Package formats is the static registry of export format specifications.
// The table is read-only and process-wide; parsers and the detector both key
// off it.
package formats

import (
	"strings"

	"github.com/stationstack/station-insight/internal/models"
)

var unknownSpec = models.FormatSpec{
	ID:          models.FormatUnknown,
	DisplayName: "Unknown Format",
}

var registry = []models.FormatSpec{
	{
		ID:                models.FormatNetworkDevice,
		DisplayName:       "Controller Network Export",
		Extensions:        []string{".csv"},
		RequiredColumns:   []string{"Name", "Controller Type", "Status"},
		OptionalColumns:   []string{"Address", "Exts", "Fault Cause"},
		IdentifierColumns: []string{"Controller Type"},
		KeyColumn:         "Name",
		StatusColumn:      "Status",
	},
	{
		ID:                models.FormatDeviceInventory,
		DisplayName:       "Device Inventory Export",
		Extensions:        []string{".csv"},
		RequiredColumns:   []string{"Name", "Device ID"},
		OptionalColumns:   []string{"Vendor", "Model", "Health", "Encoding", "Protocol Rev", "Network", "Status", "Enabled", "Use Cov", "Max Cov Subscriptions"},
		IdentifierColumns: []string{"Device ID", "Vendor", "Model", "Health", "Encoding", "Protocol Rev"},
		KeyColumn:         "Name",
		StatusColumn:      "Status",
		ValueColumns:      []string{"Health"},
	},
	{
		ID:                models.FormatResourceTelemetry,
		DisplayName:       "Resource Telemetry Export",
		Extensions:        []string{".csv"},
		RequiredColumns:   []string{"Name", "Value"},
		IdentifierColumns: []string{"Name", "Value"},
		KeyColumn:         "Name",
		ValueColumns:      []string{"Value"},
	},
	{
		ID:                models.FormatNetworkTopology,
		DisplayName:       "Station Topology Export",
		Extensions:        []string{".csv"},
		RequiredColumns:   []string{"Name", "Path"},
		OptionalColumns:   []string{"Address", "Fox Port", "Platform Status", "Client Conn", "Server Conn", "Credential Store", "Status"},
		IdentifierColumns: []string{"Fox Port", "Path", "Platform Status"},
		KeyColumn:         "Name",
		StatusColumn:      "Status",
	},
	{
		ID:                models.FormatPlatformInfo,
		DisplayName:       "Platform Information Export",
		Extensions:        []string{".txt", ".text"},
		IdentifierColumns: nil, // text format: detected by keyword scan
		KeyColumn:         "Name",
	},
	{
		// Secondary industrial-protocol export. Present for detection and
		// listing; no parser is registered, so the orchestrator reports a
		// documented missing-parser failure.
		ID:                models.FormatModbusDevice,
		DisplayName:       "Industrial Protocol Device Export",
		Extensions:        []string{".csv"},
		RequiredColumns:   []string{"Name", "Device Address"},
		OptionalColumns:   []string{"Register Count", "Poll Frequency", "Status"},
		IdentifierColumns: []string{"Device Address", "Register Count"},
		KeyColumn:         "Name",
		StatusColumn:      "Status",
	},
}

// Get returns the spec for id; unrecognised ids return the unknown sentinel,
// never an error.
func Get(id models.FormatID) models.FormatSpec {
	for _, spec := range registry {
		if spec.ID == id {
			return spec
		}
	}
	return unknownSpec
}

// All lists every registered spec, excluding the unknown sentinel.
func All() []models.FormatSpec {
	out := make([]models.FormatSpec, len(registry))
	copy(out, registry)
	return out
}

// ByExtension lists the specs accepting the given file extension. The
// extension may be passed with or without the leading dot.
func ByExtension(ext string) []models.FormatSpec {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	var out []models.FormatSpec
	for _, spec := range registry {
		for _, accepted := range spec.Extensions {
			if accepted == ext {
				out = append(out, spec)
				break
			}
		}
	}
	return out
}

// Unknown returns the sentinel spec.
func Unknown() models.FormatSpec {
	return unknownSpec
}

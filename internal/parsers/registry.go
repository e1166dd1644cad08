package parsers

import "github.com/stationstack/station-insight/internal/models"

// Registry maps a format id to its parse function. It is an explicit value
// rather than package-level state so tests can swap entries freely; after
// construction it is read-only.
type Registry struct {
	byFormat map[models.FormatID]ParseFunc
}

// NewRegistry builds the default format-to-parser table. The industrial
// protocol export is deliberately absent: its spec exists for detection but
// no parser has shipped.
func NewRegistry() *Registry {
	return &Registry{
		byFormat: map[models.FormatID]ParseFunc{
			models.FormatNetworkDevice:     ParseNetworkDevices,
			models.FormatDeviceInventory:   ParseDeviceInventory,
			models.FormatResourceTelemetry: ParseResourceTelemetry,
			models.FormatNetworkTopology:   ParseNetworkTopology,
			models.FormatPlatformInfo:      ParsePlatformInfo,
		},
	}
}

// Lookup returns the parser registered for a format, if any.
func (r *Registry) Lookup(id models.FormatID) (ParseFunc, bool) {
	fn, ok := r.byFormat[id]
	return fn, ok
}

// Register installs (or replaces) the parser for a format.
func (r *Registry) Register(id models.FormatID, fn ParseFunc) {
	r.byFormat[id] = fn
}

// Formats lists the format ids with a registered parser.
func (r *Registry) Formats() []models.FormatID {
	out := make([]models.FormatID, 0, len(r.byFormat))
	for id := range r.byFormat {
		out = append(out, id)
	}
	return out
}

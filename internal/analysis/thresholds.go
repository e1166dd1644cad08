// Package analysis combines parsed datasets into a unified system report:
// identity, resources, inventory, licenses, modules and certificates, each
// evaluated against one authoritative threshold table.
package analysis

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds is the single authoritative threshold table. Both the telemetry
// parser's alerting and the cross-dataset analyzer read from here; there is
// no separate legacy table.
type Thresholds struct {
	CPUWarnPercent float64 `yaml:"cpuWarnPercent"`
	CPUCritPercent float64 `yaml:"cpuCritPercent"`

	HeapWarnPercent float64 `yaml:"heapWarnPercent"`
	HeapCritPercent float64 `yaml:"heapCritPercent"`

	MemoryWarnPercent float64 `yaml:"memoryWarnPercent"`
	MemoryCritPercent float64 `yaml:"memoryCritPercent"`

	// Device/point capacity against the licensed limit.
	CapacityWarnPercent float64 `yaml:"capacityWarnPercent"`
	CapacityCritPercent float64 `yaml:"capacityCritPercent"`

	// History count warning on embedded (JACE-class) systems.
	HistoriesEmbeddedWarn float64 `yaml:"historiesEmbeddedWarn"`

	ScanTimeWarnMS float64 `yaml:"scanTimeWarnMs"`
	UptimeWarnDays float64 `yaml:"uptimeWarnDays"`

	CertExpiryWarnDays int `yaml:"certExpiryWarnDays"`

	DiskFreeWarnEmbeddedPercent float64 `yaml:"diskFreeWarnEmbeddedPercent"`
	DiskFreeWarnServerPercent   float64 `yaml:"diskFreeWarnServerPercent"`
}

// DefaultThresholds returns the built-in table. The source material carried
// conflicting CPU constants (75 and 80); they are resolved here as the
// warning and critical tiers respectively.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarnPercent:              75,
		CPUCritPercent:              80,
		HeapWarnPercent:             75,
		HeapCritPercent:             90,
		MemoryWarnPercent:           80,
		MemoryCritPercent:           90,
		CapacityWarnPercent:         90,
		CapacityCritPercent:         98,
		HistoriesEmbeddedWarn:       6000,
		ScanTimeWarnMS:              500,
		UptimeWarnDays:              365,
		CertExpiryWarnDays:          30,
		DiskFreeWarnEmbeddedPercent: 20,
		DiskFreeWarnServerPercent:   10,
	}
}

// LoadThresholds reads a YAML override file on top of the defaults. An empty
// path or a missing file yields the defaults without error.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, err
	}
	return t, nil
}

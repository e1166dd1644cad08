package models

import "time"

// ResourceReport is the typed view of a resource-telemetry export. The parser
// fills whatever keys the file carried; absent keys keep their zero values.
type ResourceReport struct {
	Components int `json:"components"`

	Devices   CapacityUsage `json:"devices"`
	Points    CapacityUsage `json:"points"`
	Histories CapacityUsage `json:"histories"`
	Networks  CapacityUsage `json:"networks"`
	Links     CapacityUsage `json:"links"`
	Schedules CapacityUsage `json:"schedules"`

	// ResourceUnitsTotal/Limit are in kRU, the vendor's composite load metric.
	ResourceUnitsTotal float64            `json:"resourceUnitsTotal"`
	ResourceUnitsLimit float64            `json:"resourceUnitsLimit"`
	ResourceCategories map[string]float64 `json:"resourceCategories,omitempty"`

	EngineQueueCurrent float64 `json:"engineQueueCurrent"`
	EngineQueuePeak    float64 `json:"engineQueuePeak"`
	ScanRecentMS       float64 `json:"scanRecentMs"`
	ScanPeakMS         float64 `json:"scanPeakMs"`
	ScanLifetimeMS     float64 `json:"scanLifetimeMs"`
	ScanUsagePercent   float64 `json:"scanUsagePercent"`

	HeapUsedMB  float64 `json:"heapUsedMb"`
	HeapMaxMB   float64 `json:"heapMaxMb"`
	HeapFreeMB  float64 `json:"heapFreeMb"`
	HeapTotalMB float64 `json:"heapTotalMb"`
	MemUsedMB   float64 `json:"memUsedMb"`
	MemTotalMB  float64 `json:"memTotalMb"`

	CPUUsagePercent float64 `json:"cpuUsagePercent"`

	UptimeSeconds float64 `json:"uptimeSeconds"`
	UptimeRaw     string  `json:"uptimeRaw,omitempty"`

	RuntimeVersion string `json:"runtimeVersion,omitempty"`
	JavaVersion    string `json:"javaVersion,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`

	ExportedAt      time.Time `json:"exportedAt"`
	ExportedAtRaw   string    `json:"exportedAtRaw,omitempty"`
	ExportTimeValid bool      `json:"exportTimeValid"`

	// Legacy is the flattened key-to-value view kept for consumers of the
	// older report shape.
	Legacy map[string]string `json:"legacy,omitempty"`
}

// HeapPercent returns heap utilisation against the configured maximum.
func (r *ResourceReport) HeapPercent() float64 {
	if r == nil || r.HeapMaxMB <= 0 {
		return 0
	}
	return r.HeapUsedMB / r.HeapMaxMB * 100
}

// MemoryPercent returns physical memory utilisation.
func (r *ResourceReport) MemoryPercent() float64 {
	if r == nil || r.MemTotalMB <= 0 {
		return 0
	}
	return r.MemUsedMB / r.MemTotalMB * 100
}

// PlatformModule is one installed software module: name (vendor version).
type PlatformModule struct {
	Name    string `json:"name"`
	Vendor  string `json:"vendor"`
	Version string `json:"version"`
}

// PlatformApplication is one station entry from the applications section.
type PlatformApplication struct {
	Name        string         `json:"name"`
	Status      string         `json:"status,omitempty"`
	Autostart   bool           `json:"autostart"`
	AutoRestart bool           `json:"autoRestart"`
	Ports       map[string]int `json:"ports,omitempty"` // fox, foxs, http, https
}

// PlatformLicense is one license entry: name (vendor version - expiry).
type PlatformLicense struct {
	Name         string     `json:"name"`
	Vendor       string     `json:"vendor"`
	Version      string     `json:"version"`
	Expires      string     `json:"expires"`
	NeverExpires bool       `json:"neverExpires"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// PlatformCertificate is one certificate entry, same wire shape as a license.
type PlatformCertificate struct {
	Name         string     `json:"name"`
	Vendor       string     `json:"vendor"`
	Version      string     `json:"version"`
	Expires      string     `json:"expires"`
	NeverExpires bool       `json:"neverExpires"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// FilesystemUsage is one row of the platform dump's filesystem table.
type FilesystemUsage struct {
	Path        string  `json:"path"`
	FreeKB      int64   `json:"freeKb"`
	TotalKB     int64   `json:"totalKb"`
	FreePercent float64 `json:"freePercent"`
}

// RAMUsage is the physical RAM line of the platform dump.
type RAMUsage struct {
	FreeKB      int64   `json:"freeKb"`
	TotalKB     int64   `json:"totalKb"`
	UsedPercent float64 `json:"usedPercent"`
}

// System deployment classes inferred from the product string.
const (
	SystemClassEmbedded    = "embedded"    // JACE-class controller
	SystemClassSupervisor  = "supervisor"  // server-class supervisor
	SystemClassWorkstation = "workstation" // engineering workstation
)

// PlatformReport is the typed view of a platform-info text dump.
type PlatformReport struct {
	DaemonVersion   string `json:"daemonVersion,omitempty"`
	DaemonHTTPPort  string `json:"daemonHttpPort,omitempty"`
	HostID          string `json:"hostId,omitempty"`
	Model           string `json:"model,omitempty"`
	Product         string `json:"product,omitempty"`
	Architecture    string `json:"architecture,omitempty"`
	CPUCount        int    `json:"cpuCount,omitempty"`
	RuntimeVersion  string `json:"runtimeVersion,omitempty"`
	OperatingSystem string `json:"operatingSystem,omitempty"`
	JavaVM          string `json:"javaVm,omitempty"`
	TLSSupport      string `json:"tlsSupport,omitempty"`
	SystemClass     string `json:"systemClass"`

	Attributes map[string]string `json:"attributes,omitempty"`

	Modules      []PlatformModule      `json:"modules,omitempty"`
	Applications []PlatformApplication `json:"applications,omitempty"`
	Licenses     []PlatformLicense     `json:"licenses,omitempty"`
	Certificates []PlatformCertificate `json:"certificates,omitempty"`
	Filesystems  []FilesystemUsage     `json:"filesystems,omitempty"`
	RAM          *RAMUsage             `json:"ram,omitempty"`
}

package models

import "time"

// AlertSeverity grades cross-dataset alerts.
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// AlertCategory buckets alerts for reporting.
type AlertCategory string

const (
	CategoryPerformance AlertCategory = "performance"
	CategoryCapacity    AlertCategory = "capacity"
	CategorySecurity    AlertCategory = "security"
	CategoryMaintenance AlertCategory = "maintenance"
)

// Alert is one threshold or condition finding. Value and Threshold are
// display strings so non-numeric findings (e.g. "TLS disabled") fit the
// same shape.
type Alert struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Severity       AlertSeverity `json:"severity"`
	Category       AlertCategory `json:"category"`
	Metric         string        `json:"metric"`
	Value          string        `json:"value"`
	Threshold      string        `json:"threshold,omitempty"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// ThresholdViolation is the numeric projection of an Alert. It exists only
// when both the observed value and the threshold are numeric.
type ThresholdViolation struct {
	Metric      string        `json:"metric"`
	Value       float64       `json:"value"`
	Threshold   float64       `json:"threshold"`
	Severity    AlertSeverity `json:"severity"`
	Description string        `json:"description"`
}

// AnalysisInput names the datasets an analysis call may consume. Every field
// is optional; each extraction degrades to defaults when its source is nil.
type AnalysisInput struct {
	Platform         *Dataset `json:"platform,omitempty"`
	Resources        *Dataset `json:"resources,omitempty"`
	NetworkDevices   *Dataset `json:"networkDevices,omitempty"`
	DeviceInventory  *Dataset `json:"deviceInventory,omitempty"`
	Topology         *Dataset `json:"topology,omitempty"`
	SecondaryDevices *Dataset `json:"secondaryDevices,omitempty"`
}

// AnalysisMetadata carries bookkeeping for one analysis call.
type AnalysisMetadata struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	Version        string    `json:"version"`
	FilesProcessed int       `json:"filesProcessed"`
	ProcessingMS   int64     `json:"processingMs"`
	Confidence     int       `json:"confidence"`
}

// PlatformIdentity is the identity section of a system analysis.
type PlatformIdentity struct {
	HostID          string `json:"hostId"`
	Model           string `json:"model"`
	Product         string `json:"product"`
	RuntimeVersion  string `json:"runtimeVersion"`
	OperatingSystem string `json:"operatingSystem"`
	JavaVM          string `json:"javaVm"`
	Architecture    string `json:"architecture"`
	CPUCount        int    `json:"cpuCount"`
	SystemClass     string `json:"systemClass"`
}

// ResourceUtilization is the resource section of a system analysis.
type ResourceUtilization struct {
	CPUPercent    float64       `json:"cpuPercent"`
	HeapPercent   float64       `json:"heapPercent"`
	MemoryPercent float64       `json:"memoryPercent"`
	HeapUsedMB    float64       `json:"heapUsedMb"`
	HeapMaxMB     float64       `json:"heapMaxMb"`
	Devices       CapacityUsage `json:"devices"`
	Points        CapacityUsage `json:"points"`
	Histories     CapacityUsage `json:"histories"`
	ResourceUnits float64       `json:"resourceUnits"`
	UptimeSeconds float64       `json:"uptimeSeconds"`
}

// NetworkInventory is the device inventory section of a system analysis.
type NetworkInventory struct {
	TotalDevices   int                `json:"totalDevices"`
	ByStatus       map[StatusKind]int `json:"byStatus"`
	ByType         map[string]int     `json:"byType"`
	ByVendor       map[string]int     `json:"byVendor"`
	ByNetwork      map[string]int     `json:"byNetwork"`
	ByProtocol     map[string]int     `json:"byProtocol"`
	OfflineDevices []string           `json:"offlineDevices"`
}

// LicenseInfo is the license section of a system analysis.
type LicenseInfo struct {
	Total        int               `json:"total"`
	Licenses     []PlatformLicense `json:"licenses"`
	ExpiringSoon []string          `json:"expiringSoon"`
}

// DriverInfo summarises station/driver topology.
type DriverInfo struct {
	Stations  int            `json:"stations"`
	Connected int            `json:"connected"`
	Drivers   map[string]int `json:"drivers"`
}

// ModuleInfo summarises installed modules.
type ModuleInfo struct {
	Total    int            `json:"total"`
	ByVendor map[string]int `json:"byVendor"`
}

// CertificateInfo summarises certificate state.
type CertificateInfo struct {
	Total        int      `json:"total"`
	Expired      []string `json:"expired"`
	ExpiringSoon []string `json:"expiringSoon"`
}

// AlertsBundle collects everything the threshold evaluation produced.
type AlertsBundle struct {
	Alerts          []Alert              `json:"alerts"`
	Violations      []ThresholdViolation `json:"violations"`
	Recommendations []string             `json:"recommendations"`
}

// AnalysisSummary is the roll-up section of a system analysis.
type AnalysisSummary struct {
	SystemType      string   `json:"systemType"`
	TotalDevices    int      `json:"totalDevices"`
	HealthScore     int      `json:"healthScore"`
	CriticalCount   int      `json:"criticalCount"`
	WarningCount    int      `json:"warningCount"`
	CapacityPercent float64  `json:"capacityPercent"`
	TopActions      []string `json:"topActions"`
}

// SystemAnalysis is the unified cross-dataset report. Every field is
// JSON-safe for direct serialization to downstream reporting.
type SystemAnalysis struct {
	Metadata     AnalysisMetadata    `json:"metadata"`
	Platform     PlatformIdentity    `json:"platform"`
	Resources    ResourceUtilization `json:"resources"`
	Inventory    NetworkInventory    `json:"inventory"`
	Licenses     LicenseInfo         `json:"licenses"`
	Drivers      DriverInfo          `json:"drivers"`
	Modules      ModuleInfo          `json:"modules"`
	Certificates CertificateInfo     `json:"certificates"`
	Alerts       AlertsBundle        `json:"alerts"`
	Summary      AnalysisSummary     `json:"summary"`
}

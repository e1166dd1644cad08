package analysis

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stationstack/station-insight/internal/models"
)

// analysisVersion stamps every report so downstream consumers can tell which
// threshold table and extraction rules produced it.
const analysisVersion = "2.0.0"

// Input weights for the analysis confidence score, in AnalysisInput field
// order. Normalized so all six inputs sum to 100.
var inputWeights = [6]int{25, 25, 15, 15, 10, 10}

// Analyzer combines whatever parsed datasets are supplied into one unified
// system report. It is safe for concurrent use: all alert state is scoped to
// a single Analyze call.
type Analyzer struct {
	thresholds Thresholds
	logger     *slog.Logger
}

func NewAnalyzer(thresholds Thresholds, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{thresholds: thresholds, logger: logger}
}

// session holds the accumulators for one Analyze call. A fresh session is
// built at entry, so nothing leaks across calls.
type session struct {
	now             time.Time
	alerts          []models.Alert
	violations      []models.ThresholdViolation
	recommendations []string
}

// addAlert is the single funnel every extraction step reports through. It
// appends the alert, projects a ThresholdViolation when both value and
// threshold carry a leading number, and dedupes the recommendation list by
// exact string equality.
func (s *session) addAlert(severity models.AlertSeverity, category models.AlertCategory, metric, value, threshold, message, recommendation string) {
	s.alerts = append(s.alerts, models.Alert{
		ID:             uuid.NewString(),
		Timestamp:      s.now,
		Severity:       severity,
		Category:       category,
		Metric:         metric,
		Value:          value,
		Threshold:      threshold,
		Message:        message,
		Recommendation: recommendation,
	})

	if v, vok := leadingFloat(value); vok {
		if t, tok := leadingFloat(threshold); tok {
			s.violations = append(s.violations, models.ThresholdViolation{
				Metric:      metric,
				Value:       v,
				Threshold:   t,
				Severity:    severity,
				Description: message,
			})
		}
	}

	if recommendation != "" {
		for _, existing := range s.recommendations {
			if existing == recommendation {
				return
			}
		}
		s.recommendations = append(s.recommendations, recommendation)
	}
}

// Analyze builds a SystemAnalysis from any subset of the six named inputs.
// Every extraction degrades to its zero-value section when the source dataset
// is absent; supplying nothing yields an all-default report with confidence 0.
func (a *Analyzer) Analyze(input models.AnalysisInput) models.SystemAnalysis {
	started := time.Now()
	s := &session{now: started.UTC()}

	identity := extractIdentity(input.Platform)
	resources := a.extractResources(input.Resources, s)
	inventory := extractInventory(input.NetworkDevices, input.DeviceInventory, input.SecondaryDevices, s)
	licenses := a.extractLicenses(input.Platform, s)
	drivers := extractDrivers(input.Topology)
	modules := extractModules(input.Platform)
	certificates := a.extractCertificates(input.Platform, s)

	critical, warning := 0, 0
	for _, alert := range s.alerts {
		switch alert.Severity {
		case models.AlertCritical:
			critical++
		case models.AlertWarning:
			warning++
		}
	}

	capacity := resources.Devices.Percent
	if resources.Points.Percent > capacity {
		capacity = resources.Points.Percent
	}

	topActions := s.recommendations
	if len(topActions) > 5 {
		topActions = topActions[:5]
	}

	analysis := models.SystemAnalysis{
		Metadata: models.AnalysisMetadata{
			GeneratedAt:    s.now,
			Version:        analysisVersion,
			FilesProcessed: countInputs(input),
			Confidence:     inputConfidence(input),
		},
		Platform:     identity,
		Resources:    resources,
		Inventory:    inventory,
		Licenses:     licenses,
		Drivers:      drivers,
		Modules:      modules,
		Certificates: certificates,
		Alerts: models.AlertsBundle{
			Alerts:          emptyIfNilAlerts(s.alerts),
			Violations:      emptyIfNilViolations(s.violations),
			Recommendations: emptyIfNilStrings(s.recommendations),
		},
		Summary: models.AnalysisSummary{
			SystemType:      classifySystemType(identity.Product),
			TotalDevices:    inventory.TotalDevices,
			HealthScore:     healthScore(critical, warning),
			CriticalCount:   critical,
			WarningCount:    warning,
			CapacityPercent: capacity,
			TopActions:      emptyIfNilStrings(topActions),
		},
	}
	analysis.Metadata.ProcessingMS = time.Since(started).Milliseconds()

	a.logger.Debug("analysis complete",
		slog.Int("files", analysis.Metadata.FilesProcessed),
		slog.Int("health", analysis.Summary.HealthScore),
		slog.Int("alerts", len(s.alerts)))

	return analysis
}

// healthScore starts at 100 and deducts a fixed penalty per alert, clamped to
// [0, 100]. Adding an alert can never raise the score.
func healthScore(critical, warning int) int {
	score := 100 - 15*critical - 5*warning
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func extractIdentity(platform *models.Dataset) models.PlatformIdentity {
	if platform == nil || platform.Metadata.Platform == nil {
		return models.PlatformIdentity{}
	}
	p := platform.Metadata.Platform
	return models.PlatformIdentity{
		HostID:          p.HostID,
		Model:           p.Model,
		Product:         p.Product,
		RuntimeVersion:  p.RuntimeVersion,
		OperatingSystem: p.OperatingSystem,
		JavaVM:          p.JavaVM,
		Architecture:    p.Architecture,
		CPUCount:        p.CPUCount,
		SystemClass:     p.SystemClass,
	}
}

// extractResources projects the telemetry report into the utilization section
// and runs the threshold checks against it.
func (a *Analyzer) extractResources(resources *models.Dataset, s *session) models.ResourceUtilization {
	if resources == nil || resources.Metadata.Resources == nil {
		return models.ResourceUtilization{}
	}
	r := resources.Metadata.Resources
	th := a.thresholds

	util := models.ResourceUtilization{
		CPUPercent:    r.CPUUsagePercent,
		HeapPercent:   r.HeapPercent(),
		MemoryPercent: r.MemoryPercent(),
		HeapUsedMB:    r.HeapUsedMB,
		HeapMaxMB:     r.HeapMaxMB,
		Devices:       r.Devices,
		Points:        r.Points,
		Histories:     r.Histories,
		ResourceUnits: r.ResourceUnitsTotal,
		UptimeSeconds: r.UptimeSeconds,
	}

	if util.CPUPercent > th.CPUCritPercent {
		s.addAlert(models.AlertCritical, models.CategoryPerformance, "cpu usage",
			fmt.Sprintf("%.1f%%", util.CPUPercent), fmt.Sprintf("%.0f%%", th.CPUCritPercent),
			"CPU usage is critically high", "Investigate runaway logic or reduce polling load")
	} else if util.CPUPercent > th.CPUWarnPercent {
		s.addAlert(models.AlertWarning, models.CategoryPerformance, "cpu usage",
			fmt.Sprintf("%.1f%%", util.CPUPercent), fmt.Sprintf("%.0f%%", th.CPUWarnPercent),
			"CPU usage is elevated", "Review station load during peak periods")
	}

	if util.HeapPercent > th.HeapCritPercent {
		s.addAlert(models.AlertCritical, models.CategoryPerformance, "heap usage",
			fmt.Sprintf("%.1f%%", util.HeapPercent), fmt.Sprintf("%.0f%%", th.HeapCritPercent),
			"Java heap usage is critically high", "Increase heap allocation or reduce station load")
	} else if util.HeapPercent > th.HeapWarnPercent {
		s.addAlert(models.AlertWarning, models.CategoryPerformance, "heap usage",
			fmt.Sprintf("%.1f%%", util.HeapPercent), fmt.Sprintf("%.0f%%", th.HeapWarnPercent),
			"Java heap usage is elevated", "Monitor heap growth and plan an allocation increase")
	}

	if util.MemoryPercent > th.MemoryCritPercent {
		s.addAlert(models.AlertCritical, models.CategoryPerformance, "physical memory",
			fmt.Sprintf("%.1f%%", util.MemoryPercent), fmt.Sprintf("%.0f%%", th.MemoryCritPercent),
			"Physical memory usage is critically high", "Reduce station load or add memory")
	} else if util.MemoryPercent > th.MemoryWarnPercent {
		s.addAlert(models.AlertWarning, models.CategoryPerformance, "physical memory",
			fmt.Sprintf("%.1f%%", util.MemoryPercent), fmt.Sprintf("%.0f%%", th.MemoryWarnPercent),
			"Physical memory usage is elevated", "Monitor memory usage trends")
	}

	a.capacityCheck(s, "devices", util.Devices)
	a.capacityCheck(s, "points", util.Points)

	if r.ResourceUnitsLimit > 0 && util.Histories.Used > th.HistoriesEmbeddedWarn {
		s.addAlert(models.AlertWarning, models.CategoryCapacity, "history count",
			fmt.Sprintf("%.0f", util.Histories.Used), fmt.Sprintf("%.0f", th.HistoriesEmbeddedWarn),
			"History count is high for an embedded controller",
			"Archive or prune histories, or move collection to a supervisor")
	}

	if r.ScanRecentMS > th.ScanTimeWarnMS {
		s.addAlert(models.AlertWarning, models.CategoryPerformance, "engine scan time",
			fmt.Sprintf("%.0f ms", r.ScanRecentMS), fmt.Sprintf("%.0f ms", th.ScanTimeWarnMS),
			"Engine scan time is above target", "Profile the station for slow components")
	}

	if util.UptimeSeconds > th.UptimeWarnDays*24*3600 {
		s.addAlert(models.AlertWarning, models.CategoryMaintenance, "uptime",
			fmt.Sprintf("%.0f days", util.UptimeSeconds/86400), fmt.Sprintf("%.0f days", th.UptimeWarnDays),
			"System has not been restarted in over a year", "Schedule a maintenance restart window")
	}

	return util
}

func (a *Analyzer) capacityCheck(s *session, name string, usage models.CapacityUsage) {
	if usage.Unlimited || usage.Limit <= 0 {
		return
	}
	th := a.thresholds
	if usage.Percent > th.CapacityCritPercent {
		s.addAlert(models.AlertCritical, models.CategoryCapacity, name+" capacity",
			fmt.Sprintf("%.1f%%", usage.Percent), fmt.Sprintf("%.0f%%", th.CapacityCritPercent),
			fmt.Sprintf("%s usage is at %.1f%% of the licensed limit", name, usage.Percent),
			"Increase the licensed capacity or retire unused "+name)
	} else if usage.Percent > th.CapacityWarnPercent {
		s.addAlert(models.AlertWarning, models.CategoryCapacity, name+" capacity",
			fmt.Sprintf("%.1f%%", usage.Percent), fmt.Sprintf("%.0f%%", th.CapacityWarnPercent),
			fmt.Sprintf("%s usage is approaching the licensed limit (%.1f%%)", name, usage.Percent),
			"Review license sizing before adding more "+name)
	}
}

// extractInventory merges the device-bearing datasets into one inventory
// section. Vendor, network, and protocol breakdowns only exist where the
// inventory export contributed device metadata.
func extractInventory(network, inventory, secondary *models.Dataset, s *session) models.NetworkInventory {
	inv := models.NetworkInventory{
		ByStatus:       make(map[models.StatusKind]int),
		ByType:         make(map[string]int),
		ByVendor:       make(map[string]int),
		ByNetwork:      make(map[string]int),
		ByProtocol:     make(map[string]int),
		OfflineDevices: []string{},
	}

	for _, ds := range []*models.Dataset{network, inventory, secondary} {
		if ds == nil {
			continue
		}
		inv.TotalDevices += ds.Summary.TotalDevices
		for kind, n := range ds.Summary.StatusCounts {
			inv.ByStatus[kind] += n
		}
		for typ, n := range ds.Summary.TypeCounts {
			inv.ByType[typ] += n
		}
		for _, row := range ds.Rows {
			if row.Device != nil {
				if row.Device.Vendor != "" {
					inv.ByVendor[row.Device.Vendor]++
				}
				if row.Device.Network != "" {
					inv.ByNetwork[row.Device.Network]++
				}
				if row.Device.ProtocolRev != "" {
					inv.ByProtocol[row.Device.ProtocolRev]++
				}
			}
			if row.Status != nil && row.Status.Status == models.StatusDown {
				name := row.Data[ds.Spec.KeyColumn]
				if name == "" {
					name = row.ID
				}
				inv.OfflineDevices = append(inv.OfflineDevices, name)
			}
		}
	}

	if n := len(inv.OfflineDevices); n > 0 {
		severity := models.AlertWarning
		if n >= 5 {
			severity = models.AlertCritical
		}
		s.addAlert(severity, models.CategoryMaintenance, "offline devices",
			strconv.Itoa(n), "",
			fmt.Sprintf("%d devices are offline", n),
			"Restore communication to offline devices")
	}

	return inv
}

func (a *Analyzer) extractLicenses(platform *models.Dataset, s *session) models.LicenseInfo {
	info := models.LicenseInfo{Licenses: []models.PlatformLicense{}, ExpiringSoon: []string{}}
	if platform == nil || platform.Metadata.Platform == nil {
		return info
	}

	now := s.now
	for _, lic := range platform.Metadata.Platform.Licenses {
		info.Total++
		info.Licenses = append(info.Licenses, lic)
		if lic.NeverExpires || lic.ExpiresAt == nil {
			continue
		}
		days := int(lic.ExpiresAt.Sub(now).Hours() / 24)
		if days <= a.thresholds.CertExpiryWarnDays {
			info.ExpiringSoon = append(info.ExpiringSoon, lic.Name)
			severity := models.AlertWarning
			msg := fmt.Sprintf("License %s expires in %d days", lic.Name, days)
			if days < 0 {
				severity = models.AlertCritical
				msg = fmt.Sprintf("License %s expired on %s", lic.Name, lic.ExpiresAt.Format("2006-01-02"))
			}
			s.addAlert(severity, models.CategoryMaintenance, "license expiry",
				lic.Name, "", msg, "Renew the license with the vendor")
		}
	}
	return info
}

// extractDrivers summarises the station topology: station count, how many
// have a live connection, and a breakdown by driver network.
func extractDrivers(topology *models.Dataset) models.DriverInfo {
	info := models.DriverInfo{Drivers: make(map[string]int)}
	if topology == nil {
		return info
	}

	for _, row := range topology.Rows {
		if row.Topology == nil {
			continue
		}
		info.Stations++
		if isConnected(row.Topology.ClientConn) || isConnected(row.Topology.ServerConn) {
			info.Connected++
		}
		if driver := driverSegment(row.Topology.Path); driver != "" {
			info.Drivers[driver]++
		}
	}
	return info
}

func isConnected(conn string) bool {
	return strings.EqualFold(strings.TrimSpace(conn), "connected")
}

// driverSegment picks the driver network out of a station path: the segment
// after "Drivers" when present, otherwise the first segment.
func driverSegment(path string) string {
	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if strings.TrimSpace(seg) != "" {
			segs = append(segs, seg)
		}
	}
	for i, seg := range segs {
		if strings.EqualFold(seg, "Drivers") && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	if len(segs) > 0 {
		return segs[0]
	}
	return ""
}

func extractModules(platform *models.Dataset) models.ModuleInfo {
	info := models.ModuleInfo{ByVendor: make(map[string]int)}
	if platform == nil || platform.Metadata.Platform == nil {
		return info
	}
	for _, mod := range platform.Metadata.Platform.Modules {
		info.Total++
		info.ByVendor[mod.Vendor]++
	}
	return info
}

func (a *Analyzer) extractCertificates(platform *models.Dataset, s *session) models.CertificateInfo {
	info := models.CertificateInfo{Expired: []string{}, ExpiringSoon: []string{}}
	if platform == nil || platform.Metadata.Platform == nil {
		return info
	}

	p := platform.Metadata.Platform
	if strings.Contains(strings.ToLower(p.TLSSupport), "disabled") {
		s.addAlert(models.AlertCritical, models.CategorySecurity, "platform tls",
			p.TLSSupport, "",
			"Platform TLS support is disabled; daemon traffic is unencrypted",
			"Enable TLS on the platform daemon")
	}

	now := s.now
	for _, cert := range p.Certificates {
		info.Total++
		if cert.NeverExpires || cert.ExpiresAt == nil {
			continue
		}
		days := int(cert.ExpiresAt.Sub(now).Hours() / 24)
		switch {
		case days < 0:
			info.Expired = append(info.Expired, cert.Name)
			s.addAlert(models.AlertCritical, models.CategorySecurity, "certificate expiry",
				cert.Name, "",
				fmt.Sprintf("Certificate %s expired on %s", cert.Name, cert.ExpiresAt.Format("2006-01-02")),
				"Replace the expired certificate")
		case days <= a.thresholds.CertExpiryWarnDays:
			info.ExpiringSoon = append(info.ExpiringSoon, cert.Name)
			s.addAlert(models.AlertWarning, models.CategorySecurity, "certificate expiry",
				cert.Name, fmt.Sprintf("%d days", a.thresholds.CertExpiryWarnDays),
				fmt.Sprintf("Certificate %s expires in %d days", cert.Name, days),
				"Renew the certificate before it expires")
		}
	}
	return info
}

// classifySystemType buckets by product-string substring. Embedded-controller
// class is the default: JACE hardware rarely self-identifies beyond a model
// code.
func classifySystemType(product string) string {
	lower := strings.ToLower(product)
	switch {
	case strings.Contains(lower, "supervisor"):
		return models.SystemClassSupervisor
	case strings.Contains(lower, "workstation"):
		return models.SystemClassWorkstation
	default:
		return models.SystemClassEmbedded
	}
}

func countInputs(input models.AnalysisInput) int {
	n := 0
	for _, ds := range inputSlice(input) {
		if ds != nil {
			n++
		}
	}
	return n
}

// inputConfidence weights the supplied inputs: the platform dump and the
// telemetry export carry the most analytical signal.
func inputConfidence(input models.AnalysisInput) int {
	total := 0
	for i, ds := range inputSlice(input) {
		if ds != nil {
			total += inputWeights[i]
		}
	}
	if total > 100 {
		total = 100
	}
	return total
}

func inputSlice(input models.AnalysisInput) [6]*models.Dataset {
	return [6]*models.Dataset{
		input.Platform,
		input.Resources,
		input.NetworkDevices,
		input.DeviceInventory,
		input.Topology,
		input.SecondaryDevices,
	}
}

// leadingFloat pulls the leading numeric portion out of a display string like
// "94.3%" or "512 MB". Used to decide whether an alert projects a violation.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := 0
	for end < len(s) && (s[end] == '.' || s[end] == '-' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func emptyIfNilAlerts(a []models.Alert) []models.Alert {
	if a == nil {
		return []models.Alert{}
	}
	return a
}

func emptyIfNilViolations(v []models.ThresholdViolation) []models.ThresholdViolation {
	if v == nil {
		return []models.ThresholdViolation{}
	}
	return v
}

func emptyIfNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

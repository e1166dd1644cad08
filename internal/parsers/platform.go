package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stationstack/station-insight/internal/analysis"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/models"
)

// platformInfoConfidence: the enriched text parse includes certificate and
// filesystem alerting, same tier as the telemetry parse.
const platformInfoConfidence = 98

// Section line regexes for the platform dump's state machine.
var (
	reModuleLine   = regexp.MustCompile(`^(\S+)\s+\(([^()]+?)\s+(\S+)\)$`)
	reExpiryLine   = regexp.MustCompile(`^(\S+)\s+\((\S+)\s+(\S+)\s*-\s*(.+)\)$`)
	reStationLine  = regexp.MustCompile(`^station\s+"?([^"\s]+)"?\s*(.*)$`)
	reKeyValuePair = regexp.MustCompile(`(\w+)=(\S+)`)
	reKBPair       = regexp.MustCompile(`([\d,]+)\s*KB`)
)

// LTS runtime lines. Anything else gets a maintenance warning since only LTS
// lines receive security patches long-term.
var ltsRuntimeLines = []string{"4.4", "4.9", "4.14"}

type platformSection int

const (
	sectionNone platformSection = iota
	sectionModules
	sectionApplications
	sectionLicenses
	sectionCertificates
	sectionFilesystems
	sectionRAM
)

// ParsePlatformInfo parses the free-text platform dump with a line-oriented
// state machine. The whole file collapses into a single synthetic row; the
// typed report lives in the dataset metadata.
func ParsePlatformInfo(content, filename string, opts models.ParseOptions) (*models.Dataset, error) {
	started := time.Now()
	if err := validateContent(content, opts); err != nil {
		return nil, err
	}

	spec := formats.Get(models.FormatPlatformInfo)
	report := &models.PlatformReport{Attributes: make(map[string]string)}

	section := sectionNone
	for _, rawLine := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if next, isHeader := sectionFor(line); isHeader {
			section = next
			continue
		}

		switch section {
		case sectionModules:
			if m := reModuleLine.FindStringSubmatch(line); m != nil {
				report.Modules = append(report.Modules, models.PlatformModule{
					Name: m[1], Vendor: m[2], Version: m[3],
				})
				continue
			}
		case sectionApplications:
			if app, ok := parseStationLine(line); ok {
				report.Applications = append(report.Applications, app)
				continue
			}
		case sectionLicenses:
			if lic, ok := parseExpiryLine(line); ok {
				report.Licenses = append(report.Licenses, models.PlatformLicense(lic))
				continue
			}
		case sectionCertificates:
			if cert, ok := parseExpiryLine(line); ok {
				report.Certificates = append(report.Certificates, models.PlatformCertificate(cert))
				continue
			}
		case sectionFilesystems:
			if fs, ok := parseFilesystemLine(line); ok {
				report.Filesystems = append(report.Filesystems, fs)
				continue
			}
		case sectionRAM:
			if ram, ok := parseRAMLine(line); ok {
				report.RAM = &ram
				continue
			}
		}

		// Generic key: value extraction outside (or falling through) sections.
		if key, value, found := strings.Cut(line, ":"); found {
			applyPlatformAttribute(report, strings.TrimSpace(key), strings.TrimSpace(value))
			section = sectionNone
		}
	}

	report.SystemClass = classifySystem(report.Product, report.Model)
	alerts := evaluatePlatformAlerts(report, analysis.DefaultThresholds(), time.Now().UTC())

	row := models.Row{
		ID: newRowID(),
		Data: map[string]string{
			"Name":             hostDisplayName(report),
			"Host ID":          report.HostID,
			"Model":            report.Model,
			"Product":          report.Product,
			"Niagara Runtime":  report.RuntimeVersion,
			"Operating System": report.OperatingSystem,
		},
	}

	columns := []models.ColumnDef{
		{Name: "Name", Label: "Name"},
		{Name: "Host ID", Label: "Host ID"},
		{Name: "Model", Label: "Model"},
		{Name: "Product", Label: "Product"},
		{Name: "Niagara Runtime", Label: "Niagara Runtime"},
		{Name: "Operating System", Label: "Operating System"},
	}

	ds := newDataset(filename, spec, "platform", columns, []models.Row{row}, nil, platformInfoConfidence, started, content)
	ds.Metadata.Platform = report
	ds.Metadata.Alerts = alerts
	return ds, nil
}

// sectionFor recognises the dump's section headers. Headers sometimes carry a
// trailing colon and sometimes a column ruler, so matching is prefix-based.
func sectionFor(line string) (platformSection, bool) {
	lower := strings.ToLower(line)
	switch {
	case lower == "modules" || lower == "modules:":
		return sectionModules, true
	case lower == "applications" || lower == "applications:":
		return sectionApplications, true
	case lower == "licenses" || lower == "licenses:":
		return sectionLicenses, true
	case lower == "certificates" || lower == "certificates:":
		return sectionCertificates, true
	case strings.HasPrefix(lower, "filesystem") && strings.Contains(lower, "free") && strings.Contains(lower, "total"):
		return sectionFilesystems, true
	case strings.HasPrefix(lower, "physical ram") && strings.Contains(lower, "free"):
		return sectionRAM, true
	}
	return sectionNone, false
}

// parseStationLine handles `station <name> key=value ...` application lines.
func parseStationLine(line string) (models.PlatformApplication, bool) {
	m := reStationLine.FindStringSubmatch(line)
	if m == nil {
		return models.PlatformApplication{}, false
	}
	app := models.PlatformApplication{
		Name:  m[1],
		Ports: make(map[string]int),
	}
	for _, pair := range reKeyValuePair.FindAllStringSubmatch(m[2], -1) {
		key := strings.ToLower(pair[1])
		value := strings.TrimRight(pair[2], ",)")
		switch key {
		case "fox", "foxs", "http", "https":
			if port, err := strconv.Atoi(value); err == nil {
				app.Ports[key] = port
			}
		case "autostart":
			app.Autostart = strings.EqualFold(value, "true")
		case "autorestart":
			app.AutoRestart = strings.EqualFold(value, "true")
		case "status", "state":
			app.Status = value
		}
	}
	if app.Status == "" {
		if open := strings.LastIndex(m[2], "("); open >= 0 {
			app.Status = strings.Trim(m[2][open:], "()")
		}
	}
	if len(app.Ports) == 0 {
		app.Ports = nil
	}
	return app, true
}

// expiryEntry is the shared shape of license and certificate lines.
type expiryEntry struct {
	Name         string
	Vendor       string
	Version      string
	Expires      string
	NeverExpires bool
	ExpiresAt    *time.Time
}

// parseExpiryLine handles `name (vendor version - expiry)` lines, shared by
// the licenses and certificates sections.
func parseExpiryLine(line string) (expiryEntry, bool) {
	m := reExpiryLine.FindStringSubmatch(line)
	if m == nil {
		return expiryEntry{}, false
	}
	entry := expiryEntry{
		Name:    m[1],
		Vendor:  m[2],
		Version: m[3],
		Expires: strings.TrimSpace(m[4]),
	}
	if strings.EqualFold(entry.Expires, "never expires") || strings.EqualFold(entry.Expires, "never") {
		entry.NeverExpires = true
		return entry, true
	}
	raw := strings.TrimSpace(strings.TrimPrefix(entry.Expires, "expires"))
	for _, layout := range []string{"2006-01-02", "02-Jan-06", "2-Jan-2006", "Jan 2, 2006"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			entry.ExpiresAt = &ts
			break
		}
	}
	return entry, true
}

// parseFilesystemLine handles one row of the filesystem table:
// path, free KB, total KB (plus file-count columns that are ignored).
func parseFilesystemLine(line string) (models.FilesystemUsage, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || !strings.HasPrefix(fields[0], "/") {
		return models.FilesystemUsage{}, false
	}
	pairs := reKBPair.FindAllStringSubmatch(line, -1)
	if len(pairs) < 2 {
		return models.FilesystemUsage{}, false
	}
	fs := models.FilesystemUsage{
		Path:    fields[0],
		FreeKB:  groupedInt(pairs[0][1]),
		TotalKB: groupedInt(pairs[1][1]),
	}
	if fs.TotalKB > 0 {
		fs.FreePercent = float64(fs.FreeKB) / float64(fs.TotalKB) * 100
	}
	return fs, true
}

// parseRAMLine handles the physical RAM row: free KB then total KB.
func parseRAMLine(line string) (models.RAMUsage, bool) {
	pairs := reKBPair.FindAllStringSubmatch(line, -1)
	if len(pairs) < 2 {
		return models.RAMUsage{}, false
	}
	ram := models.RAMUsage{
		FreeKB:  groupedInt(pairs[0][1]),
		TotalKB: groupedInt(pairs[1][1]),
	}
	if ram.TotalKB > 0 {
		ram.UsedPercent = float64(ram.TotalKB-ram.FreeKB) / float64(ram.TotalKB) * 100
	}
	return ram, true
}

func groupedInt(s string) int64 {
	n, _ := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	return n
}

// applyPlatformAttribute routes a generic key: value line to its typed field.
// Unrecognised keys land in the attributes map.
func applyPlatformAttribute(report *models.PlatformReport, key, value string) {
	switch strings.ToLower(key) {
	case "daemon version":
		report.DaemonVersion = value
	case "daemon http port":
		report.DaemonHTTPPort = value
	case "host id":
		report.HostID = value
	case "model":
		report.Model = value
	case "product":
		report.Product = value
	case "architecture":
		report.Architecture = value
	case "number of cpus":
		if n, err := strconv.Atoi(value); err == nil {
			report.CPUCount = n
		}
	case "niagara runtime":
		report.RuntimeVersion = value
	case "operating system":
		report.OperatingSystem = value
	case "java virtual machine":
		report.JavaVM = value
	case "platform tls support":
		report.TLSSupport = value
	default:
		if key != "" && value != "" {
			report.Attributes[key] = value
		}
	}
}

// classifySystem maps the product string onto a deployment class. Embedded is
// the default: JACE-class controllers rarely self-identify beyond a model code.
func classifySystem(product, model string) string {
	probe := strings.ToLower(product + " " + model)
	switch {
	case strings.Contains(probe, "supervisor"):
		return models.SystemClassSupervisor
	case strings.Contains(probe, "workstation"):
		return models.SystemClassWorkstation
	default:
		return models.SystemClassEmbedded
	}
}

func hostDisplayName(report *models.PlatformReport) string {
	if report.HostID != "" {
		return report.HostID
	}
	if report.Product != "" {
		return report.Product
	}
	return "platform"
}

// evaluatePlatformAlerts applies the security and maintenance checks the
// platform dump supports: TLS state, certificate expiry, runtime support
// line, and free disk space against the class-dependent floor.
func evaluatePlatformAlerts(report *models.PlatformReport, th analysis.Thresholds, now time.Time) []models.Alert {
	var alerts []models.Alert
	add := func(sev models.AlertSeverity, cat models.AlertCategory, metric, value, threshold, message, rec string) {
		alerts = append(alerts, models.Alert{
			ID:             uuid.NewString(),
			Timestamp:      now,
			Severity:       sev,
			Category:       cat,
			Metric:         metric,
			Value:          value,
			Threshold:      threshold,
			Message:        message,
			Recommendation: rec,
		})
	}

	if strings.Contains(strings.ToLower(report.TLSSupport), "disabled") {
		add(models.AlertCritical, models.CategorySecurity, "platform tls",
			report.TLSSupport, "",
			"Platform TLS support is disabled; daemon traffic is unencrypted",
			"Enable TLS on the platform daemon")
	}

	for _, cert := range report.Certificates {
		if cert.NeverExpires || cert.ExpiresAt == nil {
			continue
		}
		switch days := int(cert.ExpiresAt.Sub(now).Hours() / 24); {
		case days < 0:
			add(models.AlertCritical, models.CategorySecurity, "certificate expiry",
				cert.Name, "",
				fmt.Sprintf("Certificate %s expired on %s", cert.Name, cert.ExpiresAt.Format("2006-01-02")),
				"Replace the expired certificate")
		case days <= th.CertExpiryWarnDays:
			add(models.AlertWarning, models.CategorySecurity, "certificate expiry",
				cert.Name, fmt.Sprintf("%d days", th.CertExpiryWarnDays),
				fmt.Sprintf("Certificate %s expires in %d days", cert.Name, days),
				"Renew the certificate before it expires")
		}
	}

	if report.RuntimeVersion != "" && !isLTSRuntime(report.RuntimeVersion) {
		add(models.AlertWarning, models.CategoryMaintenance, "runtime version",
			report.RuntimeVersion, strings.Join(ltsRuntimeLines, "/"),
			"Runtime is not on a long-term-support line",
			"Plan an upgrade to an LTS runtime release")
	}

	floor := th.DiskFreeWarnServerPercent
	if report.SystemClass == models.SystemClassEmbedded {
		floor = th.DiskFreeWarnEmbeddedPercent
	}
	for _, fs := range report.Filesystems {
		if fs.TotalKB > 0 && fs.FreePercent < floor {
			add(models.AlertWarning, models.CategoryMaintenance, "disk free space",
				fmt.Sprintf("%s %.1f%%", fs.Path, fs.FreePercent), fmt.Sprintf("%.0f%%", floor),
				fmt.Sprintf("Filesystem %s has only %.1f%% free space", fs.Path, fs.FreePercent),
				"Free up disk space or expand storage")
		}
	}

	return alerts
}

// isLTSRuntime checks the version's major.minor line against the LTS list.
func isLTSRuntime(version string) bool {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return false
	}
	line := parts[0] + "." + parts[1]
	for _, lts := range ltsRuntimeLines {
		if line == lts {
			return true
		}
	}
	return false
}

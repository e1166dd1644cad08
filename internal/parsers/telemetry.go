package parsers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stationstack/station-insight/internal/analysis"
	"github.com/stationstack/station-insight/internal/csvio"
	"github.com/stationstack/station-insight/internal/fieldparse"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/models"
)

// resourceTelemetryConfidence: the enriched telemetry parse includes
// threshold alerting, slightly below the exact-signature detection score.
const resourceTelemetryConfidence = 98

var (
	reQueuePeak     = regexp.MustCompile(`^([\d,]+)\s*\(\s*peak\s*([\d,]+)\s*\)$`)
	reLeadingNumber = regexp.MustCompile(`^([\d,]+(?:\.\d+)?)`)
)

// ParseResourceTelemetry parses the two-column Name,Value resource export
// into a typed ResourceReport plus threshold alerts. The format is lenient:
// many loosely related key-value exports satisfy its shape, which is also why
// the orchestrator uses it as the low-confidence fallback.
func ParseResourceTelemetry(content, filename string, opts models.ParseOptions) (*models.Dataset, error) {
	started := time.Now()
	if err := validateContent(content, opts); err != nil {
		return nil, err
	}

	spec := formats.Get(models.FormatResourceTelemetry)
	tokenized := csvio.Tokenize(content, opts.RowCap())

	warnings, err := checkColumns(tokenized.Header, spec, opts.StrictValidation)
	if err != nil {
		return nil, err
	}
	if tokenized.Truncated {
		warnings = append(warnings, "row cap reached; remaining lines were not ingested")
	}

	keyCol, valCol := telemetryColumns(tokenized.Header)

	kv := make(map[string]string, len(tokenized.Rows))
	rows := make([]models.Row, 0, len(tokenized.Rows))
	for _, fields := range tokenized.Rows {
		data := rawRecord(tokenized.Header, fields, opts.SanitizeData)
		name := strings.TrimSpace(data[keyCol])
		if name == "" {
			continue
		}
		value := data[valCol]
		kv[name] = value

		parsed := typedTelemetryValue(name, value)
		rows = append(rows, models.Row{
			ID:     newRowID(),
			Data:   data,
			Values: map[string]models.ParsedValue{valCol: parsed},
		})
	}

	report := buildResourceReport(kv)
	alerts := evaluateResourceAlerts(report, analysis.DefaultThresholds())

	ds := newDataset(filename, spec, "telemetry", columnDefs(tokenized.Header), rows, warnings, resourceTelemetryConfidence, started, content)
	ds.Metadata.Resources = report
	ds.Metadata.Alerts = alerts
	return ds, nil
}

// telemetryColumns resolves the key/value column names from the header,
// tolerating the loose two-column exports the fallback path sees.
func telemetryColumns(header []string) (string, string) {
	keyCol, valCol := "Name", "Value"
	if len(header) >= 2 && !headerHas(header, "Name") {
		keyCol = strings.TrimSpace(header[0])
		valCol = strings.TrimSpace(header[1])
	}
	return keyCol, valCol
}

// typedTelemetryValue refines the generic value parse for the two
// time-flavoured keys so their rows carry duration and timestamp kinds
// instead of falling through to text.
func typedTelemetryValue(name, raw string) models.ParsedValue {
	switch name {
	case "time.uptime":
		if up, ok := fieldparse.ParseUptime(raw); ok {
			return models.ParsedValue{
				Kind:      models.ValueDuration,
				Number:    up.Total.Seconds(),
				Unit:      "s",
				Formatted: raw,
			}
		}
	case "time.current":
		if ts, ok := fieldparse.ParseVendorTimestamp(raw); ok {
			return models.ParsedValue{
				Kind:      models.ValueTimestamp,
				Text:      ts.UTC().Format(time.RFC3339),
				Formatted: raw,
			}
		}
	}
	return fieldparse.ParseValue(raw)
}

// buildResourceReport maps the export's well-known key names onto the typed
// report. Unrecognised keys remain available through the legacy view.
func buildResourceReport(kv map[string]string) *models.ResourceReport {
	report := &models.ResourceReport{
		ResourceCategories: make(map[string]float64),
		Legacy:             make(map[string]string, len(kv)),
	}
	for k, v := range kv {
		report.Legacy[k] = v
	}

	report.Components = int(leadingNumber(kv["component.count"]))

	report.Devices = capacityOf(kv, "globalCapacity.devices")
	report.Points = capacityOf(kv, "globalCapacity.points")
	report.Networks = capacityOf(kv, "globalCapacity.networks")
	report.Links = capacityOf(kv, "globalCapacity.links")
	report.Schedules = capacityOf(kv, "globalCapacity.schedules")

	report.Histories = capacityOf(kv, "globalCapacity.histories")
	if report.Histories.Used == 0 {
		report.Histories.Used = leadingNumber(kv["history.count"])
		if limit, ok := kv["history.limit"]; ok && !strings.EqualFold(strings.TrimSpace(limit), "none") {
			report.Histories.Limit = leadingNumber(limit)
			if report.Histories.Limit > 0 {
				report.Histories.Percent = report.Histories.Used / report.Histories.Limit * 100
			}
		} else if report.Histories.Used > 0 {
			report.Histories.Unlimited = true
		}
	}

	report.ResourceUnitsTotal = leadingNumber(kv["resources.total"])
	report.ResourceUnitsLimit = leadingNumber(kv["resources.limit"])
	for k, v := range kv {
		if category, ok := strings.CutPrefix(k, "resources.category."); ok {
			report.ResourceCategories[category] = leadingNumber(v)
		}
	}

	if m := reQueuePeak.FindStringSubmatch(strings.ToLower(strings.TrimSpace(kv["engine.queue.actions"]))); m != nil {
		report.EngineQueueCurrent = leadingNumber(m[1])
		report.EngineQueuePeak = leadingNumber(m[2])
	} else {
		report.EngineQueueCurrent = leadingNumber(kv["engine.queue.actions"])
	}

	report.ScanRecentMS = leadingNumber(kv["engine.scan.recent"])
	report.ScanPeakMS = leadingNumber(kv["engine.scan.peak"])
	report.ScanLifetimeMS = leadingNumber(kv["engine.scan.lifetime"])
	if pct, ok := fieldparse.ParsePercent(kv["engine.scan.usage"]); ok {
		report.ScanUsagePercent = pct
	}

	report.HeapUsedMB = memoryMB(kv["heap.used"])
	report.HeapMaxMB = memoryMB(kv["heap.max"])
	report.HeapFreeMB = memoryMB(kv["heap.free"])
	report.HeapTotalMB = memoryMB(kv["heap.total"])
	report.MemUsedMB = memoryMB(kv["mem.used"])
	report.MemTotalMB = memoryMB(kv["mem.total"])
	if report.MemTotalMB == 0 {
		report.MemTotalMB = memoryMB(kv["mem.physical"])
	}

	if pct, ok := fieldparse.ParsePercent(kv["cpu.usage"]); ok {
		report.CPUUsagePercent = pct
	}

	if raw, ok := kv["time.uptime"]; ok {
		report.UptimeRaw = raw
		if up, parsed := fieldparse.ParseUptime(raw); parsed {
			report.UptimeSeconds = up.Total.Seconds()
		}
	}

	if raw, ok := kv["time.current"]; ok {
		report.ExportedAtRaw = raw
		if ts, parsed := fieldparse.ParseVendorTimestamp(raw); parsed {
			report.ExportedAt = ts
			report.ExportTimeValid = true
		}
	}

	report.RuntimeVersion = strings.TrimSpace(kv["version.niagara"])
	report.JavaVersion = strings.TrimSpace(kv["version.java"])
	report.OSVersion = strings.TrimSpace(kv["version.os"])

	return report
}

// evaluateResourceAlerts applies the authoritative threshold table to the
// telemetry report. This is the dataset-level alert list; the cross-dataset
// analyzer repeats the resource evaluation within its own alert session.
func evaluateResourceAlerts(report *models.ResourceReport, th analysis.Thresholds) []models.Alert {
	var alerts []models.Alert
	add := func(sev models.AlertSeverity, cat models.AlertCategory, metric, value, threshold, message, rec string) {
		alerts = append(alerts, models.Alert{
			ID:             uuid.NewString(),
			Timestamp:      time.Now().UTC(),
			Severity:       sev,
			Category:       cat,
			Metric:         metric,
			Value:          value,
			Threshold:      threshold,
			Message:        message,
			Recommendation: rec,
		})
	}

	capacityAlert := func(name string, usage models.CapacityUsage) {
		if usage.Unlimited || usage.Limit <= 0 {
			return
		}
		switch {
		case usage.Percent > th.CapacityCritPercent:
			add(models.AlertCritical, models.CategoryCapacity, name+" capacity",
				fmt.Sprintf("%.1f%%", usage.Percent), fmt.Sprintf("%.0f%%", th.CapacityCritPercent),
				fmt.Sprintf("%s usage is at %.1f%% of the licensed limit", name, usage.Percent),
				"Increase the licensed capacity or retire unused "+name)
		case usage.Percent > th.CapacityWarnPercent:
			add(models.AlertWarning, models.CategoryCapacity, name+" capacity",
				fmt.Sprintf("%.1f%%", usage.Percent), fmt.Sprintf("%.0f%%", th.CapacityWarnPercent),
				fmt.Sprintf("%s usage is approaching the licensed limit (%.1f%%)", name, usage.Percent),
				"Review license sizing before adding more "+name)
		}
	}
	capacityAlert("devices", report.Devices)
	capacityAlert("points", report.Points)

	// A kRU limit only exists on embedded controllers, so it doubles as the
	// JACE-class signal for the history count rule.
	if report.ResourceUnitsLimit > 0 && report.Histories.Used > th.HistoriesEmbeddedWarn {
		add(models.AlertWarning, models.CategoryCapacity, "history count",
			fmt.Sprintf("%.0f", report.Histories.Used), fmt.Sprintf("%.0f", th.HistoriesEmbeddedWarn),
			"History count is high for an embedded controller",
			"Archive or prune histories, or move collection to a supervisor")
	}

	if hp := report.HeapPercent(); hp > 0 {
		switch {
		case hp > th.HeapCritPercent:
			add(models.AlertCritical, models.CategoryPerformance, "heap usage",
				fmt.Sprintf("%.1f%%", hp), fmt.Sprintf("%.0f%%", th.HeapCritPercent),
				"Java heap usage is critically high", "Increase heap allocation or reduce station load")
		case hp > th.HeapWarnPercent:
			add(models.AlertWarning, models.CategoryPerformance, "heap usage",
				fmt.Sprintf("%.1f%%", hp), fmt.Sprintf("%.0f%%", th.HeapWarnPercent),
				"Java heap usage is elevated", "Monitor heap growth and plan an allocation increase")
		}
	}

	if mp := report.MemoryPercent(); mp > 0 {
		switch {
		case mp > th.MemoryCritPercent:
			add(models.AlertCritical, models.CategoryPerformance, "physical memory",
				fmt.Sprintf("%.1f%%", mp), fmt.Sprintf("%.0f%%", th.MemoryCritPercent),
				"Physical memory usage is critically high", "Reduce station load or add memory")
		case mp > th.MemoryWarnPercent:
			add(models.AlertWarning, models.CategoryPerformance, "physical memory",
				fmt.Sprintf("%.1f%%", mp), fmt.Sprintf("%.0f%%", th.MemoryWarnPercent),
				"Physical memory usage is elevated", "Monitor memory usage trends")
		}
	}

	if cpu := report.CPUUsagePercent; cpu > 0 {
		switch {
		case cpu > th.CPUCritPercent:
			add(models.AlertCritical, models.CategoryPerformance, "cpu usage",
				fmt.Sprintf("%.1f%%", cpu), fmt.Sprintf("%.0f%%", th.CPUCritPercent),
				"CPU usage is critically high", "Investigate runaway logic or reduce polling load")
		case cpu > th.CPUWarnPercent:
			add(models.AlertWarning, models.CategoryPerformance, "cpu usage",
				fmt.Sprintf("%.1f%%", cpu), fmt.Sprintf("%.0f%%", th.CPUWarnPercent),
				"CPU usage is elevated", "Review station load during peak periods")
		}
	}

	if report.ScanRecentMS > th.ScanTimeWarnMS {
		add(models.AlertWarning, models.CategoryPerformance, "engine scan time",
			fmt.Sprintf("%.0f ms", report.ScanRecentMS), fmt.Sprintf("%.0f ms", th.ScanTimeWarnMS),
			"Engine scan time is above target", "Profile the station for slow components")
	}

	if report.UptimeSeconds > th.UptimeWarnDays*24*3600 {
		add(models.AlertWarning, models.CategoryMaintenance, "uptime",
			report.UptimeRaw, fmt.Sprintf("%.0f days", th.UptimeWarnDays),
			"System has not been restarted in over a year",
			"Schedule a maintenance restart window")
	}

	if !report.ExportTimeValid {
		value := report.ExportedAtRaw
		if value == "" {
			value = "absent"
		}
		add(models.AlertCritical, models.CategoryMaintenance, "export timestamp",
			value, "",
			"Export timestamp is missing or invalid; the snapshot's age cannot be established",
			"Re-export the resource file from the station")
	}

	return alerts
}

func capacityOf(kv map[string]string, key string) models.CapacityUsage {
	raw, ok := kv[key]
	if !ok {
		return models.CapacityUsage{}
	}
	if usage, parsed := fieldparse.ParseCapacity(raw); parsed {
		return usage
	}
	return models.CapacityUsage{Used: leadingNumber(raw)}
}

func memoryMB(raw string) float64 {
	if raw == "" {
		return 0
	}
	if mb, ok := fieldparse.ParseMemoryMB(raw); ok {
		return mb
	}
	return leadingNumber(raw)
}

func leadingNumber(raw string) float64 {
	m := reLeadingNumber.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0
	}
	return groupedFloat(m[1])
}

func groupedFloat(s string) float64 {
	v := fieldparse.ParseValue(s)
	if v.Kind == models.ValueCount {
		return v.Number
	}
	return 0
}

package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stationstack/station-insight/internal/csvio"
	"github.com/stationstack/station-insight/internal/fieldparse"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/models"
)

const deviceInventoryConfidence = 85

// deviceCategories is the fixed vocabulary for equipment classification.
// Matching is by substring against the device name first, then the model.
var deviceCategories = []string{
	"AHU", "VAV", "Chiller", "Boiler", "Fan", "Pump", "Controller", "Control Panel",
}

// reBracketedTime pulls the "[04-Aug-25 3:07 PM EDT]" timestamp out of a
// free-text health field.
var reBracketedTime = regexp.MustCompile(`\[([^\]]+)\]`)

// Communication recency bands, from the time elapsed since the bracketed
// health timestamp.
const (
	recencyExcellent = 5 * time.Minute
	recencyGood      = 30 * time.Minute
	recencyFair      = 2 * time.Hour
)

// ParseDeviceInventory parses the vendor/model inventory export. This format
// is lenient: missing required columns downgrade to warnings unless the
// strict-validation option is set.
func ParseDeviceInventory(content, filename string, opts models.ParseOptions) (*models.Dataset, error) {
	started := time.Now()
	if err := validateContent(content, opts); err != nil {
		return nil, err
	}

	spec := formats.Get(models.FormatDeviceInventory)
	tokenized := csvio.Tokenize(content, opts.RowCap())

	warnings, err := checkColumns(tokenized.Header, spec, opts.StrictValidation)
	if err != nil {
		return nil, err
	}
	if tokenized.Truncated {
		warnings = append(warnings, "row cap reached; remaining lines were not ingested")
	}

	now := time.Now().UTC()
	poorComm := 0
	disabled := 0
	covOff := 0

	rows := make([]models.Row, 0, len(tokenized.Rows))
	for _, fields := range tokenized.Rows {
		data := rawRecord(tokenized.Header, fields, opts.SanitizeData)
		row := models.Row{
			ID:   newRowID(),
			Data: data,
		}

		if raw := data[spec.StatusColumn]; raw != "" {
			status := fieldparse.ParseStatus(raw)
			row.Status = &status
		}

		device := &models.DeviceMeta{
			Category:    categorizeDevice(data["Name"], data["Model"]),
			Vendor:      data["Vendor"],
			Model:       data["Model"],
			Network:     data["Network"],
			ProtocolRev: data["Protocol Rev"],
			Enabled:     !isFalse(data["Enabled"]),
			CovEnabled:  !isFalse(data["Use Cov"]),
		}
		if id, convErr := strconv.ParseInt(strings.TrimSpace(data["Device ID"]), 10, 64); convErr == nil {
			device.DeviceID = id
		}
		row.Device = device

		if health := parseHealthField(data["Health"], now); health != nil {
			row.Health = health
			if health.Recency == "poor" {
				poorComm++
			}
		}
		if !device.Enabled {
			disabled++
		} else if !device.CovEnabled {
			covOff++
		}

		rows = append(rows, row)
	}

	ds := newDataset(filename, spec, "inventory", columnDefs(tokenized.Header), rows, warnings, deviceInventoryConfidence, started, content)

	if poorComm > 0 {
		ds.Summary.Recommendations = append(ds.Summary.Recommendations,
			fmt.Sprintf("%d devices have poor communication health (last heard over 2 hours ago)", poorComm))
	}
	if disabled > 0 {
		ds.Summary.Recommendations = append(ds.Summary.Recommendations,
			fmt.Sprintf("%d devices are disabled and not being polled", disabled))
	}
	if covOff > 0 {
		ds.Summary.Recommendations = append(ds.Summary.Recommendations,
			fmt.Sprintf("%d devices have COV subscriptions disabled; polling load may be elevated", covOff))
	}

	return ds, nil
}

// categorizeDevice classifies a device against the fixed equipment
// vocabulary. A name match always beats a model match.
func categorizeDevice(name, model string) string {
	if cat := matchCategory(name); cat != "" {
		return cat
	}
	if cat := matchCategory(model); cat != "" {
		return cat
	}
	return "Other"
}

func matchCategory(s string) string {
	lower := strings.ToLower(s)
	for _, cat := range deviceCategories {
		if strings.Contains(lower, strings.ToLower(cat)) {
			return cat
		}
	}
	return ""
}

// parseHealthField extracts the bracketed last-communication timestamp from a
// health string like "Ok [04-Aug-25 3:07 PM EDT]" and bands its age.
func parseHealthField(raw string, now time.Time) *models.CommHealth {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	m := reBracketedTime.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	ts, ok := fieldparse.ParseVendorTimestamp(m[1])
	if !ok {
		return &models.CommHealth{LastSeenRaw: m[1], Recency: "unknown"}
	}

	age := now.Sub(ts)
	if age < 0 {
		age = 0
	}
	return &models.CommHealth{
		LastSeenRaw: m[1],
		LastSeen:    ts,
		AgeSeconds:  age.Seconds(),
		Recency:     classifyRecency(age),
	}
}

func classifyRecency(age time.Duration) string {
	switch {
	case age < recencyExcellent:
		return "excellent"
	case age < recencyGood:
		return "good"
	case age < recencyFair:
		return "fair"
	default:
		return "poor"
	}
}

// isFalse reports whether a boolean-ish export field is explicitly false.
// Empty fields default to true: the exports omit the column on networks that
// do not support the feature.
func isFalse(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "false", "no", "0", "disabled":
		return true
	default:
		return false
	}
}

package fieldparse

import (
	"regexp"
	"strings"

	"github.com/stationstack/station-insight/internal/models"
)

var (
	reMemoryUnit = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(GB|MB|KB)\b`)
	rePercent    = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*%`)

	// The exports encode capacity three ways: "used (Limit: N)", "used (N)"
	// and "used/N".
	reCapacityLimit = regexp.MustCompile(`(?i)^([\d,]+)\s*\(\s*(?:limit:?\s*)?([\d,]+|none)\s*\)$`)
	reCapacitySlash = regexp.MustCompile(`^([\d,]+)\s*/\s*([\d,]+|none)$`)
)

// ParseMemoryMB recognises a trailing GB/MB/KB unit and normalises the
// quantity to megabytes.
func ParseMemoryMB(raw string) (float64, bool) {
	m := reMemoryUnit.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n := parseGroupedFloat(m[1])
	switch strings.ToUpper(m[2]) {
	case "GB":
		return n * 1024, true
	case "KB":
		return n / 1024, true
	default:
		return n, true
	}
}

// ParsePercent extracts the first percentage occurrence in raw.
func ParsePercent(raw string) (float64, bool) {
	m := rePercent.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	return parseGroupedFloat(m[1]), true
}

// ParseCapacity decodes a capacity-with-limit string. A literal "none" or a
// zero limit means the capacity is unlicensed/unlimited: the flag is set and
// the limit reported as 0.
func ParseCapacity(raw string) (models.CapacityUsage, bool) {
	trimmed := strings.TrimSpace(raw)

	m := reCapacityLimit.FindStringSubmatch(trimmed)
	if m == nil {
		m = reCapacitySlash.FindStringSubmatch(trimmed)
	}
	if m == nil {
		return models.CapacityUsage{}, false
	}

	usage := models.CapacityUsage{Used: parseGroupedFloat(m[1])}
	if strings.EqualFold(m[2], "none") {
		usage.Unlimited = true
		return usage, true
	}

	usage.Limit = parseGroupedFloat(m[2])
	if usage.Limit == 0 {
		usage.Unlimited = true
		return usage, true
	}
	usage.Percent = usage.Used / usage.Limit * 100
	return usage, true
}

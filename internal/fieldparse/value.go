package fieldparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stationstack/station-insight/internal/models"
)

var (
	reCapacityValue = regexp.MustCompile(`(?i)^([\d,]+(?:\.\d+)?)\s*\(.*?limit:?\s*([\d,]+|none).*?\)$`)
	rePercentValue  = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*%$`)
	reMemoryValue   = regexp.MustCompile(`(?i)^([\d,]+(?:\.\d+)?)\s*(KB|MB|GB|bytes)$`)
	reGroupedInt    = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	rePlainNumber   = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// ParseValue converts a raw value string into a typed ParsedValue. Recognisers
// run in a fixed order and the first match wins; anything unrecognised falls
// through to a text value. The original string is preserved verbatim in
// Formatted for display and audit.
func ParseValue(raw string) models.ParsedValue {
	trimmed := strings.TrimSpace(raw)

	if m := reCapacityValue.FindStringSubmatch(trimmed); m != nil {
		current := parseGroupedFloat(m[1])
		meta := &models.ValueMeta{}
		if strings.EqualFold(m[2], "none") {
			meta.Unlimited = true
		} else {
			meta.Limit = parseGroupedFloat(m[2])
		}
		if meta.Limit > 0 {
			meta.Percent = current / meta.Limit * 100
		}
		return models.ParsedValue{
			Kind:      models.ValueCount,
			Number:    current,
			Formatted: raw,
			Meta:      meta,
		}
	}

	if m := rePercentValue.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return models.ParsedValue{
			Kind:      models.ValuePercentage,
			Number:    n,
			Unit:      "%",
			Formatted: raw,
		}
	}

	if m := reMemoryValue.FindStringSubmatch(trimmed); m != nil {
		return models.ParsedValue{
			Kind:      models.ValueMemory,
			Number:    parseGroupedFloat(m[1]),
			Unit:      m[2], // unit preserved verbatim
			Formatted: raw,
		}
	}

	if reGroupedInt.MatchString(trimmed) {
		return models.ParsedValue{
			Kind:      models.ValueCount,
			Number:    parseGroupedFloat(trimmed),
			Formatted: raw,
		}
	}

	if rePlainNumber.MatchString(trimmed) {
		n, _ := strconv.ParseFloat(trimmed, 64)
		return models.ParsedValue{
			Kind:      models.ValueCount,
			Number:    n,
			Formatted: raw,
		}
	}

	return models.ParsedValue{
		Kind:      models.ValueText,
		Text:      trimmed,
		Formatted: raw,
	}
}

// parseGroupedFloat parses a number that may carry comma thousands grouping.
// Unparseable input coerces to 0: partial data beats a hard failure here.
func parseGroupedFloat(s string) float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return n
}

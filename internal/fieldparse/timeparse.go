package fieldparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Uptime is the decomposed form of a free-text elapsed-time string. Absent
// components are zero.
type Uptime struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Total   time.Duration
}

var (
	reDays    = regexp.MustCompile(`(\d+)\s*day`)
	reHours   = regexp.MustCompile(`(\d+)\s*hour`)
	reMinutes = regexp.MustCompile(`(\d+)\s*min`)
	reSeconds = regexp.MustCompile(`(\d+)\s*sec`)

	// "04-Aug-25 3:07 PM EDT" — the export tool's textual timestamp.
	reVendorTime = regexp.MustCompile(`(\d{1,2})-([A-Za-z]{3})-(\d{2,4})\s+(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM|am|pm)?\s*([A-Z]{2,5})?`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseUptime extracts day/hour/minute/second components from free text like
// "31 days, 19 hours, 42 minutes". Any subset of components may be present.
func ParseUptime(raw string) (Uptime, bool) {
	var up Uptime
	found := false

	if m := reDays.FindStringSubmatch(raw); m != nil {
		up.Days, _ = strconv.Atoi(m[1])
		found = true
	}
	if m := reHours.FindStringSubmatch(raw); m != nil {
		up.Hours, _ = strconv.Atoi(m[1])
		found = true
	}
	if m := reMinutes.FindStringSubmatch(raw); m != nil {
		up.Minutes, _ = strconv.Atoi(m[1])
		found = true
	}
	if m := reSeconds.FindStringSubmatch(raw); m != nil {
		up.Seconds, _ = strconv.Atoi(m[1])
		found = true
	}
	if !found {
		return Uptime{}, false
	}

	up.Total = time.Duration(up.Days)*24*time.Hour +
		time.Duration(up.Hours)*time.Hour +
		time.Duration(up.Minutes)*time.Minute +
		time.Duration(up.Seconds)*time.Second
	return up, true
}

// genericLayouts are tried when the vendor format does not match.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 3:04 PM",
	"02-Jan-2006 15:04",
}

// ParseVendorTimestamp recognises the "DD-Mon-YY H:MM (AM/PM) TZ" textual
// format the export tool uses, falling back to generic layouts. Callers keep
// the raw string when nothing matches; this never errors.
//
// The zone abbreviation is not resolved to an offset (ambiguous across
// vendors' sites); timestamps are interpreted as UTC wall-clock time, which
// is sufficient for the recency banding they feed.
func ParseVendorTimestamp(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	if m := reVendorTime.FindStringSubmatch(trimmed); m != nil {
		month, ok := monthAbbrevs[strings.ToLower(m[2])]
		if ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
			hour, _ := strconv.Atoi(m[4])
			minute, _ := strconv.Atoi(m[5])
			second := 0
			if m[6] != "" {
				second, _ = strconv.Atoi(m[6])
			}
			switch strings.ToUpper(m[7]) {
			case "PM":
				if hour != 12 {
					hour += 12
				}
			case "AM":
				if hour == 12 {
					hour = 0
				}
			}
			return time.Date(year, month, day, hour, minute, second, 0, time.UTC), true
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

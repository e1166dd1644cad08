// Package detect scores candidate export formats for a file. Detection is
// heuristic: column-signature matching for CSV exports and keyword scanning
// for the text platform dump. Confidence is a clamped 0-100 score, not a
// probability.
package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stationstack/station-insight/internal/csvio"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/models"
)

// highConfidence short-circuits remaining detection methods.
const highConfidence = 90

// hintAcceptConfidence is the bar a validated user hint must reach before it
// is trusted without running full auto-detection.
const hintAcceptConfidence = 80

// platformKeywords are phrases that only appear in the platform text dump.
var platformKeywords = []string{
	"Platform summary",
	"Daemon Version:",
	"Niagara Runtime:",
	"Operating System:",
	"Modules",
}

// Detect identifies the export format of a file from its content, filename
// and an optional caller hint. The hint is evidence, not an override: it is
// validated against the file and discarded when it scores poorly.
func Detect(content, filename string, hint models.FormatID) models.DetectionResult {
	if hint != "" && hint != models.FormatUnknown {
		if res, ok := validateHint(content, filename, hint); ok {
			return res
		}
	}

	switch ext(filename) {
	case ".txt", ".text":
		return detectPlatformText(content, filename)
	case ".csv":
		return detectCSVHeader(content)
	default:
		return unknownResult("unsupported extension: " + ext(filename))
	}
}

// validateHint scores the hinted format against the actual file. The result
// is used only when it reaches hintAcceptConfidence; otherwise detection
// falls through to the automatic path.
func validateHint(content, filename string, hint models.FormatID) (models.DetectionResult, bool) {
	spec := formats.Get(hint)
	if spec.ID == models.FormatUnknown {
		return models.DetectionResult{}, false
	}

	if !acceptsExtension(spec, ext(filename)) {
		return models.DetectionResult{}, false
	}

	if spec.ID == models.FormatPlatformInfo {
		res := detectPlatformText(content, filename)
		return res, res.Format == models.FormatPlatformInfo && res.Confidence >= hintAcceptConfidence
	}

	header := csvio.HeaderFields(content)
	confidence := 80
	reasons := []string{fmt.Sprintf("caller hinted %s", hint)}

	missing := 0
	for _, col := range spec.RequiredColumns {
		if !hasColumn(header, col) {
			missing++
		}
	}
	if missing == 0 {
		confidence += 20
		reasons = append(reasons, "all required columns present")
	} else {
		confidence -= 15 * missing
		reasons = append(reasons, fmt.Sprintf("%d required column(s) missing", missing))
	}

	for _, col := range spec.IdentifierColumns {
		if hasColumn(header, col) {
			confidence += 10
			reasons = append(reasons, "identifier column found: "+col)
		} else {
			confidence -= 10
			reasons = append(reasons, "identifier column absent: "+col)
		}
	}

	confidence = clampConfidence(confidence)
	if confidence < hintAcceptConfidence {
		return models.DetectionResult{}, false
	}
	return models.DetectionResult{
		Format:     spec.ID,
		Confidence: confidence,
		Reasons:    reasons,
		Spec:       spec,
	}, true
}

// detectPlatformText scans the raw text for platform-dump keyword phrases.
// Confidence is 20 points per phrase found, capped at 90; a filename that
// merely contains "platform" is worth 60 when no phrase matched.
func detectPlatformText(content, filename string) models.DetectionResult {
	matches := 0
	var reasons []string
	for _, kw := range platformKeywords {
		if strings.Contains(content, kw) {
			matches++
			reasons = append(reasons, "found keyword: "+kw)
		}
	}

	confidence := matches * 20
	if confidence > highConfidence {
		confidence = highConfidence
	}

	if matches == 0 {
		if strings.Contains(strings.ToLower(filename), "platform") {
			return models.DetectionResult{
				Format:     models.FormatPlatformInfo,
				Confidence: 60,
				Reasons:    []string{"filename suggests platform export"},
				Spec:       formats.Get(models.FormatPlatformInfo),
			}
		}
		return unknownResult("no platform keywords found")
	}

	return models.DetectionResult{
		Format:     models.FormatPlatformInfo,
		Confidence: confidence,
		Reasons:    reasons,
		Spec:       formats.Get(models.FormatPlatformInfo),
	}
}

// detectCSVHeader runs the four column-signature methods in fixed priority
// order. The first method reaching highConfidence wins outright; otherwise
// the single highest-scoring method's result is returned.
func detectCSVHeader(content string) models.DetectionResult {
	header := csvio.HeaderFields(content)
	if len(header) == 0 {
		return unknownResult("no header line found")
	}

	methods := []func([]string) models.DetectionResult{
		scoreTelemetry,
		scoreNetworkDevice,
		scoreDeviceInventory,
		scoreTopology,
	}

	best := unknownResult("no format patterns matched")
	for _, method := range methods {
		res := method(header)
		if res.Confidence >= highConfidence {
			return res
		}
		if res.Confidence > best.Confidence {
			best = res
		}
	}
	return best
}

// scoreTelemetry: a header of exactly {Name, Value} is the most specific
// signature in the corpus and always wins outright.
func scoreTelemetry(header []string) models.DetectionResult {
	hasName := hasColumn(header, "Name")
	hasValue := hasColumn(header, "Value")
	if !hasName || !hasValue {
		return models.DetectionResult{Format: models.FormatUnknown}
	}

	spec := formats.Get(models.FormatResourceTelemetry)
	if len(header) == 2 {
		return models.DetectionResult{
			Format:     models.FormatResourceTelemetry,
			Confidence: 100,
			Reasons:    []string{"header is exactly Name,Value"},
			Spec:       spec,
		}
	}
	return models.DetectionResult{
		Format:     models.FormatResourceTelemetry,
		Confidence: 60,
		Reasons:    []string{"may be resource telemetry with extra data columns"},
		Spec:       spec,
	}
}

func scoreNetworkDevice(header []string) models.DetectionResult {
	if !hasColumn(header, "Controller Type") {
		return models.DetectionResult{Format: models.FormatUnknown}
	}

	supporting := []string{"Name", "Status", "Address"}
	found := 0
	reasons := []string{"found identifier column: Controller Type"}
	for _, col := range supporting {
		if hasColumn(header, col) {
			found++
			reasons = append(reasons, "found supporting column: "+col)
		}
	}

	confidence := clampConfidence(80 + 20*found/len(supporting))
	return models.DetectionResult{
		Format:     models.FormatNetworkDevice,
		Confidence: confidence,
		Reasons:    reasons,
		Spec:       formats.Get(models.FormatNetworkDevice),
	}
}

func scoreDeviceInventory(header []string) models.DetectionResult {
	if !hasColumn(header, "Device ID") {
		return models.DetectionResult{Format: models.FormatUnknown}
	}

	supporting := []string{"Vendor", "Model", "Health", "Encoding", "Protocol Rev"}
	found := 0
	reasons := []string{"found identifier column: Device ID"}
	for _, col := range supporting {
		if hasColumn(header, col) {
			found++
			reasons = append(reasons, "found supporting column: "+col)
		}
	}

	confidence := clampConfidence(60 + 40*found/len(supporting))
	return models.DetectionResult{
		Format:     models.FormatDeviceInventory,
		Confidence: confidence,
		Reasons:    reasons,
		Spec:       formats.Get(models.FormatDeviceInventory),
	}
}

func scoreTopology(header []string) models.DetectionResult {
	identifiers := []string{"Fox Port", "Path", "Platform Status"}
	found := 0
	var reasons []string
	for _, col := range identifiers {
		if hasColumn(header, col) {
			found++
			reasons = append(reasons, "found identifier column: "+col)
		}
	}
	if found == 0 {
		return models.DetectionResult{Format: models.FormatUnknown}
	}

	confidence := 50 + 25*found
	for _, col := range []string{"Client Conn", "Server Conn"} {
		if hasColumn(header, col) {
			confidence += 10
			reasons = append(reasons, "found connection column: "+col)
		}
	}

	return models.DetectionResult{
		Format:     models.FormatNetworkTopology,
		Confidence: clampConfidence(confidence),
		Reasons:    reasons,
		Spec:       formats.Get(models.FormatNetworkTopology),
	}
}

func unknownResult(reason string) models.DetectionResult {
	return models.DetectionResult{
		Format:     models.FormatUnknown,
		Confidence: 0,
		Reasons:    []string{reason},
		Spec:       formats.Unknown(),
	}
}

func hasColumn(header []string, name string) bool {
	for _, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return true
		}
	}
	return false
}

func acceptsExtension(spec models.FormatSpec, ext string) bool {
	for _, accepted := range spec.Extensions {
		if accepted == ext {
			return true
		}
	}
	return false
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

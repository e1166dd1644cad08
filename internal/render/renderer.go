// Package render writes parse and analysis results to a terminal or stream.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/stationstack/station-insight/internal/models"
)

// Renderer writes results to an output stream.
type Renderer interface {
	RenderParse(result models.ParseResult) error
	RenderAnalysis(analysis models.SystemAnalysis) error
	RenderPatterns(patterns []models.FleetPattern) error
}

var (
	styleHeading  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleNeutral  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// TextRenderer prints colorized summaries to the terminal.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer writing colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) RenderParse(result models.ParseResult) error {
	if !result.Success {
		fmt.Fprintln(r.w, styleCritical.Render("parse failed"))
		for _, e := range result.Errors {
			fmt.Fprintf(r.w, "  %s\n", e)
		}
		return nil
	}

	ds := result.Dataset
	fmt.Fprintln(r.w, styleHeading.Render(ds.SourceFile))
	fmt.Fprintf(r.w, "  %s %s (%d%% confidence)\n",
		styleLabel.Render("format:"), ds.Spec.DisplayName, ds.Metadata.Confidence)
	fmt.Fprintf(r.w, "  %s %d rows, %d columns, %d ms\n",
		styleLabel.Render("parsed:"), ds.Metadata.RowCount, ds.Metadata.ColumnCount, ds.Metadata.ProcessingMS)

	r.renderStatusCounts(ds.Summary.StatusCounts)

	for _, finding := range ds.Summary.CriticalFindings {
		fmt.Fprintf(r.w, "  %s %s\n", styleCritical.Render("!"), finding)
	}
	for _, rec := range ds.Summary.Recommendations {
		fmt.Fprintf(r.w, "  %s %s\n", styleWarning.Render("*"), rec)
	}
	for _, alert := range ds.Metadata.Alerts {
		fmt.Fprintf(r.w, "  %s %s\n", severityTag(alert.Severity), alert.Message)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "  %s %s\n", styleNeutral.Render("~"), warning)
	}
	return nil
}

func (r *TextRenderer) renderStatusCounts(counts map[models.StatusKind]int) {
	kinds := make([]models.StatusKind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		n := counts[kind]
		if n == 0 {
			continue
		}
		style := styleNeutral
		switch kind {
		case models.StatusOK:
			style = styleOK
		case models.StatusAlarm:
			style = styleWarning
		case models.StatusDown, models.StatusFault:
			style = styleCritical
		}
		fmt.Fprintf(r.w, "  %s %d\n", style.Render(string(kind)+":"), n)
	}
}

func (r *TextRenderer) RenderAnalysis(analysis models.SystemAnalysis) error {
	fmt.Fprintln(r.w, styleHeading.Render("system analysis"))

	healthStyle := styleOK
	switch {
	case analysis.Summary.HealthScore < 50:
		healthStyle = styleCritical
	case analysis.Summary.HealthScore < 85:
		healthStyle = styleWarning
	}
	fmt.Fprintf(r.w, "  %s %s\n", styleLabel.Render("health:"),
		healthStyle.Render(fmt.Sprintf("%d/100", analysis.Summary.HealthScore)))
	fmt.Fprintf(r.w, "  %s %s\n", styleLabel.Render("system:"), analysis.Summary.SystemType)
	fmt.Fprintf(r.w, "  %s %d devices, %.1f%% capacity, confidence %d%%\n",
		styleLabel.Render("scope:"), analysis.Summary.TotalDevices,
		analysis.Summary.CapacityPercent, analysis.Metadata.Confidence)

	for _, alert := range analysis.Alerts.Alerts {
		fmt.Fprintf(r.w, "  %s %s\n", severityTag(alert.Severity), alert.Message)
	}
	for _, action := range analysis.Summary.TopActions {
		fmt.Fprintf(r.w, "  %s %s\n", styleNeutral.Render("->"), action)
	}
	return nil
}

func (r *TextRenderer) RenderPatterns(patterns []models.FleetPattern) error {
	if len(patterns) == 0 {
		fmt.Fprintln(r.w, styleNeutral.Render("no recurring findings across this batch"))
		return nil
	}

	fmt.Fprintln(r.w, styleHeading.Render("fleet patterns"))
	for _, p := range patterns {
		fmt.Fprintf(r.w, "  %s %s in %.0f%% of analyses (%d occurrences)\n",
			severityTag(p.Severity), p.Metric, p.Prevalence*100, p.Occurrences)
		for _, tmpl := range p.Templates {
			fmt.Fprintf(r.w, "    %s %s/%s, typically %s (x%d)\n",
				styleNeutral.Render("-"), tmpl.Category, tmpl.Severity, tmpl.TypicalValue, tmpl.Count)
		}
	}
	return nil
}

func severityTag(severity models.AlertSeverity) string {
	switch severity {
	case models.AlertCritical:
		return styleCritical.Render("[CRIT]")
	case models.AlertWarning:
		return styleWarning.Render("[WARN]")
	default:
		return styleNeutral.Render("[INFO]")
	}
}

// JSONRenderer writes results as JSON, one document per call.
type JSONRenderer struct {
	w io.Writer
}

// NewJSONRenderer returns a Renderer writing indented JSON to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{w: os.Stdout}
}

func (r *JSONRenderer) RenderParse(result models.ParseResult) error {
	return r.encode(result)
}

func (r *JSONRenderer) RenderAnalysis(analysis models.SystemAnalysis) error {
	return r.encode(analysis)
}

func (r *JSONRenderer) RenderPatterns(patterns []models.FleetPattern) error {
	if patterns == nil {
		patterns = []models.FleetPattern{}
	}
	return r.encode(patterns)
}

func (r *JSONRenderer) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package parsers holds one parse function per supported export format plus
// the orchestrator that routes a file to the right one. All parsers share the
// same execution shape: validate content, tokenize, check columns against the
// format spec, build typed rows, then derive a summary with a single row scan.
package parsers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stationstack/station-insight/internal/csvio"
	"github.com/stationstack/station-insight/internal/models"
)

// ParseFunc is the contract every format parser satisfies. A returned error
// is fatal for the file (content or schema level); row-level problems are
// coerced into the dataset's warnings instead.
type ParseFunc func(content, filename string, opts models.ParseOptions) (*models.Dataset, error)

var errEmptyContent = errors.New("file is empty")

// validateContent applies the cheap rejections shared by every parser.
func validateContent(content string, opts models.ParseOptions) error {
	if strings.TrimSpace(content) == "" {
		return errEmptyContent
	}
	return csvio.ValidateSize(content, opts.ByteCap())
}

// checkColumns compares the header against the spec's required columns.
// Strict formats treat a missing column as fatal; lenient formats downgrade
// to a warning and keep going (the strict-validation option upgrades them).
func checkColumns(header []string, spec models.FormatSpec, strict bool) ([]string, error) {
	var missing []string
	for _, col := range spec.RequiredColumns {
		if !headerHas(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	msg := fmt.Sprintf("missing required column(s) for %s: %s", spec.DisplayName, strings.Join(missing, ", "))
	if strict {
		return nil, errors.New(msg)
	}
	return []string{msg}, nil
}

func headerHas(header []string, name string) bool {
	for _, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return true
		}
	}
	return false
}

// rawRecord builds the ordered column-name to raw-string mapping for one
// tokenized row. Missing trailing fields are already padded by the tokenizer.
func rawRecord(header, fields []string, sanitize bool) map[string]string {
	data := make(map[string]string, len(header))
	for i, col := range header {
		v := fields[i]
		if sanitize {
			v = stripControl(v)
		}
		data[strings.TrimSpace(col)] = v
	}
	return data
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func columnDefs(header []string) []models.ColumnDef {
	cols := make([]models.ColumnDef, 0, len(header))
	for _, h := range header {
		name := strings.TrimSpace(h)
		cols = append(cols, models.ColumnDef{Name: name, Label: name})
	}
	return cols
}

// typeColumns is the fixed probe order for a row's type breakdown bucket.
var typeColumns = []string{"Type", "Controller Type", "Model", "Category"}

// buildSummary derives the per-dataset summary with a single scan over all
// rows. It is recomputed whole on every parse, never patched incrementally.
func buildSummary(rows []models.Row, keyColumn string) models.Summary {
	summary := models.Summary{
		StatusCounts: map[models.StatusKind]int{
			models.StatusOK:      0,
			models.StatusDown:    0,
			models.StatusAlarm:   0,
			models.StatusFault:   0,
			models.StatusUnknown: 0,
		},
		TypeCounts:       make(map[string]int),
		VendorCounts:     make(map[string]int),
		NetworkCounts:    make(map[string]int),
		ProtocolCounts:   make(map[string]int),
		CriticalFindings: []string{},
		Recommendations:  []string{},
	}

	for _, row := range rows {
		summary.TotalDevices++

		if row.Device != nil {
			if v := row.Device.Vendor; v != "" {
				summary.VendorCounts[v]++
			}
			if n := row.Device.Network; n != "" {
				summary.NetworkCounts[n]++
			}
			if p := row.Device.ProtocolRev; p != "" {
				summary.ProtocolCounts[p]++
			}
		}

		if row.Status != nil {
			summary.StatusCounts[row.Status.Status]++
			if row.Status.Severity == models.SeverityCritical {
				key := row.Data[keyColumn]
				if key == "" {
					key = row.ID
				}
				summary.CriticalFindings = append(summary.CriticalFindings,
					fmt.Sprintf("%s: %s", key, strings.Join(row.Status.Details, "; ")))
			}
		}

		rowType := "Unknown"
		for _, col := range typeColumns {
			if v := strings.TrimSpace(row.Data[col]); v != "" {
				rowType = v
				break
			}
		}
		summary.TypeCounts[rowType]++
	}

	if n := summary.StatusCounts[models.StatusDown]; n > 0 {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("%d devices are offline and require immediate attention", n))
	}
	if n := summary.StatusCounts[models.StatusAlarm]; n > 0 {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("%d devices are in alarm and should be investigated", n))
	}
	if n := summary.StatusCounts[models.StatusFault]; n > 0 {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("%d devices report faults and may need service", n))
	}

	return summary
}

// newDataset assembles the common dataset envelope. The parser-assigned
// confidence is provisional; the orchestrator back-fills the authoritative
// detection confidence afterwards.
func newDataset(filename string, spec models.FormatSpec, category string, columns []models.ColumnDef, rows []models.Row, warnings []string, confidence int, started time.Time, raw string) *models.Dataset {
	if warnings == nil {
		warnings = []string{}
	}
	ds := &models.Dataset{
		ID:         uuid.NewString(),
		SourceFile: filename,
		Format:     spec.ID,
		Category:   category,
		Columns:    columns,
		Rows:       rows,
		Summary:    buildSummary(rows, spec.KeyColumn),
		Spec:       spec,
		Metadata: models.DatasetMetadata{
			RowCount:     len(rows),
			ColumnCount:  len(columns),
			Errors:       []string{},
			Warnings:     warnings,
			UploadedAt:   time.Now().UTC(),
			FileSize:     int64(len(raw)),
			ProcessingMS: time.Since(started).Milliseconds(),
			Valid:        true,
			Confidence:   confidence,
		},
		Raw: raw,
	}
	return ds
}

func newRowID() string {
	return uuid.NewString()
}

package parsers

import (
	"time"

	"github.com/stationstack/station-insight/internal/csvio"
	"github.com/stationstack/station-insight/internal/fieldparse"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/models"
)

// networkDeviceConfidence reflects how distinctive the Controller Type
// signature is compared to other CSV exports.
const networkDeviceConfidence = 85

// ParseNetworkDevices parses the controller network export. This is a strict
// format: the required columns must be present or the parse fails.
func ParseNetworkDevices(content, filename string, opts models.ParseOptions) (*models.Dataset, error) {
	started := time.Now()
	if err := validateContent(content, opts); err != nil {
		return nil, err
	}

	spec := formats.Get(models.FormatNetworkDevice)
	tokenized := csvio.Tokenize(content, opts.RowCap())

	if _, err := checkColumns(tokenized.Header, spec, true); err != nil {
		return nil, err
	}

	var warnings []string
	if tokenized.Truncated {
		warnings = append(warnings, "row cap reached; remaining lines were not ingested")
	}

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
		rows = append(rows, row)
	}

	return newDataset(filename, spec, "network", columnDefs(tokenized.Header), rows, warnings, networkDeviceConfidence, started, content), nil
}

package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stationstack/station-insight/internal/csvio"
	"github.com/stationstack/station-insight/internal/fieldparse"
	"github.com/stationstack/station-insight/internal/formats"
	"github.com/stationstack/station-insight/internal/models"
)

const networkTopologyConfidence = 85

// ParseNetworkTopology parses the hierarchical station topology export.
// Lenient format: station lists exported from older supervisors omit some
// of the connection columns.
func ParseNetworkTopology(content, filename string, opts models.ParseOptions) (*models.Dataset, error) {
	started := time.Now()
	if err := validateContent(content, opts); err != nil {
		return nil, err
	}

	spec := formats.Get(models.FormatNetworkTopology)
	tokenized := csvio.Tokenize(content, opts.RowCap())

	warnings, err := checkColumns(tokenized.Header, spec, opts.StrictValidation)
	if err != nil {
		return nil, err
	}
	if tokenized.Truncated {
		warnings = append(warnings, "row cap reached; remaining lines were not ingested")
	}

	disconnected := 0
	maxDepth := 0

	rows := make([]models.Row, 0, len(tokenized.Rows))
	for _, fields := range tokenized.Rows {
		data := rawRecord(tokenized.Header, fields, opts.SanitizeData)
		row := models.Row{
			ID:   newRowID(),
			Data: data,
		}

		// Platform Status carries the daemon-level state and is more telling
		// than the station Status column when both are present.
		statusRaw := data["Platform Status"]
		if statusRaw == "" {
			statusRaw = data[spec.StatusColumn]
		}
		if statusRaw != "" {
			status := fieldparse.ParseStatus(statusRaw)
			row.Status = &status
		}

		topo := &models.TopologyMeta{
			Path:       data["Path"],
			Depth:      pathDepth(data["Path"]),
			ClientConn: strings.TrimSpace(data["Client Conn"]),
			ServerConn: strings.TrimSpace(data["Server Conn"]),
		}
		if port, convErr := strconv.Atoi(strings.TrimSpace(data["Fox Port"])); convErr == nil {
			topo.FoxPort = port
		}
		row.Topology = topo

		if topo.Depth > maxDepth {
			maxDepth = topo.Depth
		}
		if isDisconnectedConn(topo.ClientConn) && isDisconnectedConn(topo.ServerConn) {
			disconnected++
		}

		rows = append(rows, row)
	}

	ds := newDataset(filename, spec, "topology", columnDefs(tokenized.Header), rows, warnings, networkTopologyConfidence, started, content)

	if disconnected > 0 {
		ds.Summary.Recommendations = append(ds.Summary.Recommendations,
			fmt.Sprintf("%d stations have no active client or server connection", disconnected))
	}
	if maxDepth > 3 {
		ds.Summary.Recommendations = append(ds.Summary.Recommendations,
			fmt.Sprintf("station hierarchy is %d levels deep; deep trees slow supervisor discovery", maxDepth))
	}

	return ds, nil
}

// pathDepth counts the hierarchy levels of a slash-separated station path.
// "/Drivers/NiagaraNetwork/JACE_01" is depth 3.
func pathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if strings.TrimSpace(seg) != "" {
			depth++
		}
	}
	return depth
}

func isDisconnectedConn(conn string) bool {
	switch strings.ToLower(conn) {
	case "", "not connected", "disconnected", "none":
		return true
	default:
		return false
	}
}

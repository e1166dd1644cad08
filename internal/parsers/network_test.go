package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/models"
)

func TestParseNetworkDevices(t *testing.T) {
	content := `Name,Controller Type,Status,Address
AHU_Controller,JACE-8000,{ok},10.0.0.10
Boiler_Controller,JACE-8000,"{down,alarm}",10.0.0.11
Roof_Unit,VAV-550,{fault},10.0.0.12
`
	ds, err := ParseNetworkDevices(content, "network.csv", models.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.FormatNetworkDevice, ds.Format)
	assert.Equal(t, "network", ds.Category)
	require.Len(t, ds.Rows, 3)

	require.NotNil(t, ds.Rows[1].Status)
	assert.Equal(t, models.StatusDown, ds.Rows[1].Status.Status)
	assert.Equal(t, models.SeverityCritical, ds.Rows[1].Status.Severity)

	assert.Equal(t, 3, ds.Summary.TotalDevices)
	assert.Equal(t, 1, ds.Summary.StatusCounts[models.StatusOK])
	assert.Equal(t, 1, ds.Summary.StatusCounts[models.StatusDown])
	assert.Equal(t, 1, ds.Summary.StatusCounts[models.StatusFault])
	assert.Equal(t, 2, ds.Summary.TypeCounts["JACE-8000"])

	require.Len(t, ds.Summary.CriticalFindings, 1)
	assert.Contains(t, ds.Summary.CriticalFindings[0], "Boiler_Controller")

	assert.Contains(t, ds.Summary.Recommendations[0], "1 devices are offline")
}

func TestParseNetworkDevicesMissingColumnIsFatal(t *testing.T) {
	_, err := ParseNetworkDevices("Name,Address\nDev1,10.0.0.1", "network.csv", models.ParseOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Controller Type")
	assert.Contains(t, err.Error(), "Status")
}

func TestParseNetworkDevicesRowCapWarning(t *testing.T) {
	content := "Name,Controller Type,Status\nA,J,{ok}\nB,J,{ok}\nC,J,{ok}\n"
	ds, err := ParseNetworkDevices(content, "network.csv", models.ParseOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 2)
	require.Len(t, ds.Metadata.Warnings, 1)
	assert.Contains(t, ds.Metadata.Warnings[0], "row cap")
}

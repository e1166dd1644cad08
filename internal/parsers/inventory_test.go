package parsers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/models"
)

func inventoryContent(now time.Time) string {
	recent := now.Add(-2 * time.Minute).Format("02-Jan-06 3:04 PM")
	stale := now.Add(-3 * time.Hour).Format("02-Jan-06 3:04 PM")
	return fmt.Sprintf(`Name,Device ID,Vendor,Model,Network,Health,Enabled,Use Cov,Protocol Rev,Status
AHU-01,12345,Tridium,T-8000,BacnetNetwork,"Ok [%s]",true,true,1.14,{ok}
Device-7,200,Honeywell,VAV-550,BacnetNetwork,"Ok [%s]",true,false,1.12,{ok}
Thermostat-1,301,Siemens,T300,ModbusNetwork,,false,true,1.10,{down}
`, recent, stale)
}

func TestParseDeviceInventory(t *testing.T) {
	ds, err := ParseDeviceInventory(inventoryContent(time.Now().UTC()), "inventory.csv", models.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.FormatDeviceInventory, ds.Format)
	assert.Equal(t, "inventory", ds.Category)
	require.Len(t, ds.Rows, 3)

	ahu := ds.Rows[0]
	require.NotNil(t, ahu.Device)
	assert.Equal(t, "AHU", ahu.Device.Category, "name match wins")
	assert.Equal(t, int64(12345), ahu.Device.DeviceID)
	assert.True(t, ahu.Device.Enabled)
	require.NotNil(t, ahu.Health)
	assert.Equal(t, "excellent", ahu.Health.Recency)

	vav := ds.Rows[1]
	assert.Equal(t, "VAV", vav.Device.Category, "model match when the name says nothing")
	assert.False(t, vav.Device.CovEnabled)
	require.NotNil(t, vav.Health)
	assert.Equal(t, "poor", vav.Health.Recency)

	other := ds.Rows[2]
	assert.Equal(t, "Other", other.Device.Category)
	assert.False(t, other.Device.Enabled)
	assert.Nil(t, other.Health, "empty health field carries no recency")
}

func TestParseDeviceInventoryRecommendations(t *testing.T) {
	ds, err := ParseDeviceInventory(inventoryContent(time.Now().UTC()), "inventory.csv", models.ParseOptions{})
	require.NoError(t, err)

	joined := fmt.Sprint(ds.Summary.Recommendations)
	assert.Contains(t, joined, "poor communication health")
	assert.Contains(t, joined, "1 devices are disabled")
	assert.Contains(t, joined, "COV subscriptions disabled")
}

func TestParseDeviceInventoryBreakdowns(t *testing.T) {
	ds, err := ParseDeviceInventory(inventoryContent(time.Now().UTC()), "inventory.csv", models.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Tridium": 1, "Honeywell": 1, "Siemens": 1}, ds.Summary.VendorCounts)
	assert.Equal(t, map[string]int{"BacnetNetwork": 2, "ModbusNetwork": 1}, ds.Summary.NetworkCounts)
	assert.Equal(t, map[string]int{"1.14": 1, "1.12": 1, "1.10": 1}, ds.Summary.ProtocolCounts)
}

func TestParseDeviceInventoryLenientColumns(t *testing.T) {
	// Missing Device ID downgrades to a warning by default.
	ds, err := ParseDeviceInventory("Name,Vendor\nDev1,Tridium\n", "inventory.csv", models.ParseOptions{})
	require.NoError(t, err)
	require.Len(t, ds.Metadata.Warnings, 1)
	assert.Contains(t, ds.Metadata.Warnings[0], "Device ID")

	// Strict validation upgrades it to an error.
	_, err = ParseDeviceInventory("Name,Vendor\nDev1,Tridium\n", "inventory.csv", models.ParseOptions{StrictValidation: true})
	assert.Error(t, err)
}

func TestIsFalseDefaultsTrue(t *testing.T) {
	assert.True(t, isFalse("false"))
	assert.True(t, isFalse("No"))
	assert.True(t, isFalse("0"))
	assert.True(t, isFalse("disabled"))
	assert.False(t, isFalse(""), "absent fields default to enabled")
	assert.False(t, isFalse("true"))
}

func TestParseHealthFieldUnparseableTimestamp(t *testing.T) {
	h := parseHealthField("Fail [last attempt unknown]", time.Now().UTC())
	require.NotNil(t, h)
	assert.Equal(t, "unknown", h.Recency)

	assert.Nil(t, parseHealthField("Ok", time.Now().UTC()), "no bracketed timestamp")
}

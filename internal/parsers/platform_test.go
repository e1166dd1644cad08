package parsers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/models"
)

const platformSample = `Platform summary for 192.168.1.140:
  Daemon Version: 4.10.0.154
  Host ID: Qnx-TITAN-0000-1111-2222
  Model: TITAN
  Product: JACE-8000
  Architecture: armle-v7
  Number of CPUs: 1
  Niagara Runtime: 4.10.0.154
  Operating System: QNX 7.0
  Java Virtual Machine: oracle-jre-compact3
  Platform TLS Support: disabled
Modules
  alarm (Tridium 4.10.0.154)
  bacnet (Tridium 4.10.0.154)
  webEditors (Tridium 4.10.0.154)
Applications
  station "Main" autostart=true autorestart=true status=running fox=1911 foxs=4911 http=80 https=443
Licenses
  FacExp.license (FacExp 4.10 - never expires)
Certificates
  tridium.certificate (Tridium 4.10 - expires 2020-01-01)
Filesystem Free Total
  / 50,000 KB 1,000,000 KB
Physical RAM Free Total
  250,000 KB 1,048,576 KB
`

func TestParsePlatformInfoReport(t *testing.T) {
	ds, err := ParsePlatformInfo(platformSample, "platform.txt", models.ParseOptions{})
	require.NoError(t, err)
	require.NotNil(t, ds.Metadata.Platform)
	p := ds.Metadata.Platform

	assert.Equal(t, "4.10.0.154", p.DaemonVersion)
	assert.Equal(t, "Qnx-TITAN-0000-1111-2222", p.HostID)
	assert.Equal(t, "TITAN", p.Model)
	assert.Equal(t, "JACE-8000", p.Product)
	assert.Equal(t, "armle-v7", p.Architecture)
	assert.Equal(t, 1, p.CPUCount)
	assert.Equal(t, "4.10.0.154", p.RuntimeVersion)
	assert.Equal(t, "QNX 7.0", p.OperatingSystem)
	assert.Equal(t, "oracle-jre-compact3", p.JavaVM)
	assert.Equal(t, "disabled", p.TLSSupport)
	assert.Equal(t, models.SystemClassEmbedded, p.SystemClass)

	require.Len(t, p.Modules, 3)
	assert.Equal(t, models.PlatformModule{Name: "bacnet", Vendor: "Tridium", Version: "4.10.0.154"}, p.Modules[1])

	require.Len(t, p.Applications, 1)
	app := p.Applications[0]
	assert.Equal(t, "Main", app.Name)
	assert.True(t, app.Autostart)
	assert.True(t, app.AutoRestart)
	assert.Equal(t, "running", app.Status)
	assert.Equal(t, map[string]int{"fox": 1911, "foxs": 4911, "http": 80, "https": 443}, app.Ports)

	require.Len(t, p.Licenses, 1)
	assert.True(t, p.Licenses[0].NeverExpires)

	require.Len(t, p.Certificates, 1)
	cert := p.Certificates[0]
	assert.Equal(t, "tridium.certificate", cert.Name)
	require.NotNil(t, cert.ExpiresAt)
	assert.Equal(t, 2020, cert.ExpiresAt.Year())

	require.Len(t, p.Filesystems, 1)
	fs := p.Filesystems[0]
	assert.Equal(t, "/", fs.Path)
	assert.Equal(t, int64(50_000), fs.FreeKB)
	assert.Equal(t, int64(1_000_000), fs.TotalKB)
	assert.InDelta(t, 5.0, fs.FreePercent, 0.01)

	require.NotNil(t, p.RAM)
	assert.Equal(t, int64(250_000), p.RAM.FreeKB)
	assert.InDelta(t, 76.16, p.RAM.UsedPercent, 0.01)
}

func TestParsePlatformInfoSyntheticRow(t *testing.T) {
	ds, err := ParsePlatformInfo(platformSample, "platform.txt", models.ParseOptions{})
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "platform", ds.Category)
	assert.Equal(t, "Qnx-TITAN-0000-1111-2222", ds.Rows[0].Data["Name"])
	assert.Equal(t, "JACE-8000", ds.Rows[0].Data["Product"])
	assert.Equal(t, 1, ds.Metadata.RowCount)
}

func TestParsePlatformInfoAlerts(t *testing.T) {
	ds, err := ParsePlatformInfo(platformSample, "platform.txt", models.ParseOptions{})
	require.NoError(t, err)

	byMetric := map[string]models.Alert{}
	for _, a := range ds.Metadata.Alerts {
		byMetric[a.Metric] = a
	}
	require.Len(t, byMetric, 4)

	assert.Equal(t, models.AlertCritical, byMetric["platform tls"].Severity)
	assert.Equal(t, models.AlertCritical, byMetric["certificate expiry"].Severity)
	assert.Equal(t, models.AlertWarning, byMetric["runtime version"].Severity, "4.10 is not an LTS line")
	assert.Equal(t, models.AlertWarning, byMetric["disk free space"].Severity, "5 percent free is under the embedded floor")
}

func TestParsePlatformInfoCertificateWarningWindow(t *testing.T) {
	soon := time.Now().UTC().Add(10 * 24 * time.Hour).Format("2006-01-02")
	content := fmt.Sprintf("Product: Supervisor\nCertificates\n  web.cert (Tridium 4.14 - expires %s)\n", soon)

	ds, err := ParsePlatformInfo(content, "platform.txt", models.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.SystemClassSupervisor, ds.Metadata.Platform.SystemClass)
	require.Len(t, ds.Metadata.Alerts, 1)
	alert := ds.Metadata.Alerts[0]
	assert.Equal(t, "certificate expiry", alert.Metric)
	assert.Equal(t, models.AlertWarning, alert.Severity)
	assert.Contains(t, alert.Message, "web.cert")
}

func TestIsLTSRuntime(t *testing.T) {
	assert.True(t, isLTSRuntime("4.14.2.18"))
	assert.True(t, isLTSRuntime("4.9.0.198"))
	assert.False(t, isLTSRuntime("4.10.0.154"))
	assert.False(t, isLTSRuntime("4"))
}

func TestClassifySystem(t *testing.T) {
	assert.Equal(t, models.SystemClassSupervisor, classifySystem("Niagara Supervisor", ""))
	assert.Equal(t, models.SystemClassWorkstation, classifySystem("", "Workstation-AX"))
	assert.Equal(t, models.SystemClassEmbedded, classifySystem("JACE-8000", "TITAN"))
}

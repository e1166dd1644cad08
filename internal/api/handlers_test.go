package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationstack/station-insight/internal/analysis"
	"github.com/stationstack/station-insight/internal/config"
	"github.com/stationstack/station-insight/internal/models"
	"github.com/stationstack/station-insight/internal/parsers"
	"github.com/stationstack/station-insight/internal/services"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orch := parsers.NewOrchestrator(nil, nil)
	an := analysis.NewAnalyzer(analysis.DefaultThresholds(), nil)
	svc := services.NewInsightService(nil, orch, an, nil, time.Minute)

	engine := gin.New()
	h := &handlers{svc: svc, logger: slog.Default(), defaults: config.LimitsConfig{}}
	h.register(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	rec := doJSON(t, engine, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["parseP95"])
}

func TestFormatsEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	rec := doJSON(t, engine, http.MethodGet, "/api/v1/formats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Formats []models.FormatSpec `json:"formats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Formats, 6)
}

func TestParseEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/parse", gin.H{
		"filename": "resources.csv",
		"content":  "Name,Value\ncpu.usage,12%\n",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, models.FormatResourceTelemetry, result.Detection.Format)
}

func TestParseEndpointFailureIsHTTP200(t *testing.T) {
	engine := newTestEngine(t)
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/parse", gin.H{
		"filename": "network.csv",
		"content":  "Name,Controller Type\nD,J\n",
	})
	require.Equal(t, http.StatusOK, rec.Code, "parse failures live in the body, not the status")

	var result models.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestParseEndpointRejectsBadRequests(t *testing.T) {
	engine := newTestEngine(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/parse", gin.H{"filename": "x.csv"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "content is required")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/analyze", gin.H{
		"resources": gin.H{
			"filename": "resources.csv",
			"content":  "Name,Value\ncpu.usage,92%\ntime.current,04-Aug-25 3:07 PM EDT\n",
		},
		"topology": gin.H{
			"filename": "stations.csv",
			"content":  "Name,Path\nS1,/Drivers/NiagaraNetwork/J1\n",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analysis models.SystemAnalysis         `json:"analysis"`
		Parses   map[string]models.ParseResult `json:"parses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Parses, 2)
	assert.True(t, body.Parses["resources"].Success)
	assert.Equal(t, 2, body.Analysis.Metadata.FilesProcessed)
	assert.Equal(t, 1, body.Analysis.Summary.CriticalCount)
	assert.Equal(t, 1, body.Analysis.Drivers.Stations)
}

func TestAnalyzeEndpointSkipsFailedInputs(t *testing.T) {
	engine := newTestEngine(t)
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/analyze", gin.H{
		"networkDevices": gin.H{
			"filename": "network.csv",
			"content":  "Name,Controller Type\nD,J\n",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analysis models.SystemAnalysis         `json:"analysis"`
		Parses   map[string]models.ParseResult `json:"parses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.False(t, body.Parses["networkDevices"].Success)
	assert.Equal(t, 0, body.Analysis.Metadata.FilesProcessed, "failed parses contribute nothing")
}

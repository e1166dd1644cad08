package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stationstack/station-insight/internal/config"
	"github.com/stationstack/station-insight/internal/models"
	"github.com/stationstack/station-insight/internal/services"
)

type handlers struct {
	svc      *services.InsightService
	logger   *slog.Logger
	defaults config.LimitsConfig
}

func (h *handlers) register(engine *gin.Engine) {
	engine.GET("/healthz", h.health)

	v1 := engine.Group("/api/v1")
	v1.GET("/formats", h.formats)
	v1.POST("/parse", h.parse)
	v1.POST("/analyze", h.analyze)
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"parseP95": h.svc.LatencyP95().String(),
	})
}

func (h *handlers) formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.svc.Formats()})
}

// parseRequest is one file to parse. Options default to the server's
// configured limits when omitted.
type parseRequest struct {
	Filename string               `json:"filename" binding:"required"`
	Content  string               `json:"content" binding:"required"`
	Options  *models.ParseOptions `json:"options,omitempty"`
}

func (h *handlers) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result := h.svc.ParseFile(c.Request.Context(), req.Content, req.Filename, h.options(req.Options))

	// Parse failures are encoded in the result body, not the HTTP status:
	// the request itself succeeded.
	c.JSON(http.StatusOK, result)
}

// analyzeRequest carries up to six named files, one per analysis slot.
type analyzeRequest struct {
	Platform         *parseRequest `json:"platform,omitempty"`
	Resources        *parseRequest `json:"resources,omitempty"`
	NetworkDevices   *parseRequest `json:"networkDevices,omitempty"`
	DeviceInventory  *parseRequest `json:"deviceInventory,omitempty"`
	Topology         *parseRequest `json:"topology,omitempty"`
	SecondaryDevices *parseRequest `json:"secondaryDevices,omitempty"`
}

type analyzeResponse struct {
	Analysis models.SystemAnalysis         `json:"analysis"`
	Parses   map[string]models.ParseResult `json:"parses"`
}

func (h *handlers) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	parses := make(map[string]models.ParseResult)
	var input models.AnalysisInput

	slots := []struct {
		name string
		file *parseRequest
		dst  **models.Dataset
	}{
		{"platform", req.Platform, &input.Platform},
		{"resources", req.Resources, &input.Resources},
		{"networkDevices", req.NetworkDevices, &input.NetworkDevices},
		{"deviceInventory", req.DeviceInventory, &input.DeviceInventory},
		{"topology", req.Topology, &input.Topology},
		{"secondaryDevices", req.SecondaryDevices, &input.SecondaryDevices},
	}
	for _, slot := range slots {
		if slot.file == nil {
			continue
		}
		result := h.svc.ParseFile(ctx, slot.file.Content, slot.file.Filename, h.options(slot.file.Options))
		parses[slot.name] = result
		if result.Success {
			*slot.dst = result.Dataset
		} else {
			h.logger.Warn("analysis input failed to parse",
				slog.String("slot", slot.name),
				slog.String("file", slot.file.Filename))
		}
	}

	analysis := h.svc.Analyze(ctx, input)
	c.JSON(http.StatusOK, analyzeResponse{Analysis: analysis, Parses: parses})
}

func (h *handlers) options(opts *models.ParseOptions) models.ParseOptions {
	if opts != nil {
		return *opts
	}
	return h.defaults.ParseOptions()
}

package api

import (
	"net/http"

	"github.com/employee-records-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// Export handles GET /v1/exports?format=...&name=...
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatCSV)
	if !service.IsExportFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, xlsx, json, ndjson"})
		return
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info().Str("format", format).Bool("filtered", !filter.IsEmpty()).Msg("Starting export")

	if err := h.services.Export.Export(c.Request.Context(), c.Writer, format, filter); err != nil {
		if c.Writer.Written() {
			// Can't return error JSON after streaming has started
			h.log.Error().Err(err).Str("format", format).Msg("Export failed mid-stream")
			return
		}
		respondError(c, h.log, err, "export failed")
	}
}

// Template handles GET /v1/exports/template?format=csv|xlsx
func (h *ExportHandler) Template(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatCSV)
	if !service.IsTemplateFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, xlsx"})
		return
	}

	if err := h.services.Export.Template(c.Writer, format); err != nil {
		if c.Writer.Written() {
			h.log.Error().Err(err).Msg("Template failed mid-stream")
			return
		}
		respondError(c, h.log, err, "template failed")
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joesch21/ground-ops-api/internal/service"
	"github.com/joesch21/ground-ops-api/pkg/response"
)

// ExportHandler streams run sheets as downloadable documents.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RunSheet exports the vehicle run sheet for a date and airline. The format
// query selects pdf (default) or csv.
func (h *ExportHandler) RunSheet(c *gin.Context) {
	doc, err := h.exports.RunSheet(c.Request.Context(), c.Query("date"), c.Query("airline"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDocument(c, doc)
}

// StaffRunSheet exports the staff assignment sheet for a date and airline.
func (h *ExportHandler) StaffRunSheet(c *gin.Context) {
	doc, err := h.exports.StaffRunSheet(c.Request.Context(), c.Query("date"), c.Query("airline"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDocument(c, doc)
}

func serveDocument(c *gin.Context, doc *service.ExportDocument) {
	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

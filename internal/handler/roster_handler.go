package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/service"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/response"
)

// RosterHandler exposes weekly roster template endpoints.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// List returns every roster template entry.
func (h *RosterHandler) List(c *gin.Context) {
	entries, err := h.roster.ListEntries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create adds a weekly template row.
func (h *RosterHandler) Create(c *gin.Context) {
	var req dto.CreateRosterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.roster.CreateEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete removes a weekly template row.
func (h *RosterHandler) Delete(c *gin.Context) {
	if err := h.roster.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Shifts resolves the template into concrete shifts for a date.
func (h *RosterHandler) Shifts(c *gin.Context) {
	shifts, err := h.roster.ShiftsForDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}

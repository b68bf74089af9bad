package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	"github.com/joesch21/ground-ops-api/internal/service"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/response"
)

// FlightHandler exposes flight schedule endpoints.
type FlightHandler struct {
	flights *service.FlightService
}

// NewFlightHandler constructs handler.
func NewFlightHandler(flights *service.FlightService) *FlightHandler {
	return &FlightHandler{flights: flights}
}

// Import bulk-upserts a day of scraped flights.
func (h *FlightHandler) Import(c *gin.Context) {
	var req dto.ImportFlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.flights.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List returns flights matching the query filters.
func (h *FlightHandler) List(c *gin.Context) {
	filter := models.FlightFilter{
		Date:      c.Query("date"),
		Airline:   c.Query("airline"),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "page_size", 50),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	flights, pagination, err := h.flights.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flights, pagination)
}

// Delete removes a flight and any run rows referencing it.
func (h *FlightHandler) Delete(c *gin.Context) {
	if err := h.flights.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

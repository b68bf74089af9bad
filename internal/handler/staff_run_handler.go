package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/service"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/response"
)

type staffRunGenerator interface {
	Generate(ctx context.Context, req dto.GenerateStaffRunsRequest) (*dto.GenerateStaffRunsResponse, error)
	Get(ctx context.Context, date, airline string) (*dto.StaffRunListResponse, error)
}

// StaffRunHandler exposes staff run endpoints.
type StaffRunHandler struct {
	staffRuns staffRunGenerator
}

// NewStaffRunHandler constructs handler.
func NewStaffRunHandler(staffRuns *service.StaffRunService) *StaffRunHandler {
	return &StaffRunHandler{staffRuns: staffRuns}
}

// Generate regenerates the staff runs for a date and airline. The scope
// arrives as query parameters or a JSON body.
func (h *StaffRunHandler) Generate(c *gin.Context) {
	var req dto.GenerateStaffRunsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.staffRuns.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List returns the stored staff runs plus unassigned flights for a date and airline.
func (h *StaffRunHandler) List(c *gin.Context) {
	result, err := h.staffRuns.Get(c.Request.Context(), c.Query("date"), c.Query("airline"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

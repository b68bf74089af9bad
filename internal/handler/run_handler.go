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

type runGenerator interface {
	Generate(ctx context.Context, req dto.GenerateRunsRequest) (*dto.GenerateRunsResponse, error)
	Get(ctx context.Context, date, airline string) (*dto.RunListResponse, error)
}

// RunHandler exposes vehicle run endpoints.
type RunHandler struct {
	runs runGenerator
}

// NewRunHandler constructs handler.
func NewRunHandler(runs *service.RunService) *RunHandler {
	return &RunHandler{runs: runs}
}

// Generate regenerates the runs for a date and airline. The scope arrives as
// query parameters or a JSON body.
func (h *RunHandler) Generate(c *gin.Context) {
	var req dto.GenerateRunsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.runs.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List returns the stored runs for a date and airline.
func (h *RunHandler) List(c *gin.Context) {
	result, err := h.runs.Get(c.Request.Context(), c.Query("date"), c.Query("airline"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/dto"
)

type staffRunGeneratorMock struct {
	captured dto.GenerateStaffRunsRequest
}

func (m *staffRunGeneratorMock) Generate(ctx context.Context, req dto.GenerateStaffRunsRequest) (*dto.GenerateStaffRunsResponse, error) {
	m.captured = req
	return &dto.GenerateStaffRunsResponse{StaffRunsCreated: 1, FlightsAssigned: 3}, nil
}

func (m *staffRunGeneratorMock) Get(ctx context.Context, date, airline string) (*dto.StaffRunListResponse, error) {
	return &dto.StaffRunListResponse{Runs: []dto.StaffRunView{}}, nil
}

func TestStaffRunHandlerGenerateBindsQueryScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &staffRunGeneratorMock{}
	handler := &StaffRunHandler{staffRuns: mockSvc}
	req, _ := http.NewRequest(http.MethodPost, "/staff-runs/generate?date=2025-06-02&airline=QF", strings.NewReader(""))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2025-06-02", mockSvc.captured.Date)
	require.Equal(t, "QF", mockSvc.captured.Airline)
}

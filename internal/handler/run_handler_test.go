package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/dto"
)

type runGeneratorMock struct {
	captured dto.GenerateRunsRequest
}

func (m *runGeneratorMock) Generate(ctx context.Context, req dto.GenerateRunsRequest) (*dto.GenerateRunsResponse, error) {
	m.captured = req
	return &dto.GenerateRunsResponse{RunsCreated: 2, FlightsAssigned: 5}, nil
}

func (m *runGeneratorMock) Get(ctx context.Context, date, airline string) (*dto.RunListResponse, error) {
	return &dto.RunListResponse{Runs: []dto.RunView{}}, nil
}

func TestRunHandlerGenerateBindsQueryScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &runGeneratorMock{}
	handler := &RunHandler{runs: mockSvc}
	req, _ := http.NewRequest(http.MethodPost, "/runs/generate?date=2025-06-02&airline=QF", strings.NewReader(""))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2025-06-02", mockSvc.captured.Date)
	require.Equal(t, "QF", mockSvc.captured.Airline)
}

func TestRunHandlerGenerateBindsJSONBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &runGeneratorMock{}
	handler := &RunHandler{runs: mockSvc}
	body := []byte(`{"date":"2025-06-02","airline":"QF"}`)
	req, _ := http.NewRequest(http.MethodPost, "/runs/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2025-06-02", mockSvc.captured.Date)
	require.Equal(t, "QF", mockSvc.captured.Airline)
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/dto"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
)

type stubRunLister struct {
	resp dto.RunListResponse
}

func (s *stubRunLister) Get(ctx context.Context, date, airline string) (*dto.RunListResponse, error) {
	return &s.resp, nil
}

type stubStaffRunLister struct {
	resp dto.StaffRunListResponse
}

func (s *stubStaffRunLister) Get(ctx context.Context, date, airline string) (*dto.StaffRunListResponse, error) {
	return &s.resp, nil
}

func TestExportServiceRunSheetCSV(t *testing.T) {
	runs := &stubRunLister{resp: dto.RunListResponse{Runs: []dto.RunView{{
		ID:           "run-1",
		Registration: "VH-ABC",
		Flights: []dto.RunFlightView{
			{FlightNumber: "QF401", ETDLocal: "06:00", SequenceIndex: 0},
			{FlightNumber: "QF405", ETDLocal: "09:30", SequenceIndex: 1},
		},
	}}}}
	svc := NewExportService(runs, &stubStaffRunLister{}, nil)

	doc, err := svc.RunSheet(context.Background(), "2025-06-02", "QF", "csv")
	require.NoError(t, err)
	assert.Equal(t, "runs_QF_2025-06-02.csv", doc.FileName)
	assert.Equal(t, "text/csv", doc.ContentType)

	lines := strings.Split(strings.TrimSpace(string(doc.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Run,Registration,Seq,Flight,Departure", lines[0])
	assert.Contains(t, lines[1], "VH-ABC")
	assert.Contains(t, lines[1], "QF401")
	assert.Contains(t, lines[1], "06:00")
	assert.Contains(t, lines[2], "QF405")
}

func TestExportServiceRunSheetPDFByDefault(t *testing.T) {
	runs := &stubRunLister{resp: dto.RunListResponse{Runs: []dto.RunView{{
		Registration: "VH-ABC",
		Flights:      []dto.RunFlightView{{FlightNumber: "QF401", ETDLocal: "06:00"}},
	}}}}
	svc := NewExportService(runs, &stubStaffRunLister{}, nil)

	doc, err := svc.RunSheet(context.Background(), "2025-06-02", "QF", "")
	require.NoError(t, err)
	assert.Equal(t, "runs_QF_2025-06-02.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(string(doc.Data), "%PDF"))
}

func TestExportServiceStaffRunSheetListsUnassigned(t *testing.T) {
	staffRuns := &stubStaffRunLister{resp: dto.StaffRunListResponse{
		Runs: []dto.StaffRunView{{
			StaffCode:  "OP1",
			StaffName:  "Alex Chen",
			ShiftStart: "2025-06-02T05:00:00+10:00",
			ShiftEnd:   "2025-06-02T13:00:00+10:00",
			Jobs:       []dto.StaffRunJobView{{FlightNumber: "QF401", ETDLocal: "06:00", Sequence: 0}},
		}},
		Unassigned: []dto.UnassignedFlightView{{FlightNumber: "QF999", ETDLocal: "23:00"}},
	}}
	svc := NewExportService(&stubRunLister{}, staffRuns, nil)

	doc, err := svc.StaffRunSheet(context.Background(), "2025-06-02", "QF", "csv")
	require.NoError(t, err)

	body := string(doc.Data)
	assert.Contains(t, body, "OP1 Alex Chen")
	assert.Contains(t, body, "05:00-13:00")
	assert.Contains(t, body, "UNASSIGNED")
	assert.Contains(t, body, "QF999")
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubRunLister{}, &stubStaffRunLister{}, nil)

	_, err := svc.RunSheet(context.Background(), "2025-06-02", "QF", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

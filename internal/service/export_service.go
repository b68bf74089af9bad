package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/joesch21/ground-ops-api/internal/dto"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/export"
	"github.com/joesch21/ground-ops-api/pkg/timeutil"
)

type runLister interface {
	Get(ctx context.Context, date, airline string) (*dto.RunListResponse, error)
}

type staffRunLister interface {
	Get(ctx context.Context, date, airline string) (*dto.StaffRunListResponse, error)
}

// ExportDocument is a rendered export ready to stream to the client.
type ExportDocument struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders run sheets and staff run sheets as PDF or CSV.
type ExportService struct {
	runs      runLister
	staffRuns staffRunLister
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	logger    *zap.Logger
}

// NewExportService wires export dependencies.
func NewExportService(runs runLister, staffRuns staffRunLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		runs:      runs,
		staffRuns: staffRuns,
		pdf:       export.NewPDFExporter(),
		csv:       export.NewCSVExporter(),
		logger:    logger,
	}
}

// RunSheet renders the vehicle run sheet for a date and airline.
func (s *ExportService) RunSheet(ctx context.Context, date, airline, format string) (*ExportDocument, error) {
	listing, err := s.runs.Get(ctx, date, airline)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Run", "Registration", "Seq", "Flight", "Departure"},
	}
	for _, run := range listing.Runs {
		label := run.Registration
		if run.Label != nil && *run.Label != "" {
			label = *run.Label
		}
		for _, flight := range run.Flights {
			data.Rows = append(data.Rows, map[string]string{
				"Run":          label,
				"Registration": run.Registration,
				"Seq":          fmt.Sprintf("%d", flight.SequenceIndex+1),
				"Flight":       flight.FlightNumber,
				"Departure":    clockOf(flight.ETDLocal),
			})
		}
	}

	title := fmt.Sprintf("%s run sheet", airline)
	return s.render(data, format, title, date, fmt.Sprintf("runs_%s_%s", airline, date))
}

// StaffRunSheet renders the staff assignment sheet for a date and airline.
func (s *ExportService) StaffRunSheet(ctx context.Context, date, airline, format string) (*ExportDocument, error) {
	listing, err := s.staffRuns.Get(ctx, date, airline)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Staff", "Shift", "Seq", "Flight", "Departure"},
	}
	for _, run := range listing.Runs {
		shift := fmt.Sprintf("%s-%s", clockOf(run.ShiftStart), clockOf(run.ShiftEnd))
		for _, job := range run.Jobs {
			data.Rows = append(data.Rows, map[string]string{
				"Staff":     fmt.Sprintf("%s %s", run.StaffCode, run.StaffName),
				"Shift":     shift,
				"Seq":       fmt.Sprintf("%d", job.Sequence+1),
				"Flight":    job.FlightNumber,
				"Departure": clockOf(job.ETDLocal),
			})
		}
	}
	for _, flight := range listing.Unassigned {
		data.Rows = append(data.Rows, map[string]string{
			"Staff":     "UNASSIGNED",
			"Flight":    flight.FlightNumber,
			"Departure": clockOf(flight.ETDLocal),
		})
	}

	title := fmt.Sprintf("%s staff runs", airline)
	return s.render(data, format, title, date, fmt.Sprintf("staff_runs_%s_%s", airline, date))
}

func (s *ExportService) render(data export.Dataset, format, title, subtitle, baseName string) (*ExportDocument, error) {
	switch format {
	case "", "pdf":
		payload, err := s.pdf.Render(data, title, subtitle)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportDocument{FileName: baseName + ".pdf", ContentType: "application/pdf", Data: payload}, nil
	case "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportDocument{FileName: baseName + ".csv", ContentType: "text/csv", Data: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

// clockOf reduces an RFC 3339 timestamp to its local HH:MM portion; values
// already in HH:MM pass through.
func clockOf(value string) string {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.Format(timeutil.ClockLayout)
	}
	return value
}

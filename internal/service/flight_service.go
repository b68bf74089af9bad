package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/timeutil"
)

type flightStore interface {
	List(ctx context.Context, filter models.FlightFilter) ([]models.Flight, int, error)
	FindByID(ctx context.Context, id string) (*models.Flight, error)
	Upsert(ctx context.Context, flight *models.Flight) error
	Delete(ctx context.Context, id string) error
}

// FlightService validates and persists flight records produced by the
// schedule scraper or manual entry.
type FlightService struct {
	repo      flightStore
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
}

// NewFlightService wires flight dependencies.
func NewFlightService(repo flightStore, validate *validator.Validate, logger *zap.Logger, location *time.Location) *FlightService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &FlightService{repo: repo, validator: validate, logger: logger, location: location}
}

// Import bulk-upserts a batch of raw flight records keyed on
// (flight_number, date). Records that fail to parse are skipped and reported,
// not fatal.
func (s *FlightService) Import(ctx context.Context, req dto.ImportFlightsRequest) (*dto.ImportFlightsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	resp := &dto.ImportFlightsResponse{}
	for _, record := range req.Flights {
		flight, err := s.toFlight(record)
		if err != nil {
			resp.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s %s: %v", record.FlightNumber, record.Date, err))
			continue
		}
		if err := s.repo.Upsert(ctx, flight); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert flight")
		}
		resp.Imported++
	}

	s.logger.Info("flights imported", zap.Int("imported", resp.Imported), zap.Int("skipped", resp.Skipped))
	return resp, nil
}

// List returns flights matching the filter.
func (s *FlightService) List(ctx context.Context, filter models.FlightFilter) ([]models.Flight, *models.Pagination, error) {
	flights, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list flights")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return flights, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Delete removes a flight.
func (s *FlightService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "flight not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flight")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete flight")
	}
	return nil
}

func (s *FlightService) toFlight(record dto.FlightRecord) (*models.Flight, error) {
	number := strings.ToUpper(strings.TrimSpace(record.FlightNumber))
	if number == "" {
		return nil, fmt.Errorf("flight number is required")
	}
	if _, err := timeutil.ParseDate(record.Date, s.location); err != nil {
		return nil, err
	}

	flight := &models.Flight{
		FlightNumber: number,
		Date:         record.Date,
	}

	airline := strings.ToUpper(strings.TrimSpace(record.Airline))
	if airline == "" {
		airline = inferAirline(number)
	}
	if airline != "" {
		flight.Airline = &airline
	}

	if reg := strings.ToUpper(strings.TrimSpace(record.Registration)); reg != "" {
		flight.Registration = &reg
	}

	if record.ScheduledDeparture != "" {
		dep, err := time.Parse(time.RFC3339, record.ScheduledDeparture)
		if err != nil {
			return nil, fmt.Errorf("parse departure: %w", err)
		}
		dep = dep.In(s.location)
		if !timeutil.SameLocalDate(dep, record.Date, s.location) {
			return nil, fmt.Errorf("departure %s is not on %s in the airport timezone", record.ScheduledDeparture, record.Date)
		}
		flight.ScheduledDeparture = &dep
	}
	if record.ScheduledArrival != "" {
		arr, err := time.Parse(time.RFC3339, record.ScheduledArrival)
		if err != nil {
			return nil, fmt.Errorf("parse arrival: %w", err)
		}
		arr = arr.In(s.location)
		flight.ScheduledArrival = &arr
	}

	return flight, nil
}

// inferAirline extracts the leading letter prefix of a flight number, the IATA
// airline designator. Returns empty when the number has no usable prefix.
func inferAirline(flightNumber string) string {
	var prefix []rune
	for _, r := range flightNumber {
		if !unicode.IsLetter(r) {
			break
		}
		prefix = append(prefix, r)
		if len(prefix) == 3 {
			break
		}
	}
	if len(prefix) < 2 {
		return ""
	}
	return string(prefix)
}

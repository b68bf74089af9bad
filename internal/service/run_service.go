package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	"github.com/joesch21/ground-ops-api/internal/repository"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/timeutil"
)

type runFlightSource interface {
	ListForScope(ctx context.Context, date, airline string) ([]models.Flight, error)
}

type runStore interface {
	DeleteByScope(ctx context.Context, exec sqlx.ExtContext, date, airline string) error
	InsertRun(ctx context.Context, exec sqlx.ExtContext, run *models.Run) error
	InsertRunFlight(ctx context.Context, exec sqlx.ExtContext, rf *models.RunFlight) error
	ListByScope(ctx context.Context, date, airline string) ([]models.Run, error)
	ListFlightsForRuns(ctx context.Context, runIDs []string) ([]repository.RunFlightDetail, error)
}

type listingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type runMetrics interface {
	ObserveRunGeneration(runsCreated, flightsAssigned int)
	RecordCacheOperation(hit bool)
}

// RunService groups a scope's flights into vehicle runs by aircraft
// registration. Every generation replaces the scope's previous runs wholesale,
// so regenerating over unchanged input is idempotent.
type RunService struct {
	flights   runFlightSource
	runs      runStore
	cache     listingCache
	tx        txProvider
	metrics   runMetrics
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	cacheTTL  time.Duration
}

// NewRunService wires run engine dependencies. cache and metrics may be nil.
func NewRunService(
	flights runFlightSource,
	runs runStore,
	cache listingCache,
	tx txProvider,
	metrics runMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	location *time.Location,
	cacheTTL time.Duration,
) *RunService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &RunService{
		flights:   flights,
		runs:      runs,
		cache:     cache,
		tx:        tx,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		location:  location,
		cacheTTL:  cacheTTL,
	}
}

// Generate rebuilds the runs for one (date, airline) scope. Flights without a
// registration or a departure time are skipped; the remainder is grouped by
// registration and ordered by departure within each group.
func (s *RunService) Generate(ctx context.Context, req dto.GenerateRunsRequest) (*dto.GenerateRunsResponse, error) {
	sc, err := normalizeScope(s.validator, req.Date, req.Airline)
	if err != nil {
		return nil, err
	}

	flights, err := s.flights.ListForScope(ctx, sc.Date, sc.Airline)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flights")
	}

	groupable := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if !f.HasRegistration() || !f.HasDeparture() {
			continue
		}
		if !timeutil.SameLocalDate(*f.ScheduledDeparture, sc.Date, s.location) {
			return nil, appErrors.Wrap(
				fmt.Errorf("flight %s departs %s", f.FlightNumber, f.ScheduledDeparture.Format(time.RFC3339)),
				appErrors.ErrTimezoneMismatch.Code, appErrors.ErrTimezoneMismatch.Status,
				fmt.Sprintf("flight %s departure does not fall on %s in the airport timezone", f.FlightNumber, sc.Date),
			)
		}
		groupable = append(groupable, f)
	}

	groups := groupByRegistration(groupable)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.runs.DeleteByScope(ctx, tx, sc.Date, sc.Airline); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous runs")
		return nil, err
	}

	runsCreated := 0
	flightsAssigned := 0
	for _, group := range groups {
		sortFlightsByDeparture(group.flights)

		run := &models.Run{
			Date:         sc.Date,
			Airline:      sc.Airline,
			Registration: group.registration,
			StartTime:    *group.flights[0].ScheduledDeparture,
			EndTime:      *group.flights[len(group.flights)-1].ScheduledDeparture,
		}
		if err = s.runs.InsertRun(ctx, tx, run); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert run")
			return nil, err
		}

		for i, f := range group.flights {
			seq := i
			planned := timeutil.Clock(*f.ScheduledDeparture, s.location)
			rf := &models.RunFlight{
				RunID:         run.ID,
				FlightID:      f.ID,
				SequenceIndex: &seq,
				PlannedTime:   &planned,
			}
			if err = s.runs.InsertRunFlight(ctx, tx, rf); err != nil {
				err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert run flight")
				return nil, err
			}
			flightsAssigned++
		}
		runsCreated++
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit run generation")
		return nil, err
	}

	s.invalidateListing(ctx, sc)
	if s.metrics != nil {
		s.metrics.ObserveRunGeneration(runsCreated, flightsAssigned)
	}
	s.logger.Info("runs generated",
		zap.String("date", sc.Date),
		zap.String("airline", sc.Airline),
		zap.Int("runs_created", runsCreated),
		zap.Int("flights_assigned", flightsAssigned),
	)

	return &dto.GenerateRunsResponse{RunsCreated: runsCreated, FlightsAssigned: flightsAssigned}, nil
}

// Get returns the scope's runs ordered by registration, each with its flights
// in sequence order.
func (s *RunService) Get(ctx context.Context, date, airline string) (*dto.RunListResponse, error) {
	sc, err := normalizeScope(s.validator, date, airline)
	if err != nil {
		return nil, err
	}

	cacheKey := runListingKey(sc)
	if s.cache != nil {
		var cached dto.RunListResponse
		if cacheErr := s.cache.Get(ctx, cacheKey, &cached); cacheErr == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	runs, err := s.runs.ListByScope(ctx, sc.Date, sc.Airline)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list runs")
	}

	runIDs := make([]string, 0, len(runs))
	for _, run := range runs {
		runIDs = append(runIDs, run.ID)
	}
	details, err := s.runs.ListFlightsForRuns(ctx, runIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list run flights")
	}

	flightsByRun := make(map[string][]repository.RunFlightDetail, len(runs))
	for _, detail := range details {
		flightsByRun[detail.RunID] = append(flightsByRun[detail.RunID], detail)
	}

	resp := &dto.RunListResponse{Runs: make([]dto.RunView, 0, len(runs))}
	for _, run := range runs {
		view := dto.RunView{
			ID:           run.ID,
			Date:         run.Date,
			Airline:      run.Airline,
			Registration: run.Registration,
			Label:        run.Label,
			StartTime:    run.StartTime.In(s.location).Format(time.RFC3339),
			EndTime:      run.EndTime.In(s.location).Format(time.RFC3339),
			Flights:      make([]dto.RunFlightView, 0, len(flightsByRun[run.ID])),
		}
		linked := flightsByRun[run.ID]
		sort.SliceStable(linked, func(i, j int) bool {
			return linked[i].OrderIndex() < linked[j].OrderIndex()
		})
		for _, detail := range linked {
			etd := ""
			if detail.ScheduledDeparture != nil {
				etd = timeutil.Clock(*detail.ScheduledDeparture, s.location)
			}
			view.Flights = append(view.Flights, dto.RunFlightView{
				FlightID:      detail.FlightID,
				FlightNumber:  detail.FlightNumber,
				ETDLocal:      etd,
				SequenceIndex: detail.OrderIndex(),
				Status:        detail.Status,
			})
		}
		resp.Runs = append(resp.Runs, view)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); cacheErr != nil {
			s.logger.Warn("failed to cache run listing", zap.Error(cacheErr))
		}
	}
	return resp, nil
}

// scope is a validated (date, airline) pair.
type scope struct {
	Date    string
	Airline string
}

// normalizeScope validates the (date, airline) pair before any fetch or
// mutation. The airline code is canonicalized to uppercase.
func normalizeScope(validate *validator.Validate, date, airline string) (scope, error) {
	req := struct {
		Date    string `validate:"required,datetime=2006-01-02"`
		Airline string `validate:"required"`
	}{Date: strings.TrimSpace(date), Airline: strings.ToUpper(strings.TrimSpace(airline))}
	if err := validate.Struct(req); err != nil {
		return scope{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date (YYYY-MM-DD) and airline are required")
	}
	return scope{Date: req.Date, Airline: req.Airline}, nil
}

func (s *RunService) invalidateListing(ctx context.Context, sc scope) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, runListingKey(sc)); err != nil {
		s.logger.Warn("failed to invalidate run listing cache", zap.Error(err))
	}
}

func runListingKey(sc scope) string {
	return fmt.Sprintf("runs:%s:%s", sc.Date, sc.Airline)
}

type registrationGroup struct {
	registration string
	flights      []models.Flight
}

// groupByRegistration partitions flights by tail, preserving first-seen order
// of registrations so output is stable for a given input order.
func groupByRegistration(flights []models.Flight) []registrationGroup {
	index := make(map[string]int)
	groups := make([]registrationGroup, 0)
	for _, f := range flights {
		reg := strings.ToUpper(*f.Registration)
		i, ok := index[reg]
		if !ok {
			i = len(groups)
			index[reg] = i
			groups = append(groups, registrationGroup{registration: reg})
		}
		groups[i].flights = append(groups[i].flights, f)
	}
	return groups
}

// sortFlightsByDeparture orders flights by departure ascending; the stable
// sort keeps input order for equal departure times.
func sortFlightsByDeparture(flights []models.Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].ScheduledDeparture.Before(*flights[j].ScheduledDeparture)
	})
}

package service

import (
	"context"
	"fmt"
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

type rosterProvider interface {
	ShiftsForDate(ctx context.Context, date string) ([]models.RosterShift, error)
}

type staffRunStore interface {
	DeleteByScope(ctx context.Context, exec sqlx.ExtContext, date, airline string) error
	InsertStaffRun(ctx context.Context, exec sqlx.ExtContext, run *models.StaffRun) error
	InsertJob(ctx context.Context, exec sqlx.ExtContext, job *models.StaffRunJob) error
	ListByScope(ctx context.Context, date, airline string) ([]repository.StaffRunDetail, error)
	ListJobsForRuns(ctx context.Context, runIDs []string) ([]repository.StaffRunJobDetail, error)
}

type staffRunMetrics interface {
	ObserveStaffRunGeneration(staffRunsCreated, flightsAssigned, flightsUnassigned int)
	RecordCacheOperation(hit bool)
}

// StaffRunService greedily assigns rostered operators to a scope's flights. A
// flight fits a shift when the whole job sits inside the shift window and the
// operator has had the minimum gap since their previous job. Among fitting
// shifts it picks the least-loaded one, breaking ties by earliest last-job
// end; shifts are iterated in staff-code order so regeneration over unchanged
// input reproduces the same assignment.
type StaffRunService struct {
	flights      runFlightSource
	roster       rosterProvider
	staffRuns    staffRunStore
	cache        listingCache
	tx           txProvider
	metrics      staffRunMetrics
	validator    *validator.Validate
	logger       *zap.Logger
	location     *time.Location
	jobDuration  time.Duration
	minimumGap   time.Duration
	operatorRole string
	cacheTTL     time.Duration
}

// StaffRunConfig tunes the assignment pass.
type StaffRunConfig struct {
	JobDuration  time.Duration
	MinimumGap   time.Duration
	OperatorRole string
	CacheTTL     time.Duration
}

// NewStaffRunService wires staff-run engine dependencies. cache and metrics
// may be nil.
func NewStaffRunService(
	flights runFlightSource,
	roster rosterProvider,
	staffRuns staffRunStore,
	cache listingCache,
	tx txProvider,
	metrics staffRunMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	location *time.Location,
	cfg StaffRunConfig,
) *StaffRunService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	if cfg.JobDuration <= 0 {
		cfg.JobDuration = 45 * time.Minute
	}
	if cfg.MinimumGap <= 0 {
		cfg.MinimumGap = 30 * time.Minute
	}
	if cfg.OperatorRole == "" {
		cfg.OperatorRole = models.RoleOperator
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &StaffRunService{
		flights:      flights,
		roster:       roster,
		staffRuns:    staffRuns,
		cache:        cache,
		tx:           tx,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		location:     location,
		jobDuration:  cfg.JobDuration,
		minimumGap:   cfg.MinimumGap,
		operatorRole: cfg.OperatorRole,
		cacheTTL:     cfg.CacheTTL,
	}
}

// shiftState tracks one candidate shift through the greedy pass. State lives
// only for the duration of a single generation call.
type shiftState struct {
	shift      models.RosterShift
	lastJobEnd time.Time
	jobs       []models.Flight
}

// Generate rebuilds the staff runs for one (date, airline) scope.
func (s *StaffRunService) Generate(ctx context.Context, req dto.GenerateStaffRunsRequest) (*dto.GenerateStaffRunsResponse, error) {
	sc, err := normalizeScope(s.validator, req.Date, req.Airline)
	if err != nil {
		return nil, err
	}

	shifts, eligible, err := s.resolveInputs(ctx, sc)
	if err != nil {
		return nil, err
	}

	states := make([]*shiftState, 0, len(shifts))
	for _, shift := range shifts {
		states = append(states, &shiftState{shift: shift, lastJobEnd: shift.Start})
	}

	assigned := 0
	unassigned := 0
	for _, flight := range eligible {
		candidate := s.pickShift(states, *flight.ScheduledDeparture)
		if candidate == nil {
			unassigned++
			continue
		}
		candidate.jobs = append(candidate.jobs, flight)
		candidate.lastJobEnd = flight.ScheduledDeparture.Add(s.jobDuration)
		assigned++
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.staffRuns.DeleteByScope(ctx, tx, sc.Date, sc.Airline); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous staff runs")
		return nil, err
	}

	created := 0
	for _, state := range states {
		if len(state.jobs) == 0 {
			continue
		}
		run := &models.StaffRun{
			Date:       sc.Date,
			Airline:    sc.Airline,
			StaffID:    state.shift.StaffID,
			ShiftStart: state.shift.Start,
			ShiftEnd:   state.shift.End,
		}
		if err = s.staffRuns.InsertStaffRun(ctx, tx, run); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert staff run")
			return nil, err
		}
		for i, flight := range state.jobs {
			job := &models.StaffRunJob{
				StaffRunID: run.ID,
				FlightID:   flight.ID,
				Sequence:   i,
			}
			if err = s.staffRuns.InsertJob(ctx, tx, job); err != nil {
				err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert staff run job")
				return nil, err
			}
		}
		created++
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit staff run generation")
		return nil, err
	}

	s.invalidateListing(ctx, sc)
	if s.metrics != nil {
		s.metrics.ObserveStaffRunGeneration(created, assigned, unassigned)
	}
	s.logger.Info("staff runs generated",
		zap.String("date", sc.Date),
		zap.String("airline", sc.Airline),
		zap.Int("staff_runs_created", created),
		zap.Int("flights_assigned", assigned),
		zap.Int("flights_unassigned", unassigned),
	)

	return &dto.GenerateStaffRunsResponse{
		StaffRunsCreated:  created,
		FlightsAssigned:   assigned,
		FlightsUnassigned: unassigned,
	}, nil
}

// pickShift returns the best candidate for a departure time, or nil when no
// shift fits. Candidates need the whole job inside the shift window and the
// minimum gap since their previous job. The least-loaded candidate wins; ties
// go to the earliest last-job end, and beyond that to roster order.
func (s *StaffRunService) pickShift(states []*shiftState, departure time.Time) *shiftState {
	var best *shiftState
	for _, state := range states {
		latestStart := state.shift.End.Add(-s.jobDuration)
		if departure.Before(state.shift.Start) || departure.After(latestStart) {
			continue
		}
		if state.lastJobEnd.After(departure.Add(-s.minimumGap)) {
			continue
		}
		if best == nil ||
			len(state.jobs) < len(best.jobs) ||
			(len(state.jobs) == len(best.jobs) && state.lastJobEnd.Before(best.lastJobEnd)) {
			best = state
		}
	}
	return best
}

// Get returns the scope's staff runs plus the eligible flights no shift took.
func (s *StaffRunService) Get(ctx context.Context, date, airline string) (*dto.StaffRunListResponse, error) {
	sc, err := normalizeScope(s.validator, date, airline)
	if err != nil {
		return nil, err
	}

	cacheKey := staffRunListingKey(sc)
	if s.cache != nil {
		var cached dto.StaffRunListResponse
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

	runs, err := s.staffRuns.ListByScope(ctx, sc.Date, sc.Airline)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff runs")
	}

	runIDs := make([]string, 0, len(runs))
	for _, run := range runs {
		runIDs = append(runIDs, run.ID)
	}
	jobs, err := s.staffRuns.ListJobsForRuns(ctx, runIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff run jobs")
	}

	jobsByRun := make(map[string][]repository.StaffRunJobDetail, len(runs))
	assignedFlightIDs := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		jobsByRun[job.StaffRunID] = append(jobsByRun[job.StaffRunID], job)
		assignedFlightIDs[job.FlightID] = struct{}{}
	}

	resp := &dto.StaffRunListResponse{
		Runs:       make([]dto.StaffRunView, 0, len(runs)),
		Unassigned: make([]dto.UnassignedFlightView, 0),
	}
	for _, run := range runs {
		view := dto.StaffRunView{
			ID:         run.ID,
			StaffID:    run.StaffID,
			StaffCode:  run.StaffCode,
			StaffName:  run.StaffName,
			ShiftStart: run.ShiftStart.In(s.location).Format(time.RFC3339),
			ShiftEnd:   run.ShiftEnd.In(s.location).Format(time.RFC3339),
			Jobs:       make([]dto.StaffRunJobView, 0, len(jobsByRun[run.ID])),
		}
		for _, job := range jobsByRun[run.ID] {
			etd := ""
			if job.ScheduledDeparture != nil {
				etd = timeutil.Clock(*job.ScheduledDeparture, s.location)
			}
			view.Jobs = append(view.Jobs, dto.StaffRunJobView{
				Sequence:     job.Sequence,
				FlightID:     job.FlightID,
				FlightNumber: job.FlightNumber,
				ETDLocal:     etd,
			})
		}
		resp.Runs = append(resp.Runs, view)
	}

	_, eligible, err := s.resolveInputs(ctx, sc)
	if err != nil {
		return nil, err
	}
	for _, flight := range eligible {
		if _, ok := assignedFlightIDs[flight.ID]; ok {
			continue
		}
		resp.Unassigned = append(resp.Unassigned, dto.UnassignedFlightView{
			FlightID:     flight.ID,
			FlightNumber: flight.FlightNumber,
			ETDLocal:     timeutil.Clock(*flight.ScheduledDeparture, s.location),
		})
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); cacheErr != nil {
			s.logger.Warn("failed to cache staff run listing", zap.Error(cacheErr))
		}
	}
	return resp, nil
}

// resolveInputs fetches the operator shifts and airline-eligible flights for
// the scope. Flights are returned sorted by departure; shifts arrive in staff
// code order from the roster provider.
func (s *StaffRunService) resolveInputs(ctx context.Context, sc scope) ([]models.RosterShift, []models.Flight, error) {
	shifts, err := s.roster.ShiftsForDate(ctx, sc.Date)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster shifts")
	}
	operators := make([]models.RosterShift, 0, len(shifts))
	for _, shift := range shifts {
		if shift.Role != s.operatorRole {
			continue
		}
		operators = append(operators, shift)
	}

	flights, err := s.flights.ListForScope(ctx, sc.Date, sc.Airline)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load flights")
	}
	eligible := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if !f.HasDeparture() {
			continue
		}
		if !timeutil.SameLocalDate(*f.ScheduledDeparture, sc.Date, s.location) {
			return nil, nil, appErrors.Wrap(
				fmt.Errorf("flight %s departs %s", f.FlightNumber, f.ScheduledDeparture.Format(time.RFC3339)),
				appErrors.ErrTimezoneMismatch.Code, appErrors.ErrTimezoneMismatch.Status,
				fmt.Sprintf("flight %s departure does not fall on %s in the airport timezone", f.FlightNumber, sc.Date),
			)
		}
		eligible = append(eligible, f)
	}
	sortFlightsByDeparture(eligible)

	return operators, eligible, nil
}

func (s *StaffRunService) invalidateListing(ctx context.Context, sc scope) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, staffRunListingKey(sc)); err != nil {
		s.logger.Warn("failed to invalidate staff run listing cache", zap.Error(err))
	}
}

func staffRunListingKey(sc scope) string {
	return fmt.Sprintf("staffruns:%s:%s", sc.Date, sc.Airline)
}

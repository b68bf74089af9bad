package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
	"github.com/joesch21/ground-ops-api/pkg/timeutil"
)

type rosterStore interface {
	ListEntries(ctx context.Context) ([]models.RosterEntry, error)
	Create(ctx context.Context, entry *models.RosterEntry) error
	Delete(ctx context.Context, id string) error
	ShiftsForWeekday(ctx context.Context, weekday int) ([]models.RosterShift, error)
}

type rosterStaffReader interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

// RosterService maintains the weekly roster template and materializes it into
// dated shifts for the assignment engine.
type RosterService struct {
	repo      rosterStore
	staff     rosterStaffReader
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
}

// NewRosterService wires roster dependencies.
func NewRosterService(repo rosterStore, staff rosterStaffReader, validate *validator.Validate, logger *zap.Logger, location *time.Location) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &RosterService{repo: repo, staff: staff, validator: validate, logger: logger, location: location}
}

// ShiftsForDate resolves the template rows active on the date into absolute
// shift windows in the airport timezone. Rows whose end does not follow their
// start (overnight shifts are not supported) are skipped with a warning.
func (s *RosterService) ShiftsForDate(ctx context.Context, date string) ([]models.RosterShift, error) {
	day, err := timeutil.ParseDate(date, s.location)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	weekday := isoWeekday(day)
	shifts, err := s.repo.ShiftsForWeekday(ctx, weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster shifts")
	}

	resolved := make([]models.RosterShift, 0, len(shifts))
	for _, shift := range shifts {
		start, startErr := timeutil.CombineDateClock(day, shift.StartRaw, s.location)
		end, endErr := timeutil.CombineDateClock(day, shift.EndRaw, s.location)
		if startErr != nil || endErr != nil || !end.After(start) {
			s.logger.Warn("skipping malformed roster shift",
				zap.String("staff_code", shift.StaffCode),
				zap.String("start", shift.StartRaw),
				zap.String("end", shift.EndRaw),
			)
			continue
		}
		shift.Start = start
		shift.End = end
		resolved = append(resolved, shift)
	}
	return resolved, nil
}

// ListEntries returns the weekly template.
func (s *RosterService) ListEntries(ctx context.Context) ([]models.RosterEntry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster entries")
	}
	return entries, nil
}

// CreateEntry adds one template row after checking the staff member exists.
func (s *RosterService) CreateEntry(ctx context.Context, req dto.CreateRosterEntryRequest) (*models.RosterEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster entry payload")
	}
	if _, err := s.staff.FindByID(ctx, req.StaffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}

	entry := &models.RosterEntry{
		StaffID:   req.StaffID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Role:      req.Role,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create roster entry")
	}
	return entry, nil
}

// DeleteEntry removes one template row.
func (s *RosterService) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "roster entry id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete roster entry")
	}
	return nil
}

// isoWeekday maps time.Weekday onto ISO numbering (1=Monday .. 7=Sunday).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

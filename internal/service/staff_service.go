package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
)

type staffStore interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, int, error)
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	FindByCode(ctx context.Context, code string) (*models.Staff, error)
	Create(ctx context.Context, s *models.Staff) error
	Update(ctx context.Context, s *models.Staff) error
	Deactivate(ctx context.Context, id string) error
}

// StaffService manages ground-operations staff records.
type StaffService struct {
	repo      staffStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService wires staff dependencies.
func NewStaffService(repo staffStore, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, validator: validate, logger: logger}
}

// List returns staff matching the filter.
func (s *StaffService) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, *models.Pagination, error) {
	staff, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return staff, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create adds a staff member; the code must be unique.
func (s *StaffService) Create(ctx context.Context, req dto.CreateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}

	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "staff code already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check staff code")
	}

	staff := &models.Staff{
		Code:           req.Code,
		Name:           req.Name,
		EmploymentType: req.EmploymentType,
		Active:         true,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff")
	}
	return staff, nil
}

// Update modifies mutable staff fields.
func (s *StaffService) Update(ctx context.Context, id string, req dto.UpdateStaffRequest) (*models.Staff, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.EmploymentType != nil {
		staff.EmploymentType = *req.EmploymentType
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff")
	}
	return staff, nil
}

// Deactivate soft-deletes a staff member; their roster entries stop resolving
// into shifts on the next generation.
func (s *StaffService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate staff")
	}
	return nil
}

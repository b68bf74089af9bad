package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joesch21/ground-ops-api/internal/models"
)

const staffColumns = "id, code, name, employment_type, active, created_at, updated_at"

// StaffRepository provides persistence for staff members.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// List returns staff with optional filtering and pagination.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, int, error) {
	base := "FROM staff WHERE 1=1"
	var args []interface{}

	if filter.Active != nil {
		base += fmt.Sprintf(" AND active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY code ASC LIMIT %d OFFSET %d", staffColumns, base, size, offset)
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	return staff, total, nil
}

// FindByID loads a staff member by id.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE id = $1", staffColumns)
	var s models.Staff
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByCode loads a staff member by canonical code.
func (r *StaffRepository) FindByCode(ctx context.Context, code string) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE UPPER(code) = UPPER($1)", staffColumns)
	var s models.Staff
	if err := r.db.GetContext(ctx, &s, query, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create stores a new staff member.
func (r *StaffRepository) Create(ctx context.Context, s *models.Staff) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	const query = `INSERT INTO staff (id, code, name, employment_type, active, created_at, updated_at)
		VALUES (:id, :code, :name, :employment_type, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update modifies mutable staff fields.
func (r *StaffRepository) Update(ctx context.Context, s *models.Staff) error {
	s.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET name = :name, employment_type = :employment_type, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a staff member.
func (r *StaffRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE staff SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return nil
}

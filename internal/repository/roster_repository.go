package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joesch21/ground-ops-api/internal/models"
)

// RosterRepository provides persistence for the weekly roster template.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListEntries returns the full weekly template ordered by weekday then staff.
func (r *RosterRepository) ListEntries(ctx context.Context) ([]models.RosterEntry, error) {
	const query = `SELECT id, staff_id, weekday, start_time, end_time, role, created_at, updated_at
		FROM roster_entries ORDER BY weekday ASC, start_time ASC`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}
	return entries, nil
}

// Create stores a new weekly template row.
func (r *RosterRepository) Create(ctx context.Context, entry *models.RosterEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO roster_entries (id, staff_id, weekday, start_time, end_time, role, created_at, updated_at)
		VALUES (:id, :staff_id, :weekday, :start_time, :end_time, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create roster entry: %w", err)
	}
	return nil
}

// Delete removes a template row by id.
func (r *RosterRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM roster_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	return nil
}

// ShiftsForWeekday returns the template rows active on the given ISO weekday
// (1=Monday .. 7=Sunday) joined with active staff. Ordering by staff code
// keeps candidate iteration deterministic across regenerations.
func (r *RosterRepository) ShiftsForWeekday(ctx context.Context, weekday int) ([]models.RosterShift, error) {
	const query = `SELECT s.id AS staff_id, s.code AS staff_code, s.name AS staff_name,
			r.role, r.start_time, r.end_time
		FROM roster_entries r
		JOIN staff s ON s.id = r.staff_id
		WHERE r.weekday = $1 AND s.active = TRUE
		ORDER BY s.code ASC, r.start_time ASC`
	var shifts []models.RosterShift
	if err := r.db.SelectContext(ctx, &shifts, query, weekday); err != nil {
		return nil, fmt.Errorf("list shifts for weekday: %w", err)
	}
	return shifts, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joesch21/ground-ops-api/internal/models"
)

// StaffRunDetail is a staff run joined with the staff record for listings.
type StaffRunDetail struct {
	models.StaffRun
	StaffCode string `db:"staff_code"`
	StaffName string `db:"staff_name"`
}

// StaffRunJobDetail is a job joined with its flight record.
type StaffRunJobDetail struct {
	models.StaffRunJob
	FlightNumber       string     `db:"flight_number"`
	ScheduledDeparture *time.Time `db:"scheduled_departure"`
}

// StaffRunRepository provides persistence for staff runs and their jobs.
type StaffRunRepository struct {
	db *sqlx.DB
}

// NewStaffRunRepository creates a new staff run repository.
func NewStaffRunRepository(db *sqlx.DB) *StaffRunRepository {
	return &StaffRunRepository{db: db}
}

// DeleteByScope drops every staff run for the (date, airline) scope.
// staff_run_jobs rows cascade with their parent.
func (r *StaffRunRepository) DeleteByScope(ctx context.Context, exec sqlx.ExtContext, date, airline string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM staff_runs WHERE date = $1 AND airline = $2`, date, airline); err != nil {
		return fmt.Errorf("delete staff runs for scope: %w", err)
	}
	return nil
}

// InsertStaffRun stores a new staff run row.
func (r *StaffRunRepository) InsertStaffRun(ctx context.Context, exec sqlx.ExtContext, run *models.StaffRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO staff_runs (id, date, airline, staff_id, shift_start, shift_end, created_at)
		VALUES (:id, :date, :airline, :staff_id, :shift_start, :shift_end, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, run); err != nil {
		return fmt.Errorf("insert staff run: %w", err)
	}
	return nil
}

// InsertJob stores a staff-run-to-flight link.
func (r *StaffRunRepository) InsertJob(ctx context.Context, exec sqlx.ExtContext, job *models.StaffRunJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	const query = `INSERT INTO staff_run_jobs (id, staff_run_id, flight_id, sequence)
		VALUES (:id, :staff_run_id, :flight_id, :sequence)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, job); err != nil {
		return fmt.Errorf("insert staff run job: %w", err)
	}
	return nil
}

// ListByScope returns staff runs for the scope joined with staff, ordered by
// shift start then staff code.
func (r *StaffRunRepository) ListByScope(ctx context.Context, date, airline string) ([]StaffRunDetail, error) {
	const query = `SELECT sr.id, sr.date, sr.airline, sr.staff_id, sr.shift_start, sr.shift_end, sr.created_at,
			s.code AS staff_code, s.name AS staff_name
		FROM staff_runs sr
		JOIN staff s ON s.id = sr.staff_id
		WHERE sr.date = $1 AND sr.airline = $2
		ORDER BY sr.shift_start ASC, s.code ASC`
	var runs []StaffRunDetail
	if err := r.db.SelectContext(ctx, &runs, query, date, airline); err != nil {
		return nil, fmt.Errorf("list staff runs for scope: %w", err)
	}
	return runs, nil
}

// ListJobsForRuns returns the joined jobs for a set of staff runs in
// assignment order.
func (r *StaffRunRepository) ListJobsForRuns(ctx context.Context, runIDs []string) ([]StaffRunJobDetail, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT j.id, j.staff_run_id, j.flight_id, j.sequence,
			f.flight_number, f.scheduled_departure
		FROM staff_run_jobs j
		JOIN flights f ON f.id = j.flight_id
		WHERE j.staff_run_id IN (?)
		ORDER BY j.staff_run_id, j.sequence ASC`, runIDs)
	if err != nil {
		return nil, fmt.Errorf("build staff run jobs query: %w", err)
	}
	query = r.db.Rebind(query)
	var jobs []StaffRunJobDetail
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("list staff run jobs: %w", err)
	}
	return jobs, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joesch21/ground-ops-api/internal/models"
)

// RunFlightDetail is a run flight joined with its flight record for listings.
type RunFlightDetail struct {
	models.RunFlight
	FlightNumber       string     `db:"flight_number"`
	ScheduledDeparture *time.Time `db:"scheduled_departure"`
}

// RunRepository provides persistence for vehicle runs and their flight links.
// The write methods take an ExtContext so generation can replace a whole scope
// inside one transaction.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// DeleteByScope drops every run for the (date, airline) scope. run_flights
// rows go with their parent via ON DELETE CASCADE.
func (r *RunRepository) DeleteByScope(ctx context.Context, exec sqlx.ExtContext, date, airline string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM runs WHERE date = $1 AND airline = $2`, date, airline); err != nil {
		return fmt.Errorf("delete runs for scope: %w", err)
	}
	return nil
}

// InsertRun stores a new run row.
func (r *RunRepository) InsertRun(ctx context.Context, exec sqlx.ExtContext, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO runs (id, date, airline, registration, label, start_time, end_time, created_at)
		VALUES (:id, :date, :airline, :registration, :label, :start_time, :end_time, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// InsertRunFlight stores a run-to-flight link.
func (r *RunRepository) InsertRunFlight(ctx context.Context, exec sqlx.ExtContext, rf *models.RunFlight) error {
	if rf.ID == "" {
		rf.ID = uuid.NewString()
	}
	const query = `INSERT INTO run_flights (id, run_id, flight_id, sequence_index, position, status, planned_time)
		VALUES (:id, :run_id, :flight_id, :sequence_index, :position, :status, :planned_time)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, rf); err != nil {
		return fmt.Errorf("insert run flight: %w", err)
	}
	return nil
}

// ListByScope returns runs for the scope ordered by registration.
func (r *RunRepository) ListByScope(ctx context.Context, date, airline string) ([]models.Run, error) {
	const query = `SELECT id, date, airline, registration, label, start_time, end_time, created_at
		FROM runs WHERE date = $1 AND airline = $2 ORDER BY registration ASC`
	var runs []models.Run
	if err := r.db.SelectContext(ctx, &runs, query, date, airline); err != nil {
		return nil, fmt.Errorf("list runs for scope: %w", err)
	}
	return runs, nil
}

// ListFlightsForRuns returns the joined flight links for a set of runs,
// ordered within each run by sequence_index with the legacy position column as
// fallback.
func (r *RunRepository) ListFlightsForRuns(ctx context.Context, runIDs []string) ([]RunFlightDetail, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT rf.id, rf.run_id, rf.flight_id, rf.sequence_index, rf.position, rf.status, rf.planned_time,
			f.flight_number, f.scheduled_departure
		FROM run_flights rf
		JOIN flights f ON f.id = rf.flight_id
		WHERE rf.run_id IN (?)
		ORDER BY rf.run_id, COALESCE(rf.sequence_index, rf.position, 0) ASC`, runIDs)
	if err != nil {
		return nil, fmt.Errorf("build run flights query: %w", err)
	}
	query = r.db.Rebind(query)
	var details []RunFlightDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list run flights: %w", err)
	}
	return details, nil
}

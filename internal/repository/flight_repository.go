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

const flightColumns = "id, flight_number, airline, date, registration, scheduled_departure, scheduled_arrival, created_at, updated_at"

// FlightRepository provides persistence for flights.
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new flight repository.
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// ListForScope returns every flight on the date belonging to the airline. A
// flight matches when its airline column equals the code, or when the column
// is unset and the flight number carries the code as prefix.
func (r *FlightRepository) ListForScope(ctx context.Context, date, airline string) ([]models.Flight, error) {
	query := fmt.Sprintf(`SELECT %s FROM flights
		WHERE date = $1
		  AND (UPPER(airline) = $2 OR ((airline IS NULL OR airline = '') AND UPPER(flight_number) LIKE $2 || '%%'))
		ORDER BY scheduled_departure ASC NULLS LAST, id ASC`, flightColumns)
	var flights []models.Flight
	if err := r.db.SelectContext(ctx, &flights, query, date, airline); err != nil {
		return nil, fmt.Errorf("list flights for scope: %w", err)
	}
	return flights, nil
}

// List returns flights with optional filtering and pagination.
func (r *FlightRepository) List(ctx context.Context, filter models.FlightFilter) ([]models.Flight, int, error) {
	base := "FROM flights WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.Airline != "" {
		conditions = append(conditions, fmt.Sprintf("(UPPER(airline) = $%d OR ((airline IS NULL OR airline = '') AND UPPER(flight_number) LIKE $%d || '%%'))", len(args)+1, len(args)+1))
		args = append(args, strings.ToUpper(filter.Airline))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"scheduled_departure": true,
		"flight_number":       true,
		"date":                true,
		"created_at":          true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "scheduled_departure"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", flightColumns, base, sortBy, order, size, offset)
	var flights []models.Flight
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list flights: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count flights: %w", err)
	}

	return flights, total, nil
}

// FindByID loads a flight by id.
func (r *FlightRepository) FindByID(ctx context.Context, id string) (*models.Flight, error) {
	query := fmt.Sprintf("SELECT %s FROM flights WHERE id = $1", flightColumns)
	var flight models.Flight
	if err := r.db.GetContext(ctx, &flight, query, id); err != nil {
		return nil, err
	}
	return &flight, nil
}

// Upsert inserts a flight or refreshes an existing row keyed on
// (flight_number, date).
func (r *FlightRepository) Upsert(ctx context.Context, flight *models.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if flight.CreatedAt.IsZero() {
		flight.CreatedAt = now
	}
	flight.UpdatedAt = now

	const query = `INSERT INTO flights (id, flight_number, airline, date, registration, scheduled_departure, scheduled_arrival, created_at, updated_at)
		VALUES (:id, :flight_number, :airline, :date, :registration, :scheduled_departure, :scheduled_arrival, :created_at, :updated_at)
		ON CONFLICT (flight_number, date) DO UPDATE SET
		  airline = EXCLUDED.airline,
		  registration = EXCLUDED.registration,
		  scheduled_departure = EXCLUDED.scheduled_departure,
		  scheduled_arrival = EXCLUDED.scheduled_arrival,
		  updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, flight); err != nil {
		return fmt.Errorf("upsert flight: %w", err)
	}
	return nil
}

// Delete removes a flight by id.
func (r *FlightRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	return nil
}

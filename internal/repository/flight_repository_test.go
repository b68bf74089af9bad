package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/models"
)

func flightRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "flight_number", "airline", "date", "registration", "scheduled_departure", "scheduled_arrival", "created_at", "updated_at"})
}

func TestFlightRepositoryListForScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFlightRepository(db)
	dep := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	rows := flightRows().
		AddRow("f1", "QF401", "QF", "2025-06-02", "VH-ABC", dep, nil, time.Now(), time.Now()).
		AddRow("f2", "QF403", nil, "2025-06-02", nil, dep.Add(time.Hour), nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights")).
		WithArgs("2025-06-02", "QF").
		WillReturnRows(rows)

	flights, err := repo.ListForScope(context.Background(), "2025-06-02", "QF")
	require.NoError(t, err)
	require.Len(t, flights, 2)
	require.Equal(t, "QF401", flights[0].FlightNumber)
	require.Nil(t, flights[1].Airline)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositoryUpsertAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFlightRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO flights")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	flight := &models.Flight{FlightNumber: "QF401", Date: "2025-06-02"}
	require.NoError(t, repo.Upsert(context.Background(), flight))
	require.NotEmpty(t, flight.ID)
	require.False(t, flight.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightRepositoryListPaginates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFlightRepository(db)
	rows := flightRows().
		AddRow("f1", "QF401", "QF", "2025-06-02", nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 25 OFFSET 25")).
		WithArgs("2025-06-02").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("2025-06-02").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(26))

	flights, total, err := repo.List(context.Background(), models.FlightFilter{
		Date:     "2025-06-02",
		Page:     2,
		PageSize: 25,
	})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	require.Equal(t, 26, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

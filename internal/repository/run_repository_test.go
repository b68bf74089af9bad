package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunRepositoryReplaceScopeInTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRunRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM runs WHERE date = $1 AND airline = $2")).
		WithArgs("2025-06-02", "QF").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO runs")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_flights")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByScope(ctx, tx, "2025-06-02", "QF"))

	start := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	run := &models.Run{
		Date:         "2025-06-02",
		Airline:      "QF",
		Registration: "VH-ABC",
		StartTime:    start,
		EndTime:      start.Add(3 * time.Hour),
	}
	require.NoError(t, repo.InsertRun(ctx, tx, run))
	require.NotEmpty(t, run.ID)
	require.False(t, run.CreatedAt.IsZero())

	seq := 0
	planned := "06:00"
	rf := &models.RunFlight{RunID: run.ID, FlightID: "f1", SequenceIndex: &seq, PlannedTime: &planned}
	require.NoError(t, repo.InsertRunFlight(ctx, tx, rf))
	require.NotEmpty(t, rf.ID)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListByScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRunRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "date", "airline", "registration", "label", "start_time", "end_time", "created_at"}).
		AddRow("run-1", "2025-06-02", "QF", "VH-ABC", nil, now, now.Add(2*time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, airline, registration, label, start_time, end_time, created_at")).
		WithArgs("2025-06-02", "QF").
		WillReturnRows(rows)

	runs, err := repo.ListByScope(context.Background(), "2025-06-02", "QF")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "VH-ABC", runs[0].Registration)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListFlightsForRuns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRunRepository(db)
	dep := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "run_id", "flight_id", "sequence_index", "position", "status", "planned_time", "flight_number", "scheduled_departure"}).
		AddRow("rf-1", "run-1", "f1", 0, nil, nil, "06:00", "QF401", dep).
		AddRow("rf-2", "run-1", "f2", nil, 1, nil, nil, "QF403", dep.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM run_flights rf")).
		WithArgs("run-1").
		WillReturnRows(rows)

	details, err := repo.ListFlightsForRuns(context.Background(), []string{"run-1"})
	require.NoError(t, err)
	require.Len(t, details, 2)
	require.Equal(t, 0, details[0].OrderIndex())
	require.Equal(t, 1, details[1].OrderIndex())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListFlightsForRunsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRunRepository(db)
	details, err := repo.ListFlightsForRuns(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, details)
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
)

type mockFlightRepo struct {
	flights  map[string]models.Flight
	upserted []models.Flight
	deleted  []string
}

func (m *mockFlightRepo) List(ctx context.Context, filter models.FlightFilter) ([]models.Flight, int, error) {
	var list []models.Flight
	for _, f := range m.flights {
		list = append(list, f)
	}
	return list, len(list), nil
}

func (m *mockFlightRepo) FindByID(ctx context.Context, id string) (*models.Flight, error) {
	if f, ok := m.flights[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFlightRepo) Upsert(ctx context.Context, flight *models.Flight) error {
	m.upserted = append(m.upserted, *flight)
	return nil
}

func (m *mockFlightRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestFlightServiceImportParsesRecords(t *testing.T) {
	repo := &mockFlightRepo{}
	svc := NewFlightService(repo, nil, nil, testZone)

	resp, err := svc.Import(context.Background(), dto.ImportFlightsRequest{Flights: []dto.FlightRecord{
		{
			FlightNumber:       "qf401",
			Date:               "2025-06-02",
			Registration:       "vh-abc",
			ScheduledDeparture: "2025-06-02T06:00:00+10:00",
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 0, resp.Skipped)

	require.Len(t, repo.upserted, 1)
	flight := repo.upserted[0]
	assert.Equal(t, "QF401", flight.FlightNumber)
	require.NotNil(t, flight.Airline)
	assert.Equal(t, "QF", *flight.Airline)
	require.NotNil(t, flight.Registration)
	assert.Equal(t, "VH-ABC", *flight.Registration)
	require.NotNil(t, flight.ScheduledDeparture)
	assert.True(t, flight.ScheduledDeparture.Equal(time.Date(2025, 6, 2, 6, 0, 0, 0, testZone)))
}

func TestFlightServiceImportSkipsBadRecords(t *testing.T) {
	repo := &mockFlightRepo{}
	svc := NewFlightService(repo, nil, nil, testZone)

	resp, err := svc.Import(context.Background(), dto.ImportFlightsRequest{Flights: []dto.FlightRecord{
		{FlightNumber: "QF401", Date: "2025-06-02"},
		// Departure instant lands on the next local day.
		{FlightNumber: "QF403", Date: "2025-06-02", ScheduledDeparture: "2025-06-03T01:00:00+10:00"},
		{FlightNumber: "QF405", Date: "2025-06-02", ScheduledDeparture: "six o'clock"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 2, resp.Skipped)
	assert.Len(t, resp.Errors, 2)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "QF401", repo.upserted[0].FlightNumber)
}

func TestFlightServiceImportValidatesPayload(t *testing.T) {
	svc := NewFlightService(&mockFlightRepo{}, nil, nil, testZone)

	_, err := svc.Import(context.Background(), dto.ImportFlightsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFlightServiceDelete(t *testing.T) {
	repo := &mockFlightRepo{flights: map[string]models.Flight{
		"f1": {ID: "f1", FlightNumber: "QF401", Date: "2025-06-02"},
	}}
	svc := NewFlightService(repo, nil, nil, testZone)

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	assert.Equal(t, []string{"f1"}, repo.deleted)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInferAirline(t *testing.T) {
	assert.Equal(t, "QF", inferAirline("QF401"))
	assert.Equal(t, "JST", inferAirline("JST123"))
	assert.Equal(t, "", inferAirline("401"))
	assert.Equal(t, "", inferAirline("Q1"))
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
)

type mockStaffRepo struct {
	staff       map[string]*models.Staff
	byCode      map[string]*models.Staff
	created     *models.Staff
	updated     *models.Staff
	deactivated []string
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*models.Staff), byCode: make(map[string]*models.Staff)}
}

func (m *mockStaffRepo) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, int, error) {
	var list []models.Staff
	for _, s := range m.staff {
		if filter.Active != nil && s.Active != *filter.Active {
			continue
		}
		list = append(list, *s)
	}
	return list, len(list), nil
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStaffRepo) FindByCode(ctx context.Context, code string) (*models.Staff, error) {
	if s, ok := m.byCode[code]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStaffRepo) Create(ctx context.Context, s *models.Staff) error {
	s.ID = "staff-1"
	m.staff[s.ID] = s
	m.byCode[s.Code] = s
	m.created = s
	return nil
}

func (m *mockStaffRepo) Update(ctx context.Context, s *models.Staff) error {
	m.staff[s.ID] = s
	m.updated = s
	return nil
}

func (m *mockStaffRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func TestStaffServiceCreate(t *testing.T) {
	repo := newMockStaffRepo()
	svc := NewStaffService(repo, nil, nil)

	staff, err := svc.Create(context.Background(), dto.CreateStaffRequest{Code: "OP1", Name: "Alex Chen", EmploymentType: "full_time"})
	require.NoError(t, err)
	assert.Equal(t, "staff-1", staff.ID)
	assert.True(t, staff.Active)

	// Duplicate code conflicts.
	_, err = svc.Create(context.Background(), dto.CreateStaffRequest{Code: "OP1", Name: "Someone Else"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	// Missing name fails validation.
	_, err = svc.Create(context.Background(), dto.CreateStaffRequest{Code: "OP2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStaffServiceUpdateAppliesPartialFields(t *testing.T) {
	repo := newMockStaffRepo()
	repo.staff["s1"] = &models.Staff{ID: "s1", Code: "OP1", Name: "Alex Chen", Active: true}
	svc := NewStaffService(repo, nil, nil)

	name := "Alexandra Chen"
	active := false
	staff, err := svc.Update(context.Background(), "s1", dto.UpdateStaffRequest{Name: &name, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra Chen", staff.Name)
	assert.False(t, staff.Active)
	assert.Equal(t, "OP1", staff.Code)

	_, err = svc.Update(context.Background(), "missing", dto.UpdateStaffRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStaffServiceDeactivate(t *testing.T) {
	repo := newMockStaffRepo()
	repo.staff["s1"] = &models.Staff{ID: "s1", Code: "OP1", Active: true}
	svc := NewStaffService(repo, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deactivated)

	err := svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

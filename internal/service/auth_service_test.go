package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/joesch21/ground-ops-api/internal/dto"
	"github.com/joesch21/ground-ops-api/internal/models"
	"github.com/joesch21/ground-ops-api/pkg/config"
	appErrors "github.com/joesch21/ground-ops-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	tokens    map[string]*models.RefreshToken
	revoked   []string
	lastLogin map[string]time.Time
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:     make(map[string]*models.User),
		tokens:    make(map[string]*models.RefreshToken),
		lastLogin: make(map[string]time.Time),
	}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogin[id] = ts
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = "rt-" + token.Token[:8]
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.tokens[token]; ok {
		return rt, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for _, rt := range m.tokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
		Issuer:            "ground-ops-api",
	}
}

func seedUser(t *testing.T, repo *mockUserRepo, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           "u1",
		Email:        "ops@example.com",
		PasswordHash: string(hash),
		FullName:     "Ops Admin",
		Role:         models.RoleAdmin,
		Active:       active,
	}
	repo.users[user.ID] = user
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ops@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Contains(t, repo.lastLogin, "u1")

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ops@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsInactive(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", false)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ops@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ops@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, repo.revoked, 1)

	// The rotated-out token no longer works.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRejectsExpired(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", true)
	repo.tokens["stale"] = &models.RefreshToken{
		ID:        "rt-stale",
		UserID:    "u1",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ops@example.com", Password: "secret123"})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "different-secret"
	other := NewAuthService(repo, otherCfg, nil, nil)

	_, err = other.ValidateToken(login.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogout(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "secret123", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ops@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
	assert.Len(t, repo.revoked, 1)

	// Unknown tokens are a no-op.
	require.NoError(t, svc.Logout(context.Background(), "unknown"))
	assert.Len(t, repo.revoked, 1)
}

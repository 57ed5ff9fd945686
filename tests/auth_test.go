package tests

import (
	"context"
	"testing"

	"stockpos/internal/apierror"
	"stockpos/internal/config"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "unit-test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func seedUser(repo *stubUserRepo, tenantID uuid.UUID, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Username:     username,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	cfg := authTestConfig()
	svc := service.NewAuthService(repo, cfg)
	tenant := uuid.New()
	u := seedUser(repo, tenant, "alice", "s3cret-pass", "manager")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, u.ID.String(), resp.User.ID)

	// Claims carry the tenant so every request is scoped without a lookup.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, tenant.String(), claims["tenant_id"])
	assert.Equal(t, "manager", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())
	seedUser(repo, uuid.New(), "bob", "right-password", "cashier")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "bob", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())
	u := seedUser(repo, uuid.New(), "carol", "s3cret-pass", "cashier")
	u.Active = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carol", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestRefreshIssuesNewTokens(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())
	seedUser(repo, uuid.New(), "dave", "s3cret-pass", "admin")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "dave", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())
	u := seedUser(repo, uuid.New(), "erin", "s3cret-pass", "cashier")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "erin", Password: "s3cret-pass"})
	require.NoError(t, err)

	u.Active = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apierror.KindUnauthorized, apierror.KindOf(err))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())
	tenant := uuid.New()
	seedUser(repo, tenant, "frank", "s3cret-pass", "cashier")

	_, err := svc.CreateUser(context.Background(), tenant, dto.CreateUserRequest{
		Username: "frank",
		Name:     "Frank Two",
		Password: "another-pass",
		Role:     "cashier",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestDeactivateUserWrongTenant(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, authTestConfig())
	u := seedUser(repo, uuid.New(), "grace", "s3cret-pass", "cashier")

	err := svc.DeactivateUser(context.Background(), uuid.New(), u.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindAccessDenied, apierror.KindOf(err))
	assert.True(t, u.Active)
}

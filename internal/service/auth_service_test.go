package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ninjaskull/dacreation-sub001/internal/config"
	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/model"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"
	"github.com/ninjaskull/dacreation-sub001/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdminRepo is an in-memory AdminRepository.
type stubAdminRepo struct {
	users map[uuid.UUID]*model.AdminUser
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{users: make(map[uuid.UUID]*model.AdminUser)}
}

func (r *stubAdminRepo) Create(_ context.Context, u *model.AdminUser) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errors.New("duplicate username")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubAdminRepo) FindByUsername(_ context.Context, username string) (*model.AdminUser, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AdminUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubAdminRepo) List(_ context.Context) ([]model.AdminUser, error) {
	var out []model.AdminUser
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubAdminRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.Active = false
	return nil
}

var _ repository.AdminRepository = (*stubAdminRepo)(nil)

func buildAuthSvc() (service.AuthService, *stubAdminRepo, *config.Config) {
	repo := newStubAdminRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo, cfg
}

func TestLogin_IssuesRoleClaim(t *testing.T) {
	svc, _, cfg := buildAuthSvc()
	_, err := svc.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Username: "reviewer@example.com",
		Name:     "Priya",
		Email:    "reviewer@example.com",
		Password: "s3cret!",
		Role:     "reviewer",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "reviewer@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "reviewer", resp.User.Role)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "reviewer", claims["role"])
	assert.Equal(t, "reviewer@example.com", claims["username"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := buildAuthSvc()
	_, err := svc.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Username: "admin@example.com",
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "correct",
		Role:     "admin",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@example.com",
		Password: "wrong",
	})
	assert.Error(t, err)
}

func TestLogin_DeactivatedUser(t *testing.T) {
	svc, repo, _ := buildAuthSvc()
	created, err := svc.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Username: "gone@example.com",
		Name:     "Gone",
		Email:    "gone@example.com",
		Password: "s3cret!",
		Role:     "approver",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateAdmin(context.Background(), uuid.MustParse(created.ID)))
	assert.False(t, repo.users[uuid.MustParse(created.ID)].Active)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "gone@example.com",
		Password: "s3cret!",
	})
	assert.Error(t, err)
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, _, _ := buildAuthSvc()
	_, err := svc.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Username: "approver@example.com",
		Name:     "Dev",
		Email:    "approver@example.com",
		Password: "s3cret!",
		Role:     "approver",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "approver@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _ := buildAuthSvc()
	_, err := svc.Refresh(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}

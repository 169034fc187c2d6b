package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"

	"github.com/stretchr/testify/require"
)

type stubUserService struct {
	signUp  func(ctx context.Context, username, password, email, fullName string) (*domain.User, error)
	login   func(ctx context.Context, username, password string) (string, *domain.User, error)
	getByID func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) SignUp(ctx context.Context, username, password, email, fullName string) (*domain.User, error) {
	return s.signUp(ctx, username, password, email, fullName)
}

func (s *stubUserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.login(ctx, username, password)
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getByID(ctx, id)
}

func TestAuthController_SignUp(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubUserService{
			signUp: func(_ context.Context, username, _, email, _ string) (*domain.User, error) {
				return &domain.User{ID: "user-1", Username: username, Email: email, Role: domain.RoleUser}, nil
			},
		}
		c := NewAuthController(testLogger(), svc)

		body := `{"username": "alice", "password": "secret-password", "email": "alice@example.com", "full_name": "Alice A."}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "alice", data["username"])
		require.NotContains(t, data, "password_hash")
	})

	t.Run("short password", func(t *testing.T) {
		c := NewAuthController(testLogger(), &stubUserService{})

		body := `{"username": "alice", "password": "short", "email": "alice@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, decodeEnvelope(t, rec).Message, "password must be at least 8 characters")
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc := &stubUserService{
			signUp: func(_ context.Context, _, _, _, _ string) (*domain.User, error) {
				return nil, domain.ErrDuplicateUsername
			},
		}
		c := NewAuthController(testLogger(), svc)

		body := `{"username": "alice", "password": "secret-password", "email": "alice@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "username already exists", decodeEnvelope(t, rec).Message)
	})
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubUserService{
			login: func(_ context.Context, username, _ string) (string, *domain.User, error) {
				return "signed-token", &domain.User{ID: "user-1", Username: username}, nil
			},
		}
		c := NewAuthController(testLogger(), svc)

		body := `{"username": "alice", "password": "secret-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "signed-token", data["token"])
		require.Equal(t, "Bearer", data["token_type"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := &stubUserService{
			login: func(_ context.Context, _, _ string) (string, *domain.User, error) {
				return "", nil, domain.ErrInvalidCredentials
			},
		}
		c := NewAuthController(testLogger(), svc)

		body := `{"username": "alice", "password": "wrong-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.False(t, resp.Success)
	})
}

func TestAuthController_Me(t *testing.T) {
	t.Run("no claims", func(t *testing.T) {
		c := NewAuthController(testLogger(), &stubUserService{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		c.Me(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns profile", func(t *testing.T) {
		svc := &stubUserService{
			getByID: func(_ context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Username: "alice"}, nil
			},
		}
		c := NewAuthController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(middleware.SetClaims(req.Context(), &domain.TokenClaims{UserID: "user-1", Role: domain.RoleUser}))
		rec := httptest.NewRecorder()
		c.Me(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decodeEnvelope(t, rec).Success)
	})
}

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventregistry/internal/domain"

	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *domain.TokenClaims
	err    error
}

func (s *stubVerifier) Verify(_ string) (*domain.TokenClaims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	adminClaims := &domain.TokenClaims{UserID: "user-1", Username: "alice", Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "missing header",
			header:     "",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic YWxpY2U6cHc=",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer   ",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verification fails",
			header:     "Bearer bad-token",
			verifier:   &stubVerifier{err: fmt.Errorf("expired")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer good-token",
			verifier:   &stubVerifier{claims: adminClaims},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := RequireAuth(tt.verifier)(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				claims, ok := ClaimsFromContext(r.Context())
				require.True(t, ok)
				require.Equal(t, "user-1", claims.UserID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("no claims in context", func(t *testing.T) {
		handler := RequireRole(domain.RoleAdmin)(next)
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/events/statistics", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		handler := RequireRole(domain.RoleAdmin)(next)
		req := httptest.NewRequest(http.MethodGet, "/api/events/statistics", nil)
		req = req.WithContext(SetClaims(req.Context(), &domain.TokenClaims{UserID: "user-1", Role: domain.RoleUser}))
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("matching role", func(t *testing.T) {
		handler := RequireRole(domain.RoleAdmin)(next)
		req := httptest.NewRequest(http.MethodGet, "/api/events/statistics", nil)
		req = req.WithContext(SetClaims(req.Context(), &domain.TokenClaims{UserID: "user-1", Role: domain.RoleAdmin}))
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles", func(t *testing.T) {
		handler := RequireRole(domain.RoleAdmin, domain.RoleUser)(next)
		req := httptest.NewRequest(http.MethodGet, "/api/participants", nil)
		req = req.WithContext(SetClaims(req.Context(), &domain.TokenClaims{UserID: "user-1", Role: domain.RoleUser}))
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveSession(ctx context.Context, token string) (*models.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claims), args.Error(1)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims != nil {
		w.Header().Set("X-Member", claims.MemberID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("ResolveSession", mock.Anything, "admin-token").Return(&models.Claims{MemberID: "a1", Role: models.RoleAdmin}, nil)
	resolver.On("ResolveSession", mock.Anything, "user-token").Return(&models.Claims{MemberID: "u1", Role: models.RoleUser}, nil)
	resolver.On("ResolveSession", mock.Anything, "bad-token").Return(nil, errors.New("expired"))

	adminOnly := JWTAuth(resolver)(RequireRole(models.RoleAdmin)(http.HandlerFunc(okHandler)))

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"bad token", "Authorization", "Bearer bad-token", http.StatusUnauthorized, "Token is not valid"},
		{"not bearer", "Authorization", "Basic abc", http.StatusUnauthorized, "No token, authorization denied"},
		{"user is forbidden", "Authorization", "Bearer user-token", http.StatusForbidden, "Access denied. Admin only."},
		{"admin passes", "Authorization", "Bearer admin-token", http.StatusNoContent, ""},
		{"legacy header", "x-auth-token", "admin-token", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()

			adminOnly.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			} else {
				assert.Equal(t, "a1", rec.Header().Get("X-Member"))
			}
		})
	}
}

func TestRequireRole_WithoutClaimsIsUnauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRole(models.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/tasks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

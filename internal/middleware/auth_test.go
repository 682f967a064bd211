package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockTokens struct {
	userID   uuid.UUID
	userType string
	err      error
}

func (m *mockTokens) ValidateToken(context.Context, string) (uuid.UUID, string, error) {
	return m.userID, m.userType, m.err
}

type mockUsers struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func authFixture(u *models.User, tokenErr error) http.Handler {
	tokens := &mockTokens{err: tokenErr}
	users := &mockUsers{users: make(map[uuid.UUID]*models.User)}
	if u != nil {
		tokens.userID = u.ID
		tokens.userType = u.UserType
		users.users[u.ID] = u
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			http.Error(w, "no user in ctx", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return Auth(tokens, users)(next)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAuth_ValidToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), UserType: models.UserTypeClient, Active: true}
	h := authFixture(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/task", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAuth_MissingHeaderIs401(t *testing.T) {
	h := authFixture(&models.User{ID: uuid.New(), Active: true}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/task", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_InvalidTokenIs401(t *testing.T) {
	h := authFixture(&models.User{ID: uuid.New(), Active: true}, errors.New("expired"))

	req := httptest.NewRequest(http.MethodGet, "/api/task", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_DeactivatedAccountIs401(t *testing.T) {
	user := &models.User{ID: uuid.New(), UserType: models.UserTypeWorker, Active: false}
	h := authFixture(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/task", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// RequireAdmin
// ---------------------------------------------------------------------------

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAdmin(next)

	tests := []struct {
		name     string
		userType string
		want     int
	}{
		{"admin passes", models.UserTypeAdmin, http.StatusOK},
		{"client rejected", models.UserTypeClient, http.StatusForbidden},
		{"worker rejected", models.UserTypeWorker, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{ID: uuid.New(), UserType: tt.userType, Active: true}
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req = req.WithContext(WithUser(req.Context(), user))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

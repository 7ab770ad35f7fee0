package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func protectedEndpoint(t *testing.T, roles ...models.UserRole) http.Handler {
	t.Helper()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("GetUserIDFromContext: %v", err)
		}
		if userID <= 0 {
			t.Errorf("userID = %d, want positive", userID)
		}
		w.WriteHeader(http.StatusOK)
	})

	var h http.Handler = final
	if len(roles) > 0 {
		h = Authorize(roles...)(h)
	}
	return NewAuthenticator(testSecret).Authenticate(h)
}

func TestAuthenticateValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(42),
		"role":    string(models.RoleOrganizer),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protectedEndpoint(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(42),
		"role":    string(models.RoleOrganizer),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": float64(42),
		"role":    string(models.RoleOrganizer),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewAuthenticator(testSecret).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached with invalid credentials")
			})).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthorizeRoles(t *testing.T) {
	organizerToken := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(7),
		"role":    string(models.RoleOrganizer),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		allowed    []models.UserRole
		wantStatus int
	}{
		{"role allowed", []models.UserRole{models.RoleOrganizer, models.RoleAdmin}, http.StatusOK},
		{"role denied", []models.UserRole{models.RoleAdmin}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+organizerToken)
			rec := httptest.NewRecorder()

			protectedEndpoint(t, tt.allowed...).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestGetUserIDFromContextStringClaim(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "42",
		"role":    string(models.RoleAdmin),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	var gotID int
	NewAuthenticator(testSecret).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			t.Fatalf("GetUserIDFromContext: %v", err)
		}
		gotID = id
	})).ServeHTTP(rec, req)

	if gotID != 42 {
		t.Errorf("userID = %d, want 42", gotID)
	}
}

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"docspace/internal/domain"
	"docspace/internal/domain/models"
	"docspace/internal/tenancy"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}, TenantID: "t1"}, nil
}

func (stubVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthMiddleware(t *testing.T) {
	var seenTenant, seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTenant = tenancy.TenantID(r.Context())
		seenUser = tenancy.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthMiddleware(stubVerifier{}, discardLogger(), "/health")(next)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid token", "/api/rooms", "Bearer good", http.StatusNoContent},
		{"missing header", "/api/rooms", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/rooms", "Basic good", http.StatusUnauthorized},
		{"bad token", "/api/rooms", "Bearer bad", http.StatusUnauthorized},
		{"public path", "/health", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenTenant, seenUser = "", ""
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "t1", seenTenant)
	assert.Equal(t, "u1", seenUser)
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRecoveryReraisesAbortHandler(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depiwhite/storefront/internal/auth"
)

func newAuthRouter(authSvc auth.Service) *chi.Mux {
	router := chi.NewRouter()
	NewAuthHandler(authSvc).RegisterRoutes(router)
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		signUpFunc func(ctx context.Context, email, password string) (*auth.User, error)
		wantStatus int
		wantInBody string
	}{
		{
			name: "success",
			body: `{"email":"jean@example.com","password":"s3cret-pass"}`,
			signUpFunc: func(ctx context.Context, email, password string) (*auth.User, error) {
				return &auth.User{
					ID:        uuid.Must(uuid.FromString("550e8400-e29b-41d4-a716-446655440000")),
					Email:     email,
					CreatedAt: time.Now().UTC(),
				}, nil
			},
			wantStatus: http.StatusCreated,
			wantInBody: "jean@example.com",
		},
		{
			name: "already_registered",
			body: `{"email":"jean@example.com","password":"s3cret-pass"}`,
			signUpFunc: func(ctx context.Context, email, password string) (*auth.User, error) {
				return nil, auth.ErrEmailExists
			},
			wantStatus: http.StatusConflict,
			wantInBody: "User already registered",
		},
		{
			name:       "invalid_email",
			body:       `{"email":"not-an-email","password":"s3cret-pass"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "Validation failed",
		},
		{
			name:       "short_password",
			body:       `{"email":"jean@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(&mockAuthService{signUpFunc: tt.signUpFunc})

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
		})
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	authSvc := &mockAuthService{
		signInFunc: func(ctx context.Context, email, password string) (*auth.Session, error) {
			return &auth.Session{
				Token:     "fresh-token",
				UserID:    userID,
				Email:     email,
				AdminHint: true,
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}
	router := newAuthRouter(authSvc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"s3cret-pass"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Equal(t, "fresh-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
	assert.True(t, resp.IsAdmin)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	authSvc := &mockAuthService{
		signInFunc: func(ctx context.Context, email, password string) (*auth.Session, error) {
			return nil, auth.ErrInvalidCredentials
		},
	}
	router := newAuthRouter(authSvc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jean@example.com","password":"wrong-pass"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_Session_NotSignedIn(t *testing.T) {
	router := newAuthRouter(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	signedOut := ""
	authSvc := &mockAuthService{
		signOutFunc: func(ctx context.Context, token string) error {
			signedOut = token
			return nil
		},
	}
	router := newAuthRouter(authSvc)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "live-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "live-token", signedOut)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

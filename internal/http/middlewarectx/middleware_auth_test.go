package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chat-subscription/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Мок для проверки токена
type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) VerifyToken(ctx context.Context, token string) (*models.UserInfo, error) {
	args := m.Called(ctx, token)
	info, _ := args.Get(0).(*models.UserInfo)
	return info, args.Error(1)
}

// Мок для проверки права доступа
type CheckerMock struct {
	mock.Mock
}

func (m *CheckerMock) CheckAccess(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestJWTMiddleware(t *testing.T) {
	info := &models.UserInfo{ID: 1, Email: "user@example.com", Role: models.RoleUser}

	tests := []struct {
		name           string
		authHeader     string
		token          string
		mockResp       *models.UserInfo
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty bearer token",
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer badtoken",
			token:          "badtoken",
			mockErr:        apperr.ErrUnauthenticated,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			token:          "validtoken",
			mockResp:       info,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(VerifierMock)
			if tt.token != "" {
				verifier.On("VerifyToken", mock.Anything, tt.token).Return(tt.mockResp, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				got, ok := middlewarectx.UserInfoFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, *info, got)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(verifier, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if !tt.wantCalled {
				body := decodeError(t, rec)
				assert.Equal(t, "Error", body.Status)
				assert.Equal(t, "unauthenticated", body.Error)
			}
			verifier.AssertExpectations(t)
		})
	}
}

func TestEntitlementMiddleware(t *testing.T) {
	live := &models.User{ID: 1, Email: "user@example.com", ExpirationDate: time.Now().Add(time.Hour)}

	tests := []struct {
		name           string
		withInfo       bool
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "no token info in context",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "active account",
			withInfo:       true,
			mockUser:       live,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "expired account",
			withInfo:       true,
			mockErr:        apperr.ErrAccountExpired,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "deleted account",
			withInfo:       true,
			mockErr:        apperr.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "storage failure",
			withInfo:       true,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(CheckerMock)
			if tt.withInfo {
				checker.On("CheckAccess", mock.Anything, int64(1)).Return(tt.mockUser, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				got, ok := middlewarectx.LiveUserFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, live, got)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.withInfo {
				req = req.WithContext(middlewarectx.WithUserInfo(req.Context(), models.UserInfo{ID: 1}))
			}
			rec := httptest.NewRecorder()

			middlewarectx.EntitlementMiddleware(newNoopLogger(), checker)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			checker.AssertExpectations(t)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		info           *models.UserInfo
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "no token info", wantStatusCode: http.StatusUnauthorized},
		{name: "user role", info: &models.UserInfo{ID: 2, Role: models.RoleUser}, wantStatusCode: http.StatusForbidden},
		{name: "admin role", info: &models.UserInfo{ID: 1, Role: models.RoleAdmin}, wantStatusCode: http.StatusOK, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.info != nil {
				req = req.WithContext(middlewarectx.WithUserInfo(req.Context(), *tt.info))
			}
			rec := httptest.NewRecorder()

			middlewarectx.AdminMiddleware(newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

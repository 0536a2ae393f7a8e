package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Мок сервиса с методом Register
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, email, name, password string) (*models.AuthResult, error) {
	args := m.Called(ctx, email, name, password)
	res, _ := args.Get(0).(*models.AuthResult)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	result := &models.AuthResult{
		Token: "jwt-token",
		User: models.UserInfo{
			ID:             1,
			Email:          "user1@example.com",
			Name:           "User One",
			ExpirationDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
			Role:           models.RoleUser,
		},
	}
	valid := Request{Email: "user1@example.com", Name: "User One", Password: "password123"}
	loose := Request{Email: "just-a-login", Name: "x", Password: "1"}
	long := Request{Email: "user1@example.com", Name: "User One", Password: strings.Repeat("p", 73)}

	tests := []struct {
		name           string
		requestBody    any
		callService    bool
		callReq        *Request
		mockResult     *models.AuthResult
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid registration",
			requestBody:    valid,
			callService:    true,
			mockResult:     result,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user1@example.com", Name: "User One"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
		},
		{
			name:           "validation error - missing email",
			requestBody:    Request{Name: "User One", Password: "password123"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email is a required field",
		},
		{
			name:           "non-email login and one-char password are accepted",
			requestBody:    loose,
			callService:    true,
			callReq:        &loose,
			mockResult:     result,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "password over bcrypt limit",
			requestBody:    long,
			callService:    true,
			callReq:        &long,
			mockErr:        fmt.Errorf("services.auth.Register: %w: %w", apperr.ErrInvalidInput, errors.New("password is too long")),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid input",
		},
		{
			name:           "duplicate email",
			requestBody:    valid,
			callService:    true,
			mockErr:        apperr.ErrDuplicateAccount,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email already registered",
		},
		{
			name:           "internal error",
			requestBody:    valid,
			callService:    true,
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				call := valid
				if tt.callReq != nil {
					call = *tt.callReq
				}
				svc.On("Register", mock.Anything, call.Email, call.Name, call.Password).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantError != "" {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "Error", body["status"])
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				var got models.AuthResult
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, result.Token, got.Token)
				assert.Equal(t, result.User.ID, got.User.ID)
				assert.Equal(t, models.RoleUser, got.User.Role)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_IgnoresRoleField(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Register", mock.Anything, "a@b.com", "A", "password123").
		Return(&models.AuthResult{Token: "t", User: models.UserInfo{ID: 1, Role: models.RoleUser}}, nil).Once()

	body := `{"email":"a@b.com","name":"A","password":"password123","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	New(newNoopLogger(), svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

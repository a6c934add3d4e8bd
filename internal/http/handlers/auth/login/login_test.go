package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coach-platform/internal/config"
	services "github.com/magabrotheeeer/coach-platform/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	args := m.Called(ctx, email, rawPassword)
	return args.String(0), args.Error(1)
}

var sessionCfg = config.SessionToken{
	CookieName:   "coach_session",
	TokenTTL:     time.Hour,
	CookieSecure: false,
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name             string
		url              string
		body             string
		setupMock        func(*MockService)
		expectedStatus   int
		expectedBody     string
		expectCookie     bool
		expectedRedirect string
	}{
		{
			name: "успешный вход ставит cookie",
			url:  "/login",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cliente@example.com", "secret123").
					Return("session-token", nil)
			},
			expectedStatus:   http.StatusOK,
			expectCookie:     true,
			expectedRedirect: `"redirect":"/app/programs"`,
		},
		{
			name: "возврат на исходную страницу",
			url:  "/login?redirect=%2Fapp%2Fprogram%2Ffuerza-total",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cliente@example.com", "secret123").
					Return("session-token", nil)
			},
			expectedStatus:   http.StatusOK,
			expectCookie:     true,
			expectedRedirect: `"redirect":"/app/program/fuerza-total"`,
		},
		{
			name: "внешний адрес возврата отбрасывается",
			url:  "/login?redirect=https%3A%2F%2Fevil.example",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cliente@example.com", "secret123").
					Return("session-token", nil)
			},
			expectedStatus:   http.StatusOK,
			expectCookie:     true,
			expectedRedirect: `"redirect":"/app/programs"`,
		},
		{
			name: "неверные учетные данные",
			url:  "/login",
			body: `{"email":"cliente@example.com","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cliente@example.com", "wrongpass").
					Return("", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name:           "некорректный JSON",
			url:            "/login",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "ошибка валидации email",
			url:            "/login",
			body:           `{"email":"not-an-email","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "ошибка сервиса",
			url:  "/login",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cliente@example.com", "secret123").
					Return("", errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to login"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, sessionCfg)

			req := httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			if tt.expectedRedirect != "" {
				assert.Contains(t, w.Body.String(), tt.expectedRedirect)
			}

			cookies := w.Result().Cookies()
			if tt.expectCookie {
				assert.Len(t, cookies, 1)
				assert.Equal(t, "session-token", cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
			} else {
				assert.Empty(t, cookies)
			}

			mockService.AssertExpectations(t)
		})
	}
}

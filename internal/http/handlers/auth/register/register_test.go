package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/magabrotheeeer/coach-platform/internal/services/auth"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, rawPassword, programSlug string) (string, error) {
	args := m.Called(ctx, email, rawPassword, programSlug)
	return args.String(0), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "регистрация без намерения",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "cliente@example.com", "secret123", "").
					Return("uid-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"user_uid":"uid-1"`,
		},
		{
			name: "регистрация с намерением начать программу",
			body: `{"email":"cliente@example.com","password":"secret123","program_slug":"fuerza-total"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "cliente@example.com", "secret123", "fuerza-total").
					Return("uid-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"user_uid":"uid-1"`,
		},
		{
			name: "email уже занят",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "cliente@example.com", "secret123", "").
					Return("", services.ErrUserExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"email already registered"`,
		},
		{
			name:           "короткий пароль",
			body:           `{"email":"cliente@example.com","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name: "ошибка сервиса",
			body: `{"email":"cliente@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "cliente@example.com", "secret123", "").
					Return("", errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to register"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

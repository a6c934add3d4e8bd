package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	services "github.com/magabrotheeeer/coach-platform/internal/services/access"
)

// MockService реализует интерфейс view.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Check(ctx context.Context, userUID, slug string) (*services.Result, error) {
	args := m.Called(ctx, userUID, slug)
	if res := args.Get(0); res != nil {
		return res.(*services.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestViewHandler(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	program := &models.Program{Slug: "fuerza-total", Title: "Fuerza Total", TrialDays: 7}

	tests := []struct {
		name             string
		userUID          string
		setupMock        func(*MockService)
		expectedStatus   int
		expectedBody     string
		expectedLocation string
	}{
		{
			name:    "пробный доступ открывает контент со счётчиком дней",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "uid-1", "fuerza-total").Return(&services.Result{
					Decision: access.Decision{Kind: access.KindTrial, DaysRemaining: 4},
					Program:  program,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"days_remaining":4`,
		},
		{
			name:    "оплаченный доступ открывает контент без счётчика",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "uid-1", "fuerza-total").Return(&services.Result{
					Decision: access.Decision{Kind: access.KindActive},
					Program:  program,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"kind":"active"`,
		},
		{
			name:    "без записи редирект на публичную страницу",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "uid-1", "fuerza-total").Return(&services.Result{
					Decision: access.Decision{Kind: access.KindNoEnrollment},
					Program:  program,
					Redirect: "/program/fuerza-total",
				}, nil)
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/program/fuerza-total",
		},
		{
			name:    "истекший пробный период редирект с пометкой",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "uid-1", "fuerza-total").Return(&services.Result{
					Decision: access.Decision{Kind: access.KindExpired},
					Program:  program,
					Redirect: "/program/fuerza-total?error=trial_expired",
				}, nil)
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/program/fuerza-total?error=trial_expired",
		},
		{
			name:    "неизвестная программа",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "uid-1", "fuerza-total").
					Return(nil, services.ErrProgramNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"program not found"`,
		},
		{
			name:    "ошибка хранилища закрывает доступ",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "uid-1", "fuerza-total").
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"error":"service temporarily unavailable"`,
		},
		{
			name:           "без идентификатора пользователя",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"user identification missing"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/app/program/fuerza-total", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slug", "fuerza-total")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}

			mockService.AssertExpectations(t)
		})
	}
}

package profile

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cards-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	usersvc "github.com/magabrotheeeer/cards-api/internal/services/user"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Profile(ctx context.Context, p models.Principal) (*usersvc.Account, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usersvc.Account), args.Error(1)
}

func (m *MockService) UpdateProfile(ctx context.Context, p models.Principal, in patch.Input) (*usersvc.Account, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usersvc.Account), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var caller = models.Principal{UserID: 7, Roles: models.DefaultRoles()}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithPrincipal(req.Context(), caller))
}

func TestHandler_Get(t *testing.T) {
	svc := new(MockService)
	svc.On("Profile", mock.Anything, caller).Return(&usersvc.Account{
		User: models.User{ID: 7, Email: "ada@example.com", APIKey: "key", Roles: models.DefaultRoles(), SubscriptionID: 1},
	}, nil).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), svc).Get(w, authed(httptest.NewRequest(http.MethodGet, "/api/profile", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"apiKey":"key"`)
	svc.AssertExpectations(t)
}

func TestHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		anonymous      bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "updated",
			body: `{"country":"UK"}`,
			setupMock: func(m *MockService) {
				country := "UK"
				m.On("UpdateProfile", mock.Anything, caller, mock.Anything).Return(&usersvc.Account{
					User: models.User{ID: 7, Email: "ada@example.com", Country: &country, SubscriptionID: 1},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"country":"UK"`,
		},
		{
			name: "email conflict",
			body: `{"email":"taken@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, caller, mock.Anything).Return(nil, &validation.Error{
					Violations: []validation.Violation{{Property: "email", Message: usersvc.MsgEmailUsed}},
				}).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"property":"email"`,
		},
		{
			name:           "anonymous",
			body:           `{}`,
			anonymous:      true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "not an object",
			body:           `"text"`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/api/profile", strings.NewReader(tt.body))
			if !tt.anonymous {
				req = authed(req)
			}
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).Update(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

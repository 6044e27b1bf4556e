package middlewarectx_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cards-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cards-api/internal/lib/jwt"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/services/auth"
)

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	args := m.Called(ctx, apiKey)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateToken(ctx context.Context, token string) (models.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Principal), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		setupMocks     func(a *AuthenticatorMock, p *TokenValidatorMock)
		wantStatusCode int
		wantPrincipal  *models.Principal
	}{
		{
			name:           "anonymous request passes through",
			setupMocks:     func(_ *AuthenticatorMock, _ *TokenValidatorMock) {},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "valid api key",
			headers: map[string]string{"X-AUTH-TOKEN": "key"},
			setupMocks: func(a *AuthenticatorMock, _ *TokenValidatorMock) {
				a.On("Authenticate", mock.Anything, "key").
					Return(&models.User{ID: 5, Roles: models.DefaultRoles()}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantPrincipal:  &models.Principal{UserID: 5, Roles: []string{models.RoleUser}},
		},
		{
			name:    "unknown api key",
			headers: map[string]string{"X-AUTH-TOKEN": "nope"},
			setupMocks: func(a *AuthenticatorMock, _ *TokenValidatorMock) {
				a.On("Authenticate", mock.Anything, "nope").Return(nil, models.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "storage failure",
			headers: map[string]string{"X-AUTH-TOKEN": "key"},
			setupMocks: func(a *AuthenticatorMock, _ *TokenValidatorMock) {
				a.On("Authenticate", mock.Anything, "key").Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "invalid authorization prefix",
			headers:        map[string]string{"Authorization": "Basic abc"},
			setupMocks:     func(_ *AuthenticatorMock, _ *TokenValidatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "invalid token",
			headers: map[string]string{"Authorization": "Bearer bad"},
			setupMocks: func(_ *AuthenticatorMock, p *TokenValidatorMock) {
				p.On("ValidateToken", mock.Anything, "bad").
					Return(models.Principal{}, fmt.Errorf("auth.ValidateToken: %w: %w", auth.ErrInvalidCredentials, jwt.ErrInvalidToken)).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "token of deleted user",
			headers: map[string]string{"Authorization": "Bearer orphan"},
			setupMocks: func(_ *AuthenticatorMock, p *TokenValidatorMock) {
				p.On("ValidateToken", mock.Anything, "orphan").
					Return(models.Principal{}, fmt.Errorf("auth.ValidateToken: %w: %w", auth.ErrInvalidCredentials, models.ErrNotFound)).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "token lookup failure",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMocks: func(_ *AuthenticatorMock, p *TokenValidatorMock) {
				p.On("ValidateToken", mock.Anything, "good").Return(models.Principal{}, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:    "valid token",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMocks: func(_ *AuthenticatorMock, p *TokenValidatorMock) {
				p.On("ValidateToken", mock.Anything, "good").
					Return(models.Principal{UserID: 9, Roles: models.AdminRoles()}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantPrincipal:  &models.Principal{UserID: 9, Roles: models.AdminRoles()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, p := new(AuthenticatorMock), new(TokenValidatorMock)
			tt.setupMocks(a, p)

			var got *models.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if principal, ok := middlewarectx.PrincipalFrom(r.Context()); ok {
					got = &principal
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			middlewarectx.Authenticate(newNoopLogger(), a, p)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantPrincipal, got)
			a.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestRequireUserAndAdmin(t *testing.T) {
	user := models.Principal{UserID: 1, Roles: models.DefaultRoles()}
	admin := models.Principal{UserID: 2, Roles: models.AdminRoles()}

	tests := []struct {
		name      string
		principal *models.Principal
		wantUser  int
		wantAdmin int
	}{
		{name: "anonymous", wantUser: http.StatusUnauthorized, wantAdmin: http.StatusUnauthorized},
		{name: "user", principal: &user, wantUser: http.StatusOK, wantAdmin: http.StatusForbidden},
		{name: "admin", principal: &admin, wantUser: http.StatusOK, wantAdmin: http.StatusOK},
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newReq := func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				if tt.principal != nil {
					req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), *tt.principal))
				}
				return req
			}

			rec := httptest.NewRecorder()
			middlewarectx.RequireUser(ok).ServeHTTP(rec, newReq())
			assert.Equal(t, tt.wantUser, rec.Code)

			rec = httptest.NewRecorder()
			middlewarectx.RequireAdmin(ok).ServeHTTP(rec, newReq())
			assert.Equal(t, tt.wantAdmin, rec.Code)
		})
	}
}

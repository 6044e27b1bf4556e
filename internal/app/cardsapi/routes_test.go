package cardsapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cards-api/docs"
	"github.com/magabrotheeeer/cards-api/internal/lib/jwt"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	"github.com/magabrotheeeer/cards-api/internal/services/auth"
	subsvc "github.com/magabrotheeeer/cards-api/internal/services/subscription"
	usersvc "github.com/magabrotheeeer/cards-api/internal/services/user"
)

const (
	userKey  = "user-key"
	adminKey = "admin-key"
)

var accounts = map[string]models.User{
	userKey:  {ID: 1, Email: "user@example.com", APIKey: userKey, Roles: models.DefaultRoles(), SubscriptionID: 1},
	adminKey: {ID: 2, Email: "admin@example.com", APIKey: adminKey, Roles: models.AdminRoles(), SubscriptionID: 1},
}

type fakeUsers struct{}

func (fakeUsers) List(context.Context) ([]models.User, error) {
	return []models.User{accounts[userKey], accounts[adminKey]}, nil
}

func (fakeUsers) ListAccounts(context.Context) ([]usersvc.Account, error) {
	return []usersvc.Account{}, nil
}

func (fakeUsers) Get(_ context.Context, id int64) (*usersvc.Account, error) {
	for _, u := range accounts {
		if u.ID == id {
			return &usersvc.Account{User: u}, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fakeUsers) Register(context.Context, patch.Input) (*usersvc.Account, error) {
	return &usersvc.Account{User: models.User{ID: 3}}, nil
}

func (fakeUsers) AdminUpdate(ctx context.Context, id int64, _ patch.Input) (*usersvc.Account, error) {
	return fakeUsers{}.Get(ctx, id)
}

func (fakeUsers) Delete(context.Context, int64) error { return nil }

func (f fakeUsers) Profile(ctx context.Context, p models.Principal) (*usersvc.Account, error) {
	return f.Get(ctx, p.UserID)
}

func (f fakeUsers) UpdateProfile(ctx context.Context, p models.Principal, _ patch.Input) (*usersvc.Account, error) {
	return f.Get(ctx, p.UserID)
}

func (fakeUsers) Authenticate(_ context.Context, key string) (*models.User, error) {
	u, ok := accounts[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

type fakeCards struct{}

func (fakeCards) List(context.Context) ([]models.Card, error)      { return []models.Card{}, nil }
func (fakeCards) Get(context.Context, int64) (*models.Card, error) { return nil, models.ErrNotFound }
func (fakeCards) Delete(context.Context, int64) error              { return nil }
func (fakeCards) Create(context.Context, patch.Input) (*models.Card, error) {
	return &models.Card{ID: 1}, nil
}
func (fakeCards) Update(context.Context, int64, patch.Input) (*models.Card, error) {
	return &models.Card{ID: 1}, nil
}
func (fakeCards) ListOwned(context.Context, models.Principal) ([]models.Card, error) {
	return []models.Card{}, nil
}
func (fakeCards) GetOwned(context.Context, models.Principal, int64) (*models.Card, error) {
	return nil, models.ErrNotFound
}
func (fakeCards) CreateOwned(_ context.Context, p models.Principal, _ patch.Input) (*models.Card, error) {
	return &models.Card{ID: 1, UserID: p.UserID}, nil
}
func (fakeCards) UpdateOwned(context.Context, models.Principal, int64, patch.Input) (*models.Card, error) {
	return nil, models.ErrNotFound
}
func (fakeCards) DeleteOwned(context.Context, models.Principal, int64) error {
	return models.ErrNotFound
}

type fakeSubscriptions struct{}

func (fakeSubscriptions) List(context.Context) ([]models.Subscription, error) {
	return []models.Subscription{{ID: 1, Name: "Gold", Slogan: "Shine on"}}, nil
}
func (fakeSubscriptions) Get(context.Context, int64) (*models.Subscription, error) {
	return &models.Subscription{ID: 1, Name: "Gold", Slogan: "Shine on"}, nil
}
func (fakeSubscriptions) GetWithUsers(context.Context, int64) (*subsvc.WithUsers, error) {
	return &subsvc.WithUsers{Subscription: models.Subscription{ID: 1}}, nil
}
func (fakeSubscriptions) Create(context.Context, patch.Input) (*models.Subscription, error) {
	return &models.Subscription{ID: 2}, nil
}
func (fakeSubscriptions) Update(context.Context, int64, patch.Input) (*subsvc.WithUsers, error) {
	return &subsvc.WithUsers{}, nil
}
func (fakeSubscriptions) Delete(context.Context, int64) error { return models.ErrHasUsers }

type pingOK struct{}

func (pingOK) Ping(context.Context) error { return nil }

func newRouter(t *testing.T) *chi.Mux {
	t.Helper()
	return newRouterWithRepo(t, newUserRepo())
}

func newRouterWithRepo(t *testing.T, repo *userRepo) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	RegisterRoutes(r, logger, Services{
		Users:         fakeUsers{},
		Cards:         fakeCards{},
		Subscriptions: fakeSubscriptions{},
		Auth:          auth.NewAuthService(repo, jwt.NewJWTMaker("secret", time.Hour)),
		Storage:       pingOK{},
	}, Options{
		AllowedOrigins:  []string{"*"},
		RPS:             100,
		Burst:           100,
		SignupPerMinute: 100,
		TokenTTL:        time.Hour,
		Registry:        prometheus.NewRegistry(),
	})
	return r
}

// userRepo хранилище учётных записей, из которого выпускаются и проверяются токены.
type userRepo struct {
	users map[string]models.User
}

func newUserRepo() *userRepo {
	users := make(map[string]models.User, len(accounts))
	for k, u := range accounts {
		users[k] = u
	}
	return &userRepo{users: users}
}

func (r *userRepo) GetUserByAPIKey(_ context.Context, key string) (*models.User, error) {
	u, ok := r.users[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetUser(_ context.Context, id int64) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func TestRoutes_Access(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		body           string
		expectedStatus int
	}{
		{name: "public user list", method: http.MethodGet, path: "/api/users", expectedStatus: http.StatusOK},
		{name: "public subscription", method: http.MethodGet, path: "/api/subscriptions/1", expectedStatus: http.StatusOK},
		{name: "signup is anonymous", method: http.MethodPost, path: "/api/users", body: `{}`, expectedStatus: http.StatusCreated},
		{name: "profile needs a caller", method: http.MethodGet, path: "/api/profile", expectedStatus: http.StatusUnauthorized},
		{name: "unknown key", method: http.MethodGet, path: "/api/profile", apiKey: "nope", expectedStatus: http.StatusUnauthorized},
		{name: "profile", method: http.MethodGet, path: "/api/profile", apiKey: userKey, expectedStatus: http.StatusOK},
		{name: "own card of someone else", method: http.MethodDelete, path: "/api/profile/cards/5", apiKey: userKey, expectedStatus: http.StatusNotFound},
		{name: "admin anonymous", method: http.MethodGet, path: "/api/admin/users", expectedStatus: http.StatusUnauthorized},
		{name: "admin as user", method: http.MethodGet, path: "/api/admin/users", apiKey: userKey, expectedStatus: http.StatusForbidden},
		{name: "admin", method: http.MethodGet, path: "/api/admin/users", apiKey: adminKey, expectedStatus: http.StatusOK},
		{name: "delete subscription in use", method: http.MethodDelete, path: "/api/admin/subscriptions/1", apiKey: adminKey, expectedStatus: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/api/nothing", expectedStatus: http.StatusNotFound},
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.apiKey != "" {
				req.Header.Set("X-AUTH-TOKEN", tt.apiKey)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func issueToken(t *testing.T, router http.Handler, apiKey string) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/token",
		strings.NewReader(`{"apiKey":"`+apiKey+`"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func getWithBearer(router http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutes_BearerToken(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		path           string
		afterIssue     func(repo *userRepo)
		expectedStatus int
	}{
		{
			name:           "admin token",
			apiKey:         adminKey,
			path:           "/api/admin/users",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "user token on admin route",
			apiKey:         userKey,
			path:           "/api/admin/users",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin deleted after issue",
			apiKey:         adminKey,
			path:           "/api/admin/users",
			afterIssue:     func(repo *userRepo) { delete(repo.users, adminKey) },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "user deleted after issue",
			apiKey:         userKey,
			path:           "/api/profile",
			afterIssue:     func(repo *userRepo) { delete(repo.users, userKey) },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "admin demoted after issue",
			apiKey: adminKey,
			path:   "/api/admin/users",
			afterIssue: func(repo *userRepo) {
				u := repo.users[adminKey]
				u.Roles = models.DefaultRoles()
				repo.users[adminKey] = u
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newUserRepo()
			router := newRouterWithRepo(t, repo)
			token := issueToken(t, router, tt.apiKey)
			if tt.afterIssue != nil {
				tt.afterIssue(repo)
			}

			w := getWithBearer(router, tt.path, token)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestRoutes_Documented(t *testing.T) {
	var spec struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &spec))

	var routes int
	err := chi.Walk(newRouter(t), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !strings.HasPrefix(route, "/api/") && route != "/health" {
			return nil
		}
		routes++
		_, ok := spec.Paths[route][strings.ToLower(method)]
		assert.True(t, ok, "%s %s is not documented", method, route)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 28, routes)
}

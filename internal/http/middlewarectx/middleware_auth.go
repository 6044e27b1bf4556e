// Package middlewarectx содержит HTTP middleware аутентификации, проверки ролей,
// ограничения частоты запросов и сбора метрик.
//
// Authenticate определяет вызывающего по заголовку X-AUTH-TOKEN (API-ключ) или
// Authorization: Bearer (JWT) и кладёт models.Principal в контекст запроса.
// Запросы без учётных данных пропускаются как анонимные; RequireUser и RequireAdmin
// закрывают маршруты, которым нужен вызывающий.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/services/auth"
)

// HeaderAPIKey — заголовок с API-ключом пользователя.
const HeaderAPIKey = "X-AUTH-TOKEN"

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ вызывающего в контексте.
const PrincipalKey Key = "principal"

// Authenticator находит пользователя по API-ключу.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*models.User, error)
}

// TokenValidator проверяет JWT и возвращает вызывающего.
// Отказ в доступе сообщается ошибкой, оборачивающей auth.ErrInvalidCredentials.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (models.Principal, error)
}

// WithPrincipal возвращает контекст с вызывающим.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom возвращает вызывающего из контекста, если он аутентифицирован.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(models.Principal)
	return p, ok
}

// Authenticate возвращает middleware, который определяет вызывающего.
//
// Неверный ключ или токен дают 401. Отсутствие обоих заголовков не является ошибкой.
func Authenticate(log *slog.Logger, users Authenticator, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if key := r.Header.Get(HeaderAPIKey); key != "" {
				u, err := users.Authenticate(r.Context(), key)
				if errors.Is(err, models.ErrNotFound) {
					log.Info("unknown api key")
					response.Fail(w, r, http.StatusUnauthorized, "invalid api key")
					return
				}
				if err != nil {
					log.Error("failed to authenticate", sl.Err(err))
					response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), models.NewPrincipal(*u))))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("invalid authorization header")
				response.Fail(w, r, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			p, err := tokens.ValidateToken(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
			if errors.Is(err, auth.ErrInvalidCredentials) {
				log.Info("invalid or expired token", sl.Err(err))
				response.Fail(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if err != nil {
				log.Error("failed to validate token", sl.Err(err))
				response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireUser отвечает 401 анонимному вызывающему.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin отвечает 401 анонимному вызывающему и 403 вызывающему без роли ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}
		if !p.IsAdmin() {
			response.Fail(w, r, http.StatusForbidden, response.MsgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package token реализует обмен API-ключа на короткоживущий JWT.
//
// Полученный токен принимается middleware аутентификации в заголовке
// Authorization: Bearer наравне с X-AUTH-TOKEN.
package token

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/services/auth"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

// Request — тело запроса на выпуск токена.
type Request struct {
	APIKey string `json:"apiKey" validate:"notblank,max=255"`
}

// Response — выпущенный токен и время его жизни в секундах.
type Response struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Service выпускает JWT по API-ключу.
type Service interface {
	Login(ctx context.Context, apiKey string) (string, error)
}

// Handler обрабатывает POST /api/token.
type Handler struct {
	log      *slog.Logger
	service  Service
	ttlSec   int64
	validate *validation.Engine
}

// New создает новый Handler. ttlSec сообщается клиенту в ответе.
func New(log *slog.Logger, service Service, ttlSec int64) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		ttlSec:   ttlSec,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Выпуск JWT по API-ключу
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "API-ключ пользователя"
// @Success 200 {object} Response
// @Failure 400 {array} validation.Violation
// @Failure 401 {object} response.ErrorResponse
// @Router /api/token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.token.ServeHTTP"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}
	if violations := h.validate.Validate(req); len(violations) > 0 {
		log.Info("validation failed")
		response.Violations(w, r, violations)
		return
	}

	tok, err := h.service.Login(r.Context(), req.APIKey)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("unknown api key")
		response.Fail(w, r, http.StatusUnauthorized, "invalid api key")
		return
	}
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("token issued")
	response.Write(w, r, http.StatusOK, Response{Token: tok, ExpiresIn: h.ttlSec})
}

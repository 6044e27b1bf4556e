// Package card реализует HTTP-обработчики платёжных карт: административные
// маршруты /api/admin/cards и маршруты владельца /api/profile/cards.
//
// Карта другого пользователя на маршрутах владельца выглядит как отсутствующая (404).
package card

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cards-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
)

// Service описывает бизнес-логику карт.
type Service interface {
	List(ctx context.Context) ([]models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	Create(ctx context.Context, in patch.Input) (*models.Card, error)
	Update(ctx context.Context, id int64, in patch.Input) (*models.Card, error)
	Delete(ctx context.Context, id int64) error

	ListOwned(ctx context.Context, p models.Principal) ([]models.Card, error)
	GetOwned(ctx context.Context, p models.Principal, id int64) (*models.Card, error)
	CreateOwned(ctx context.Context, p models.Principal, in patch.Input) (*models.Card, error)
	UpdateOwned(ctx context.Context, p models.Principal, id int64, in patch.Input) (*models.Card, error)
	DeleteOwned(ctx context.Context, p models.Principal, id int64) error
}

// Handler обрабатывает запросы к картам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// principal достаёт вызывающего или отвечает 401.
func principal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (models.Principal, bool) {
	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		response.Fail(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
	}
	return p, ok
}

// fail отвечает по ошибке сервиса и пишет её в лог с подходящим уровнем.
func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	if response.FromError(w, r, err) == http.StatusInternalServerError {
		log.Error(msg, sl.Err(err))
		return
	}
	log.Info(msg, sl.Err(err))
}

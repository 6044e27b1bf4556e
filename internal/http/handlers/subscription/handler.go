// Package subscription реализует HTTP-обработчики тарифных подписок:
// публичный каталог и административное управление.
package subscription

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	subsvc "github.com/magabrotheeeer/cards-api/internal/services/subscription"
)

// Service описывает бизнес-логику подписок.
type Service interface {
	List(ctx context.Context) ([]models.Subscription, error)
	Get(ctx context.Context, id int64) (*models.Subscription, error)
	GetWithUsers(ctx context.Context, id int64) (*subsvc.WithUsers, error)
	Create(ctx context.Context, in patch.Input) (*models.Subscription, error)
	Update(ctx context.Context, id int64, in patch.Input) (*subsvc.WithUsers, error)
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к подпискам.
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

func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	if response.FromError(w, r, err) == http.StatusInternalServerError {
		log.Error(msg, sl.Err(err))
		return
	}
	log.Info(msg, sl.Err(err))
}

// Package user реализует HTTP-обработчики учётных записей: публичный каталог,
// регистрацию и администрирование пользователей.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	usersvc "github.com/magabrotheeeer/cards-api/internal/services/user"
)

// Service описывает бизнес-логику пользователей, нужную обработчикам.
type Service interface {
	List(ctx context.Context) ([]models.User, error)
	ListAccounts(ctx context.Context) ([]usersvc.Account, error)
	Get(ctx context.Context, id int64) (*usersvc.Account, error)
	Register(ctx context.Context, in patch.Input) (*usersvc.Account, error)
	AdminUpdate(ctx context.Context, id int64, in patch.Input) (*usersvc.Account, error)
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к /api/users и /api/admin/users.
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

func account(acc *usersvc.Account) models.UserAccount {
	return models.NewUserAccount(acc.User, acc.Subscription, acc.Cards)
}

// Package profile реализует HTTP-обработчики учётной записи вызывающего.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cards-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	usersvc "github.com/magabrotheeeer/cards-api/internal/services/user"
)

// Service описывает операции над собственной учётной записью.
type Service interface {
	Profile(ctx context.Context, p models.Principal) (*usersvc.Account, error)
	UpdateProfile(ctx context.Context, p models.Principal, in patch.Input) (*usersvc.Account, error)
}

// Handler обрабатывает запросы к /api/profile.
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

// Get godoc
// @Summary Профиль вызывающего
// @Tags Profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.UserAccount
// @Failure 401 {object} response.ErrorResponse
// @Router /api/profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		response.Fail(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}

	acc, err := h.service.Profile(r.Context(), p)
	if err != nil {
		log.Error("failed to load profile", slog.Int64("user_id", p.UserID), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	response.Write(w, r, http.StatusOK, models.NewUserAccount(acc.User, acc.Subscription, acc.Cards))
}

// Update godoc
// @Summary Частичное обновление профиля
// @Description apiKey через профиль не меняется.
// @Tags Profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.UserAccount
// @Failure 400 {array} validation.Violation
// @Failure 401 {object} response.ErrorResponse
// @Router /api/profile [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.Update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		response.Fail(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}

	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	acc, err := h.service.UpdateProfile(r.Context(), p, in)
	if err != nil {
		if response.FromError(w, r, err) == http.StatusInternalServerError {
			log.Error("failed to update profile", sl.Err(err))
		} else {
			log.Info("profile update rejected", slog.Int64("user_id", p.UserID), sl.Err(err))
		}
		return
	}

	log.Info("profile updated", slog.Int64("user_id", p.UserID))
	response.Write(w, r, http.StatusOK, models.NewUserAccount(acc.User, acc.Subscription, acc.Cards))
}

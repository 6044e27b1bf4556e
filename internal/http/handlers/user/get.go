package user

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Get godoc
// @Summary Карточка пользователя
// @Tags Users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserDetail
// @Failure 404 {object} response.ErrorResponse
// @Router /api/users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	acc, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Info("failed to get user", slog.Int64("id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	response.Write(w, r, http.StatusOK, models.NewUserDetail(acc.User, acc.Subscription, acc.Cards))
}

// AdminGet godoc
// @Summary Учётная запись пользователя
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserAccount
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/users/{id} [get]
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.AdminGet"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	acc, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Info("failed to get user", slog.Int64("id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	response.Write(w, r, http.StatusOK, account(acc))
}

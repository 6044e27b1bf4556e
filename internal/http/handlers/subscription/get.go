package subscription

import (
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Get godoc
// @Summary Подписка по id
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} models.SubscriptionView
// @Failure 404 {object} response.ErrorResponse
// @Router /api/subscriptions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(w, r, log, "failed to get subscription", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewSubscriptionView(*sub))
}

// AdminGet godoc
// @Summary Подписка вместе с пользователями
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID подписки"
// @Success 200 {object} models.SubscriptionAdminView
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/subscriptions/{id} [get]
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.AdminGet"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	res, err := h.service.GetWithUsers(r.Context(), id)
	if err != nil {
		fail(w, r, log, "failed to get subscription", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewSubscriptionAdminView(res.Subscription, res.Users))
}

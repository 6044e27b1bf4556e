package subscription

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Update godoc
// @Summary Частичное обновление подписки
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID подписки"
// @Success 200 {object} models.SubscriptionAdminView
// @Failure 400 {array} validation.Violation
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/subscriptions/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Update"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}
	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	res, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		fail(w, r, log, "subscription update rejected", err)
		return
	}

	log.Info("subscription updated", slog.Int64("id", id))
	response.Write(w, r, http.StatusOK, models.NewSubscriptionAdminView(res.Subscription, res.Users))
}

package subscription

import (
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// List godoc
// @Summary Список подписок
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} models.SubscriptionView
// @Router /api/subscriptions [get]
// @Router /api/admin/subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.List"
	log := h.logger(r, op)

	subs, err := h.service.List(r.Context())
	if err != nil {
		fail(w, r, log, "failed to list subscriptions", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewSubscriptionViews(subs))
}

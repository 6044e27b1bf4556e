package subscription

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Create godoc
// @Summary Создать подписку
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} models.SubscriptionView
// @Failure 400 {array} validation.Violation
// @Router /api/admin/subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Create"
	log := h.logger(r, op)

	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	sub, err := h.service.Create(r.Context(), in)
	if err != nil {
		fail(w, r, log, "subscription rejected", err)
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	response.Write(w, r, http.StatusCreated, models.NewSubscriptionView(*sub))
}

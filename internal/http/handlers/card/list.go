package card

import (
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// List godoc
// @Summary Все карты
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.CardView
// @Router /api/admin/cards [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.List"
	log := h.logger(r, op)

	cards, err := h.service.List(r.Context())
	if err != nil {
		fail(w, r, log, "failed to list cards", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewCardViews(cards))
}

// ListOwned godoc
// @Summary Карты вызывающего
// @Tags Profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.CardView
// @Failure 401 {object} response.ErrorResponse
// @Router /api/profile/cards [get]
func (h *Handler) ListOwned(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.ListOwned"
	log := h.logger(r, op)

	p, ok := principal(w, r, log)
	if !ok {
		return
	}

	cards, err := h.service.ListOwned(r.Context(), p)
	if err != nil {
		fail(w, r, log, "failed to list cards", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewCardViews(cards))
}

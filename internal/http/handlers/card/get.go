package card

import (
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Get godoc
// @Summary Карта по id
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID карты"
// @Success 200 {object} models.CardView
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/cards/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(w, r, log, "failed to get card", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewCardView(*c))
}

// GetOwned godoc
// @Summary Карта вызывающего
// @Tags Profile
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID карты"
// @Success 200 {object} models.CardView
// @Failure 404 {object} response.ErrorResponse
// @Router /api/profile/cards/{id} [get]
func (h *Handler) GetOwned(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.GetOwned"
	log := h.logger(r, op)

	p, ok := principal(w, r, log)
	if !ok {
		return
	}
	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	c, err := h.service.GetOwned(r.Context(), p, id)
	if err != nil {
		fail(w, r, log, "failed to get card", err)
		return
	}
	response.Write(w, r, http.StatusOK, models.NewCardView(*c))
}

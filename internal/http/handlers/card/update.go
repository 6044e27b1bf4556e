package card

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Update godoc
// @Summary Частичное обновление карты
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID карты"
// @Success 200 {object} models.CardView
// @Failure 400 {array} validation.Violation
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/cards/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.Update"
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

	c, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		fail(w, r, log, "card update rejected", err)
		return
	}

	log.Info("card updated", slog.Int64("id", id))
	response.Write(w, r, http.StatusOK, models.NewCardView(*c))
}

// UpdateOwned godoc
// @Summary Частичное обновление карты вызывающего
// @Tags Profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID карты"
// @Success 200 {object} models.CardView
// @Failure 400 {array} validation.Violation
// @Failure 404 {object} response.ErrorResponse
// @Router /api/profile/cards/{id} [patch]
func (h *Handler) UpdateOwned(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.UpdateOwned"
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
	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	c, err := h.service.UpdateOwned(r.Context(), p, id, in)
	if err != nil {
		fail(w, r, log, "card update rejected", err)
		return
	}

	log.Info("card updated", slog.Int64("id", id), slog.Int64("user_id", p.UserID))
	response.Write(w, r, http.StatusOK, models.NewCardView(*c))
}

package card

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
)

// Delete godoc
// @Summary Удаление карты
// @Tags Admin
// @Security ApiKeyAuth
// @Param id path int true "ID карты"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/cards/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		fail(w, r, log, "failed to delete card", err)
		return
	}

	log.Info("card deleted", slog.Int64("id", id))
	response.NoContent(w, r)
}

// DeleteOwned godoc
// @Summary Удаление карты вызывающего
// @Tags Profile
// @Security ApiKeyAuth
// @Param id path int true "ID карты"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/profile/cards/{id} [delete]
func (h *Handler) DeleteOwned(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.DeleteOwned"
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

	if err := h.service.DeleteOwned(r.Context(), p, id); err != nil {
		fail(w, r, log, "failed to delete card", err)
		return
	}

	log.Info("card deleted", slog.Int64("id", id), slog.Int64("user_id", p.UserID))
	response.NoContent(w, r)
}

package subscription

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
)

// Delete godoc
// @Summary Удаление подписки
// @Description Подписку, на которую ссылаются пользователи, удалить нельзя.
// @Tags Admin
// @Security ApiKeyAuth
// @Param id path int true "ID подписки"
// @Success 204
// @Failure 400 {array} validation.Violation
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/subscriptions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		fail(w, r, log, "failed to delete subscription", err)
		return
	}

	log.Info("subscription deleted", slog.Int64("id", id))
	response.NoContent(w, r)
}

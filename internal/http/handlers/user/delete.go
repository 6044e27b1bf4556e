package user

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
)

// Delete godoc
// @Summary Удаление пользователя
// @Description Удаляет пользователя вместе со всеми его картами.
// @Tags Admin
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		log.Info("invalid id", sl.Err(err))
		response.Fail(w, r, http.StatusNotFound, response.MsgNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Info("failed to delete user", slog.Int64("id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("user deleted", slog.Int64("id", id))
	response.NoContent(w, r)
}

package user

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
)

// AdminUpdate godoc
// @Summary Частичное обновление пользователя
// @Description Изменяет только переданные поля, включая apiKey.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserAccount
// @Failure 400 {array} validation.Violation
// @Failure 404 {object} response.ErrorResponse
// @Router /api/admin/users/{id} [patch]
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.AdminUpdate"
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

	acc, err := h.service.AdminUpdate(r.Context(), id, in)
	if err != nil {
		if response.FromError(w, r, err) == http.StatusInternalServerError {
			log.Error("failed to update user", sl.Err(err))
		} else {
			log.Info("update rejected", slog.Int64("id", id), sl.Err(err))
		}
		return
	}

	log.Info("user updated", slog.Int64("id", id))
	response.Write(w, r, http.StatusOK, account(acc))
}

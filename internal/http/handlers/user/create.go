package user

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
)

// Create godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с ролью USER и сгенерированным apiKey.
// @Tags Users
// @Accept json
// @Produce json
// @Success 201 {object} models.UserAccount
// @Failure 400 {array} validation.Violation
// @Router /api/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Create"
	log := h.logger(r, op)

	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	acc, err := h.service.Register(r.Context(), in)
	if err != nil {
		if response.FromError(w, r, err) == http.StatusInternalServerError {
			log.Error("failed to register user", sl.Err(err))
		} else {
			log.Info("user rejected", sl.Err(err))
		}
		return
	}

	log.Info("user registered", slog.Int64("id", acc.User.ID))
	response.Write(w, r, http.StatusCreated, account(acc))
}

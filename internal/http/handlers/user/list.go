package user

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// List godoc
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Success 200 {array} models.UserSummary
// @Router /api/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.List"
	log := h.logger(r, op)

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	response.Write(w, r, http.StatusOK, models.NewUserSummaries(users))
}

// AdminList godoc
// @Summary Список учётных записей
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.UserAccount
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /api/admin/users [get]
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.AdminList"
	log := h.logger(r, op)

	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	res := make([]models.UserAccount, 0, len(accounts))
	for i := range accounts {
		res = append(res, account(&accounts[i]))
	}
	response.Write(w, r, http.StatusOK, res)
}

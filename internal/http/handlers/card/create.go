package card

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/cards-api/internal/http/request"
	"github.com/magabrotheeeer/cards-api/internal/http/response"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// Create godoc
// @Summary Создать карту любому пользователю
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} models.CardView
// @Failure 400 {array} validation.Violation
// @Router /api/admin/cards [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.Create"
	log := h.logger(r, op)

	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		fail(w, r, log, "card rejected", err)
		return
	}

	log.Info("card created", slog.Int64("id", c.ID))
	response.Write(w, r, http.StatusCreated, models.NewCardView(*c))
}

// CreateOwned godoc
// @Summary Создать карту вызывающему
// @Description Владелец карты всегда вызывающий, userId из тела игнорируется.
// @Tags Profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} models.CardView
// @Failure 400 {array} validation.Violation
// @Router /api/profile/cards [post]
func (h *Handler) CreateOwned(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.CreateOwned"
	log := h.logger(r, op)

	p, ok := principal(w, r, log)
	if !ok {
		return
	}
	in, err := request.Body(r)
	if err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, response.MsgDecode)
		return
	}

	c, err := h.service.CreateOwned(r.Context(), p, in)
	if err != nil {
		fail(w, r, log, "card rejected", err)
		return
	}

	log.Info("card created", slog.Int64("id", c.ID), slog.Int64("user_id", p.UserID))
	response.Write(w, r, http.StatusCreated, models.NewCardView(*c))
}

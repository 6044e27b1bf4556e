// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов HTTP‑обработчиков: представлений сущностей, списков нарушений
// валидации и сообщений об ошибках в едином формате.
package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"not found"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Тексты ошибок, которые видит клиент.
const (
	MsgDecode        = "failed to decode request"
	MsgNotFound      = "not found"
	MsgUnauthorized  = "unauthorized"
	MsgForbidden     = "access denied"
	MsgInternal      = "internal service error"
	MsgHasUsers      = "This subscription has users"
	propertyHasUsers = "users"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// Write отдаёт представление сущности с указанным статусом.
func Write(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// Fail отдаёт сообщение об ошибке с указанным статусом.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// NoContent отвечает 204 без тела.
func NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Violations отдаёт 400 с упорядоченным списком нарушений.
func Violations(w http.ResponseWriter, r *http.Request, violations []validation.Violation) {
	if violations == nil {
		violations = []validation.Violation{}
	}
	Write(w, r, http.StatusBadRequest, violations)
}

// FromError переводит ошибку сервиса в HTTP-ответ.
// Возвращает статус, с которым ответил, чтобы обработчик мог выбрать уровень лога.
func FromError(w http.ResponseWriter, r *http.Request, err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		Violations(w, r, verr.Violations)
		return http.StatusBadRequest
	case errors.Is(err, models.ErrHasUsers):
		Violations(w, r, []validation.Violation{{Property: propertyHasUsers, Message: MsgHasUsers}})
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		Fail(w, r, http.StatusNotFound, MsgNotFound)
		return http.StatusNotFound
	default:
		Fail(w, r, http.StatusInternalServerError, MsgInternal)
		return http.StatusInternalServerError
	}
}

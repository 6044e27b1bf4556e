// Package request разбирает параметры пути и тело входящих запросов.
package request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cards-api/internal/patch"
)

// ErrBadID возвращается, когда параметр пути не является положительным целым.
var ErrBadID = errors.New("invalid id in url")

// ID читает параметр пути {id}.
func ID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadID
	}
	return id, nil
}

// Body разбирает тело запроса в набор полей. Тело должно быть JSON-объектом.
func Body(r *http.Request) (patch.Input, error) {
	var in patch.Input
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return in, nil
}

// Package patch применяет разреженный набор полей из тела запроса к сущности-кандидату.
//
// Для каждой операции задаётся явный упорядоченный список пар (имя поля, типизированный
// сеттер). Отсутствующие в запросе поля и поля со значением null не трогаются:
// пропуск поля не означает его очистку.
package patch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/magabrotheeeer/cards-api/internal/validation"
)

// Input — тело запроса, разобранное до уровня отдельных полей.
type Input map[string]json.RawMessage

// Has сообщает, передано ли поле с непустым (не null) значением.
func (in Input) Has(name string) bool {
	raw, ok := in[name]
	return ok && !isNull(raw)
}

// Field связывает имя поля запроса с сеттером сущности T.
type Field[T any] struct {
	Name string
	set  func(ctx context.Context, target *T, raw json.RawMessage) error
}

type typeError struct {
	kind string
}

func (e *typeError) Error() string {
	return "value should be of type " + e.kind
}

// String объявляет обязательное строковое поле.
func String[T any](name string, set func(*T, string)) Field[T] {
	return Field[T]{
		Name: name,
		set: func(_ context.Context, target *T, raw json.RawMessage) error {
			s, err := decodeString(raw)
			if err != nil {
				return err
			}
			set(target, s)
			return nil
		},
	}
}

// OptionalString объявляет необязательное строковое поле, хранящееся как *string.
func OptionalString[T any](name string, set func(*T, *string)) Field[T] {
	return Field[T]{
		Name: name,
		set: func(_ context.Context, target *T, raw json.RawMessage) error {
			s, err := decodeString(raw)
			if err != nil {
				return err
			}
			set(target, &s)
			return nil
		},
	}
}

// Int объявляет целочисленное поле.
func Int[T any](name string, set func(*T, int64)) Field[T] {
	return Field[T]{
		Name: name,
		set: func(_ context.Context, target *T, raw json.RawMessage) error {
			n, err := decodeInt(raw)
			if err != nil {
				return err
			}
			set(target, n)
			return nil
		},
	}
}

// Reference объявляет ссылку на другую сущность по id. Значение применяется,
// только если exists подтверждает наличие сущности; неразрешённый id игнорируется.
func Reference[T any](name string, exists func(ctx context.Context, id int64) (bool, error), set func(*T, int64)) Field[T] {
	return Field[T]{
		Name: name,
		set: func(ctx context.Context, target *T, raw json.RawMessage) error {
			id, err := decodeInt(raw)
			if err != nil {
				return err
			}
			ok, err := exists(ctx, id)
			if err != nil {
				return err
			}
			if ok {
				set(target, id)
			}
			return nil
		},
	}
}

// Apply применяет поля из in к target в порядке объявления fields.
//
// Значения неверного типа не прерывают применение остальных полей и возвращаются
// как нарушения; ошибки поиска ссылок возвращаются как error.
func Apply[T any](ctx context.Context, target *T, in Input, fields []Field[T]) ([]validation.Violation, error) {
	const op = "patch.Apply"

	var res []validation.Violation
	for _, f := range fields {
		raw, ok := in[f.Name]
		if !ok || isNull(raw) {
			continue
		}
		err := f.set(ctx, target, raw)
		if err == nil {
			continue
		}
		var te *typeError
		if errors.As(err, &te) {
			res = append(res, validation.Violation{
				Property: f.Name,
				Message:  validation.TypeMessage(te.kind),
			})
			continue
		}
		return nil, fmt.Errorf("%s: %s: %w", op, f.Name, err)
	}
	return res, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeString принимает JSON-строку или число (номер карты часто приходит числом).
func decodeString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", &typeError{kind: "string"}
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", &typeError{kind: "string"}
	}
	return n.String(), nil
}

// decodeInt принимает JSON-число или строку с целым числом.
func decodeInt(raw json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(raw)
	var text string
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return 0, &typeError{kind: "integer"}
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return 0, &typeError{kind: "integer"}
		}
		text = n.String()
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, &typeError{kind: "integer"}
	}
	return v, nil
}

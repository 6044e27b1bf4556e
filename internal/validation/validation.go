// Package validation реализует декларативную проверку полей сущностей.
//
// Ограничения берутся из тегов validate и проверяются через go-playground/validator.
// В отличие от validator.Struct, Engine не останавливается на первом нарушении поля:
// за один проход срабатывают все правила всех полей, а каждое нарушение
// сообщается под JSON-именем поля.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

const (
	tagNotBlank = "notblank"
	tagRequired = "required"
	tagMax      = "max"
	tagEmail    = "email"
)

const (
	msgNotBlank = "This value should not be blank."
	msgEmail    = "This value is not a valid email address."
	msgInvalid  = "This value is not valid."
)

// Engine проверяет сущности по тегам validate. Не имеет побочных эффектов
// и не обращается к хранилищу.
type Engine struct {
	validate *validator.Validate
}

// New создаёт Engine и регистрирует правило notblank.
func New() *Engine {
	v := validator.New()
	if err := v.RegisterValidation(tagNotBlank, notBlank); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tagNotBlank, err))
	}
	return &Engine{validate: v}
}

// Validate проверяет структуру (или указатель на неё) и возвращает нарушения
// в порядке объявления полей. Пустой результат означает отсутствие ошибок.
func (e *Engine) Validate(s any) []Violation {
	rv := reflect.Indirect(reflect.ValueOf(s))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()

	var res []Violation
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tags, ok := sf.Tag.Lookup("validate")
		if !ok || !sf.IsExported() {
			continue
		}
		res = append(res, e.check(propertyName(sf), rv.Field(i), tags)...)
	}
	return res
}

// Var проверяет одиночное значение по списку правил, например "notblank,max=255".
func (e *Engine) Var(property string, value any, tags string) []Violation {
	return e.check(property, reflect.ValueOf(value), tags)
}

func (e *Engine) check(property string, fv reflect.Value, tags string) []Violation {
	wasPtr := fv.IsValid() && fv.Kind() == reflect.Ptr
	isNil := !fv.IsValid() || (wasPtr && fv.IsNil())
	if wasPtr && !isNil {
		fv = fv.Elem()
	}
	empty := isNil || (fv.Kind() == reflect.String && fv.Len() == 0)

	var res []Violation
	for _, tag := range strings.Split(tags, ",") {
		name, param, _ := strings.Cut(tag, "=")
		switch name {
		case "":
			continue
		case tagRequired:
			// Ненулевой указатель означает, что значение передано, даже если оно равно нулю.
			if isNil || (!wasPtr && fv.IsZero()) {
				res = append(res, Violation{Property: property, Message: msgNotBlank})
			}
			continue
		case tagNotBlank:
			if isNil || e.validate.Var(fv.Interface(), tag) != nil {
				res = append(res, Violation{Property: property, Message: msgNotBlank})
			}
			continue
		}
		if empty {
			continue
		}
		if err := e.validate.Var(fv.Interface(), tag); err != nil {
			res = append(res, Violation{Property: property, Message: message(name, param)})
		}
	}
	return res
}

// TypeMessage возвращает сообщение о несоответствии типа значения, например "integer".
func TypeMessage(kind string) string {
	return fmt.Sprintf("This value should be of type %s.", kind)
}

func message(name, param string) string {
	switch name {
	case tagMax:
		if param == "1" {
			return "This value is too long. It should have 1 character or less."
		}
		return fmt.Sprintf("This value is too long. It should have %s characters or less.", param)
	case tagEmail:
		return msgEmail
	default:
		return msgInvalid
	}
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !field.IsNil()
	default:
		return field.IsValid() && !field.IsZero()
	}
}

func propertyName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

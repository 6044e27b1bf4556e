package validation

import (
	"fmt"
	"strings"
)

// Violation описывает одно нарушение ограничения поля.
// Property — имя поля в том виде, в каком его видит клиент (camelCase).
type Violation struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// Error — отказ в выполнении запроса из-за нарушений валидации или уникальности.
// Violations сохраняют порядок, в котором были обнаружены.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Property, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Collect объединяет списки нарушений в исходном порядке.
// Возвращает *Error, если хотя бы один список не пуст, иначе nil.
func Collect(lists ...[]Violation) error {
	var all []Violation
	for _, l := range lists {
		all = append(all, l...)
	}
	if len(all) == 0 {
		return nil
	}
	return &Error{Violations: all}
}

// Conflict строит нарушение уникальности поля.
func Conflict(property, message string) Violation {
	return Violation{Property: property, Message: message}
}

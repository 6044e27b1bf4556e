package models

import "errors"

var (
	// ErrNotFound возвращается, когда запрошенная сущность отсутствует
	// или не принадлежит вызывающему.
	ErrNotFound = errors.New("not found")
	// ErrHasUsers возвращается при попытке удалить подписку, на которую ссылаются пользователи.
	ErrHasUsers = errors.New("subscription has users")
)

package models

import "slices"

// Principal описывает вызывающего пользователя, определённого middleware аутентификации.
// Передаётся в сервисы явным параметром.
type Principal struct {
	UserID int64
	Roles  []string
}

// NewPrincipal строит Principal по учётной записи пользователя.
func NewPrincipal(u User) Principal {
	return Principal{
		UserID: u.ID,
		Roles:  slices.Clone(u.Roles),
	}
}

// IsAdmin сообщает, обладает ли вызывающий ролью администратора.
func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, RoleAdmin)
}

// Owns сообщает, принадлежит ли карта вызывающему.
func (p Principal) Owns(c Card) bool {
	return c.UserID == p.UserID
}

// Package models содержит доменные сущности сервиса: пользователей, платёжные карты
// и тарифные подписки, а также их JSON-представления для HTTP-слоя.
//
// Теги validate описывают ограничения полей и читаются пакетом validation,
// теги json задают имена свойств, под которыми клиент видит поля и ошибки.
package models

import (
	"slices"
	"strings"
	"time"
)

const (
	// RoleUser — роль любого зарегистрированного пользователя.
	RoleUser = "USER"
	// RoleAdmin — роль администратора.
	RoleAdmin = "ADMIN"
)

// User представляет учётную запись пользователя.
//
// Email и APIKey уникальны среди всех пользователей, APIKey и CreatedAt
// выставляются один раз при создании. SubscriptionID — обязательная ссылка на тариф.
type User struct {
	ID             int64     `json:"id"`
	Firstname      *string   `json:"firstname" validate:"max=255"`
	Lastname       *string   `json:"lastname" validate:"max=255"`
	Email          string    `json:"email" validate:"notblank,max=255,email"`
	APIKey         string    `json:"apiKey" validate:"notblank,max=255"`
	CreatedAt      time.Time `json:"createdAt"`
	Address        *string   `json:"address" validate:"max=255"`
	Country        *string   `json:"country" validate:"max=255"`
	Roles          []string  `json:"roles"`
	SubscriptionID int64     `json:"subscriptionId" validate:"required"`
}

// DefaultRoles возвращает набор ролей нового пользователя.
func DefaultRoles() []string {
	return []string{RoleUser}
}

// AdminRoles возвращает набор ролей администратора.
func AdminRoles() []string {
	return []string{RoleUser, RoleAdmin}
}

// HasRole сообщает, есть ли у пользователя указанная роль.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// JoinRoles сериализует роли в простой список через запятую для хранения в БД.
func JoinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// SplitRoles разбирает сохранённый список ролей.
func SplitRoles(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

package models

// Card представляет платёжную карту, принадлежащую пользователю.
//
// CreditCardNumber уникален среди всех карт, UserID обязателен: карта
// никогда не существует без владельца.
type Card struct {
	ID               int64  `json:"id"`
	Name             string `json:"name" validate:"notblank,max=255"`
	CreditCardType   string `json:"creditCardType" validate:"notblank,max=255"`
	CreditCardNumber string `json:"creditCardNumber" validate:"notblank,max=255"`
	CurrencyCode     string `json:"currencyCode" validate:"notblank,max=3"`
	Value            *int64 `json:"value" validate:"required"`
	UserID           int64  `json:"userId" validate:"required"`
}

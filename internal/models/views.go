package models

import "time"

// UserSummary — краткое публичное представление пользователя в списках.
type UserSummary struct {
	ID        int64   `json:"id"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     string  `json:"email"`
}

// UserDetail — публичная карточка пользователя.
type UserDetail struct {
	UserSummary
	Address      *string           `json:"address"`
	Country      *string           `json:"country"`
	Subscription *SubscriptionView `json:"subscription"`
	Cards        []CardSummary     `json:"cards"`
}

// UserAccount — полное представление учётной записи для администратора
// и для самого владельца (профиль). Включает apiKey.
type UserAccount struct {
	UserDetail
	APIKey         string    `json:"apiKey"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"createdAt"`
	SubscriptionID int64     `json:"subscriptionId"`
}

// CardSummary — краткое представление карты без реквизитов.
type CardSummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CreditCardType string `json:"creditCardType"`
}

// CardView — полное представление карты.
type CardView struct {
	CardSummary
	CreditCardNumber string `json:"creditCardNumber"`
	CurrencyCode     string `json:"currencyCode"`
	Value            *int64 `json:"value"`
	UserID           int64  `json:"userId"`
}

// SubscriptionView — публичное представление подписки.
type SubscriptionView struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Slogan string  `json:"slogan"`
	URL    *string `json:"url"`
}

// SubscriptionAdminView — представление подписки для администратора вместе с пользователями.
type SubscriptionAdminView struct {
	SubscriptionView
	Users []UserSummary `json:"users"`
}

// NewUserSummary строит UserSummary.
func NewUserSummary(u User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
	}
}

// NewUserSummaries строит список UserSummary.
func NewUserSummaries(users []User) []UserSummary {
	res := make([]UserSummary, 0, len(users))
	for _, u := range users {
		res = append(res, NewUserSummary(u))
	}
	return res
}

// NewUserDetail строит публичную карточку пользователя. sub может быть nil.
func NewUserDetail(u User, sub *Subscription, cards []Card) UserDetail {
	d := UserDetail{
		UserSummary: NewUserSummary(u),
		Address:     u.Address,
		Country:     u.Country,
		Cards:       NewCardSummaries(cards),
	}
	if sub != nil {
		v := NewSubscriptionView(*sub)
		d.Subscription = &v
	}
	return d
}

// NewUserAccount строит полное представление учётной записи.
func NewUserAccount(u User, sub *Subscription, cards []Card) UserAccount {
	return UserAccount{
		UserDetail:     NewUserDetail(u, sub, cards),
		APIKey:         u.APIKey,
		Roles:          u.Roles,
		CreatedAt:      u.CreatedAt,
		SubscriptionID: u.SubscriptionID,
	}
}

// NewCardSummary строит CardSummary.
func NewCardSummary(c Card) CardSummary {
	return CardSummary{
		ID:             c.ID,
		Name:           c.Name,
		CreditCardType: c.CreditCardType,
	}
}

// NewCardSummaries строит список CardSummary.
func NewCardSummaries(cards []Card) []CardSummary {
	res := make([]CardSummary, 0, len(cards))
	for _, c := range cards {
		res = append(res, NewCardSummary(c))
	}
	return res
}

// NewCardView строит CardView.
func NewCardView(c Card) CardView {
	return CardView{
		CardSummary:      NewCardSummary(c),
		CreditCardNumber: c.CreditCardNumber,
		CurrencyCode:     c.CurrencyCode,
		Value:            c.Value,
		UserID:           c.UserID,
	}
}

// NewCardViews строит список CardView.
func NewCardViews(cards []Card) []CardView {
	res := make([]CardView, 0, len(cards))
	for _, c := range cards {
		res = append(res, NewCardView(c))
	}
	return res
}

// NewSubscriptionView строит SubscriptionView.
func NewSubscriptionView(s Subscription) SubscriptionView {
	return SubscriptionView{
		ID:     s.ID,
		Name:   s.Name,
		Slogan: s.Slogan,
		URL:    s.URL,
	}
}

// NewSubscriptionViews строит список SubscriptionView.
func NewSubscriptionViews(subs []Subscription) []SubscriptionView {
	res := make([]SubscriptionView, 0, len(subs))
	for _, s := range subs {
		res = append(res, NewSubscriptionView(s))
	}
	return res
}

// NewSubscriptionAdminView строит SubscriptionAdminView.
func NewSubscriptionAdminView(s Subscription, users []User) SubscriptionAdminView {
	return SubscriptionAdminView{
		SubscriptionView: NewSubscriptionView(s),
		Users:            NewUserSummaries(users),
	}
}

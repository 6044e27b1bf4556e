package models

// Subscription представляет тарифный план, на который ссылаются пользователи.
// Подписку нельзя удалить, пока на неё ссылается хотя бы один пользователь.
type Subscription struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name" validate:"notblank,max=255"`
	Slogan string  `json:"slogan" validate:"notblank,max=255"`
	URL    *string `json:"url" validate:"max=255"`
}

// Package models содержит доменные структуры клубного организатора:
// клубы, членства, приглашения, профили и производные модели подписки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Club представляет клуб — общую сущность, вокруг которой строятся
// членства и игровые сессии. Название уникально без учёта регистра.
type Club struct {
	ID        string     // Уникальный идентификатор клуба
	Name      string     // Название клуба (уникальное, без учёта регистра)
	Bio       string     // Краткое описание клуба (опционально)
	LogoURL   string     // Ссылка на логотип (опционально)
	OwnerUID  string     // Идентификатор профиля владельца
	CreatedAt time.Time  // Дата создания
	UpdatedAt time.Time  // Дата последнего изменения
}

// DummyClub используется для приёма данных из JSON-запроса на создание клуба,
// прежде чем конвертировать их в Club. Поля проверяются валидатором,
// дополнительные ограничения (длина названия, набор символов) — бизнес-логикой.
type DummyClub struct {
	Name    string `json:"name" validate:"required,min=3,max=50"` // Название клуба
	Bio     string `json:"bio" validate:"omitempty,max=200"`      // Описание (<=200 символов)
	LogoURL string `json:"logo_url" validate:"omitempty,url"`     // Ссылка на логотип
}

// DummyClubUpdate используется для приёма данных из JSON-запроса на изменение клуба.
// Все поля опциональны: nil означает «поле не менять».
type DummyClubUpdate struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=50"`
	Bio     *string `json:"bio" validate:"omitempty,max=200"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

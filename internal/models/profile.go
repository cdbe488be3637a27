package models

import "time"

// Tier определяет уровень подписки профиля.
type Tier string

// Возможные уровни подписки.
const (
	TierFree     Tier = "free"
	TierPersonal Tier = "personal"
	TierClub     Tier = "club"
)

// IsPaid сообщает, относится ли уровень к оплачиваемым.
func (t Tier) IsPaid() bool {
	return t == TierPersonal || t == TierClub
}

// Profile представляет зарегистрированного пользователя приложения.
// Поля подписки (уровень, пробный период, месячный счётчик сессий)
// служат исходными данными для вычисления SubscriptionStatus.
type Profile struct {
	UID                   string     // Уникальный идентификатор профиля
	Email                 string     // Электронная почта (уникальная)
	Username              string     // Имя пользователя (уникальное)
	PasswordHash          string     // Хэш пароля
	CurrentTier           Tier       // Текущий уровень подписки
	TrialEndDate          *time.Time // Дата окончания пробного периода, nil — периода не было
	SessionCountMonthly   int        // Количество сессий, созданных в текущем месяце
	LastSessionCountReset time.Time  // Дата последнего сброса месячного счётчика
	CreatedAt             time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных из JSON-запроса на регистрацию.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных из JSON-запроса на вход.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

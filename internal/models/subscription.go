package models

// FreeTierMonthlySessions — месячный лимит сессий для бесплатного уровня.
const FreeTierMonthlySessions = 4

// Unlimited обозначает отсутствие лимита в полях FeatureAccess.
const Unlimited = -1

// SubscriptionStatus — вычисляемое состояние подписки профиля.
// Не хранится в базе как единое целое: собирается из уровня подписки,
// даты окончания пробного периода и месячного счётчика сессий.
type SubscriptionStatus struct {
	Tier                       Tier `json:"tier"`                          // Номинальный уровень подписки
	IsTrialActive              bool `json:"is_trial_active"`               // Действует ли пробный период
	TrialDaysRemaining         int  `json:"trial_days_remaining"`          // Сколько дней пробного периода осталось (>=0)
	SessionsUsedThisMonth      int  `json:"sessions_used_this_month"`      // Сессий создано в текущем месяце (>=0)
	SessionsRemainingThisMonth int  `json:"sessions_remaining_this_month"` // Остаток месячного лимита (имеет смысл для free)
}

// FeatureAccess — производная матрица доступа к возможностям приложения.
// Чистая проекция SubscriptionStatus, никогда не сохраняется.
// Значение Unlimited (-1) в числовых полях означает отсутствие лимита.
type FeatureAccess struct {
	MaxCourts              int  `json:"max_courts"`
	MaxSessionsPerMonth    int  `json:"max_sessions_per_month"`
	CanCreateSession       bool `json:"can_create_session"`
	CanImportExternal      bool `json:"can_import_external"`
	MaxClubs               int  `json:"max_clubs"`
	CanCreateMultipleClubs bool `json:"can_create_multiple_clubs"`
}

package models

// SimulatorState — подменное состояние подписки и клубной роли для
// тестовых учётных записей. Хранится одним JSON-значением на identity
// в клиентском key-value хранилище и никогда не попадает в общую базу.
type SimulatorState struct {
	Enabled      bool                     `json:"enabled"`
	Subscription SimulatedSubscription    `json:"subscription"`
	ClubRole     SimulatedClubRole        `json:"club_role"`
}

// SimulatedSubscription — подменные поля состояния подписки.
type SimulatedSubscription struct {
	Tier                  Tier `json:"tier"`
	IsTrialActive         bool `json:"is_trial_active"`
	TrialDaysRemaining    int  `json:"trial_days_remaining"`
	SessionsUsedThisMonth int  `json:"sessions_used_this_month"`
}

// SimulatedClubRole — подменные поля клубной роли.
type SimulatedClubRole struct {
	ClubID string           `json:"club_id"`
	Role   MembershipRole   `json:"role"`
	Status MembershipStatus `json:"status"`
}

// DefaultSimulatorState возвращает состояние по умолчанию:
// симулятор выключен, подписка — бесплатный уровень без пробного периода.
func DefaultSimulatorState() SimulatorState {
	return SimulatorState{
		Enabled: false,
		Subscription: SimulatedSubscription{
			Tier: TierFree,
		},
		ClubRole: SimulatedClubRole{
			Role:   RoleMember,
			Status: StatusActive,
		},
	}
}

// DummySimulatorUpdate используется для приёма данных из JSON-запроса на
// частичное обновление состояния симулятора. nil — поле не менять.
type DummySimulatorUpdate struct {
	Enabled               *bool   `json:"enabled"`
	Tier                  *string `json:"tier" validate:"omitempty,oneof=free personal club"`
	IsTrialActive         *bool   `json:"is_trial_active"`
	TrialDaysRemaining    *int    `json:"trial_days_remaining" validate:"omitempty,gte=0"`
	SessionsUsedThisMonth *int    `json:"sessions_used_this_month" validate:"omitempty,gte=0"`
	ClubID                *string `json:"club_id"`
	ClubRole              *string `json:"club_role" validate:"omitempty,oneof=owner admin member"`
	ClubStatus            *string `json:"club_status" validate:"omitempty,oneof=active pending removed"`
}

// DummyPreset используется для приёма данных из JSON-запроса на применение пресета.
type DummyPreset struct {
	Name string `json:"name" validate:"required"`
}

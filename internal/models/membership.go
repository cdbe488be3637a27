package models

import "time"

// MembershipRole определяет роль участника внутри клуба.
type MembershipRole string

// Возможные роли участника клуба. Роль owner назначается один раз
// при создании клуба и не изменяется через обычные переходы ролей.
const (
	RoleOwner  MembershipRole = "owner"
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
)

// Rank возвращает числовой ранг роли для сортировки списков участников:
// owner < admin < member.
func (r MembershipRole) Rank() int {
	switch r {
	case RoleOwner:
		return 0
	case RoleAdmin:
		return 1
	default:
		return 2
	}
}

// MembershipStatus определяет состояние членства в клубе.
type MembershipStatus string

// Возможные статусы членства. Статус pending отличается и от active,
// и от removed, поэтому состояние хранится перечислением, а не флагом удаления.
const (
	StatusActive  MembershipStatus = "active"
	StatusPending MembershipStatus = "pending"
	StatusRemoved MembershipStatus = "removed"
)

// Membership представляет членство профиля в клубе.
// Пара (club_id, user_uid) уникальна среди неудалённых членств,
// а активное членство с ролью owner в клубе ровно одно.
type Membership struct {
	ID       string           // Уникальный идентификатор членства
	ClubID   string           // Идентификатор клуба
	UserUID  string           // Идентификатор профиля участника
	Role     MembershipRole   // Роль участника в клубе
	Status   MembershipStatus // Статус членства
	JoinedAt time.Time        // Дата вступления
}

// DummyRoleUpdate используется для приёма данных из JSON-запроса на смену роли.
// Допустимы только admin и member: назначить owner через этот путь нельзя.
type DummyRoleUpdate struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

package models

import "time"

// InvitationStatus определяет состояние приглашения в клуб.
type InvitationStatus string

// Возможные статусы приглашения.
const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// InviteTarget — адресат приглашения: либо зарегистрированный профиль,
// либо адрес электронной почты. Конструкторы InviteByUser и InviteByEmail
// гарантируют, что заполнено ровно одно из двух полей.
type InviteTarget struct {
	userUID string
	email   string
}

// InviteByUser возвращает адресата-профиль по его идентификатору.
func InviteByUser(userUID string) InviteTarget {
	return InviteTarget{userUID: userUID}
}

// InviteByEmail возвращает адресата по адресу электронной почты.
func InviteByEmail(email string) InviteTarget {
	return InviteTarget{email: email}
}

// UserUID возвращает идентификатор профиля адресата и признак того,
// что приглашение адресовано профилю.
func (t InviteTarget) UserUID() (string, bool) {
	return t.userUID, t.userUID != ""
}

// Email возвращает адрес почты адресата и признак того,
// что приглашение адресовано по почте.
func (t InviteTarget) Email() (string, bool) {
	return t.email, t.email != ""
}

// IsZero сообщает, что адресат не задан.
func (t InviteTarget) IsZero() bool {
	return t.userUID == "" && t.email == ""
}

// Invitation представляет приглашение в клуб. Для пары (клуб, адресат)
// одновременно существует не более одного приглашения в статусе pending.
type Invitation struct {
	ID              string           // Уникальный идентификатор приглашения
	ClubID          string           // Идентификатор клуба
	InvitedBy       string           // Идентификатор пригласившего профиля
	InvitedUserUID  string           // Идентификатор приглашённого профиля (если задан)
	InvitedEmail    string           // Почта приглашённого (если задана)
	Status          InvitationStatus // Статус приглашения
	CreatedAt       time.Time        // Дата создания
}

// Target возвращает адресата приглашения как тип-сумму.
func (i Invitation) Target() InviteTarget {
	if i.InvitedUserUID != "" {
		return InviteByUser(i.InvitedUserUID)
	}
	return InviteByEmail(i.InvitedEmail)
}

// DummyInvitation используется для приёма данных из JSON-запроса на приглашение.
// Должно быть заполнено ровно одно из полей, это проверяет бизнес-логика.
type DummyInvitation struct {
	InvitedUserUID string `json:"invited_user_uid" validate:"omitempty,uuid"`
	InvitedEmail   string `json:"invited_email" validate:"omitempty,email"`
}

package models

import (
	"errors"
	"net/http"
)

// Доменные ошибки ядра. Сервисы возвращают их обёрнутыми через
// fmt.Errorf("%s: %w", op, err), обработчики сопоставляют через errors.Is.
var (
	// Ошибки валидации входных данных: отклоняются до любой записи.

	// ErrInvalidName возвращается при некорректном названии клуба.
	ErrInvalidName = errors.New("invalid club name")
	// ErrInvalidBio возвращается при слишком длинном описании клуба.
	ErrInvalidBio = errors.New("invalid club bio")
	// ErrInvalidTarget возвращается, когда у приглашения не задан ровно один адресат.
	ErrInvalidTarget = errors.New("invitation must target exactly one of user or email")
	// ErrInvalidRole возвращается при попытке назначить недопустимую роль.
	ErrInvalidRole = errors.New("invalid membership role")
	// ErrUnknownPreset возвращается при неизвестном имени пресета симулятора.
	ErrUnknownPreset = errors.New("unknown simulator preset")

	// Нарушения бизнес-правил: обнаруживаются предварительной проверкой,
	// частичного состояния после них не остаётся.

	// ErrQuotaExceeded возвращается, когда владелец уже имеет максимум клубов.
	ErrQuotaExceeded = errors.New("club quota exceeded: up to 3 clubs")
	// ErrNameConflict возвращается, когда название клуба уже занято (без учёта регистра).
	ErrNameConflict = errors.New("club name already taken")
	// ErrAlreadyMember возвращается при приглашении действующего участника.
	ErrAlreadyMember = errors.New("user is already an active member")
	// ErrAlreadyPending возвращается при приглашении участника с ожидающим членством.
	ErrAlreadyPending = errors.New("user already has a pending membership")
	// ErrDuplicateInvitation возвращается при повторном приглашении того же адресата.
	ErrDuplicateInvitation = errors.New("pending invitation already exists")

	// Структурные запреты.

	// ErrOwnerCannotLeave возвращается, когда владелец пытается покинуть клуб:
	// владелец выходит из клуба только удалив его.
	ErrOwnerCannotLeave = errors.New("owner cannot leave the club: transfer ownership or delete the club")
	// ErrOwnerExists возвращается при попытке прикрепить второго владельца к клубу.
	ErrOwnerExists = errors.New("club already has an owner membership")

	// Ошибки согласованности: возникают только на многошаговом пути создания клуба.

	// ErrRollbackPerformed означает, что создание клуба откатилось начисто:
	// ни строки клуба, ни членства владельца не существует.
	ErrRollbackPerformed = errors.New("club creation failed, rollback performed")
	// ErrRollbackFailed означает, что компенсирующее удаление не удалось:
	// в базе осталась строка клуба без членства владельца, требуется вмешательство.
	ErrRollbackFailed = errors.New("club creation failed and rollback failed: orphan club row remains")

	// Отсутствующие ресурсы.

	// ErrClubNotFound возвращается, когда клуб не найден.
	ErrClubNotFound = errors.New("club not found")
	// ErrMembershipNotFound возвращается, когда членство не найдено.
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrProfileNotFound возвращается, когда профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ErrorCode представляет машиночитаемый код ошибки API.
type ErrorCode string

// Коды ошибок API.
const (
	CodeInvalidName         ErrorCode = "INVALID_NAME"
	CodeInvalidBio          ErrorCode = "INVALID_BIO"
	CodeInvalidTarget       ErrorCode = "INVALID_TARGET"
	CodeInvalidRole         ErrorCode = "INVALID_ROLE"
	CodeUnknownPreset       ErrorCode = "UNKNOWN_PRESET"
	CodeQuotaExceeded       ErrorCode = "QUOTA_EXCEEDED"
	CodeNameConflict        ErrorCode = "NAME_CONFLICT"
	CodeAlreadyMember       ErrorCode = "ALREADY_MEMBER"
	CodeAlreadyPending      ErrorCode = "ALREADY_PENDING"
	CodeDuplicateInvitation ErrorCode = "DUPLICATE_INVITATION"
	CodeOwnerCannotLeave    ErrorCode = "OWNER_CANNOT_LEAVE"
	CodeRollbackPerformed   ErrorCode = "ROLLBACK_PERFORMED"
	CodeRollbackFailed      ErrorCode = "ROLLBACK_FAILED"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInternal            ErrorCode = "INTERNAL"
)

// MapErrorToCode преобразует доменную ошибку в код ошибки API.
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidName):
		return CodeInvalidName
	case errors.Is(err, ErrInvalidBio):
		return CodeInvalidBio
	case errors.Is(err, ErrInvalidTarget):
		return CodeInvalidTarget
	case errors.Is(err, ErrInvalidRole):
		return CodeInvalidRole
	case errors.Is(err, ErrUnknownPreset):
		return CodeUnknownPreset
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, ErrNameConflict):
		return CodeNameConflict
	case errors.Is(err, ErrAlreadyMember):
		return CodeAlreadyMember
	case errors.Is(err, ErrAlreadyPending):
		return CodeAlreadyPending
	case errors.Is(err, ErrDuplicateInvitation):
		return CodeDuplicateInvitation
	case errors.Is(err, ErrOwnerCannotLeave):
		return CodeOwnerCannotLeave
	case errors.Is(err, ErrRollbackFailed):
		return CodeRollbackFailed
	case errors.Is(err, ErrRollbackPerformed):
		return CodeRollbackPerformed
	case errors.Is(err, ErrClubNotFound), errors.Is(err, ErrMembershipNotFound),
		errors.Is(err, ErrProfileNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// MapErrorToStatus преобразует доменную ошибку в HTTP-статус ответа.
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidBio),
		errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrInvalidRole):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrNameConflict),
		errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrAlreadyPending),
		errors.Is(err, ErrDuplicateInvitation), errors.Is(err, ErrOwnerExists):
		return http.StatusConflict
	case errors.Is(err, ErrOwnerCannotLeave):
		return http.StatusForbidden
	case errors.Is(err, ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, ErrClubNotFound), errors.Is(err, ErrMembershipNotFound),
		errors.Is(err, ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

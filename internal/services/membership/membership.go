// Package membership содержит бизнес-логику реестра членств клуба:
// прикрепление владельца, переходы ролей, мягкое удаление, выход из клуба
// и приглашения.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/metrics"
	"github.com/rackethub/club-organizer/internal/models"
	"github.com/rackethub/club-organizer/internal/rabbitmq"
)

// Repository определяет методы хранилища, необходимые реестру членств.
type Repository interface {
	// GetClub возвращает клуб по ID.
	GetClub(ctx context.Context, id string) (*models.Club, error)
	// CreateMembership вставляет членство с заданными ролью и статусом.
	CreateMembership(ctx context.Context, clubID, userUID string,
		role models.MembershipRole, status models.MembershipStatus) (*models.Membership, error)
	// GetMembership возвращает членство по ID.
	GetMembership(ctx context.Context, id string) (*models.Membership, error)
	// GetMembershipByClubUser возвращает неудалённое членство профиля в клубе.
	GetMembershipByClubUser(ctx context.Context, clubID, userUID string) (*models.Membership, error)
	// OwnerMembershipExists проверяет наличие активного членства-владельца.
	OwnerMembershipExists(ctx context.Context, clubID string) (bool, error)
	// UpdateMembershipRole меняет роль членства.
	UpdateMembershipRole(ctx context.Context, id string, role models.MembershipRole) (*models.Membership, error)
	// UpdateMembershipStatus меняет статус членства, возвращает число изменённых строк.
	UpdateMembershipStatus(ctx context.Context, id string, status models.MembershipStatus) (int, error)
	// ListMembers возвращает членства клуба в контрактном порядке.
	ListMembers(ctx context.Context, clubID string) ([]*models.Membership, error)
	// PendingInvitationExists проверяет наличие ожидающего приглашения адресату.
	PendingInvitationExists(ctx context.Context, clubID string, target models.InviteTarget) (bool, error)
	// CreateInvitation вставляет приглашение в статусе pending.
	CreateInvitation(ctx context.Context, clubID, invitedBy string, target models.InviteTarget) (*models.Invitation, error)
}

// EventPublisher публикует события клубов во внешнюю очередь уведомлений.
type EventPublisher interface {
	PublishInvitationCreated(event rabbitmq.InvitationEvent) error
}

// Registry реализует реестр членств клубов.
type Registry struct {
	repo   Repository
	events EventPublisher
	log    *slog.Logger
}

// NewRegistry создает новый Registry. events может быть nil,
// тогда события приглашений не публикуются.
func NewRegistry(repo Repository, events EventPublisher, log *slog.Logger) *Registry {
	return &Registry{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// AttachOwner прикрепляет владельца как активное членство с ролью owner.
// Защитная проверка наличия владельца недостижима при корректной
// последовательности создания клуба, но оставлена намеренно.
func (r *Registry) AttachOwner(ctx context.Context, clubID, userUID string) (*models.Membership, error) {
	const op = "membership.AttachOwner"

	exists, err := r.repo.OwnerMembershipExists(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, models.ErrOwnerExists)
	}

	m, err := r.repo.CreateMembership(ctx, clubID, userUID, models.RoleOwner, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// UpdateRole меняет роль членства. Допустимы только admin и member;
// роль owner назначается единожды при создании клуба и не меняется,
// членство владельца через этот путь не трогается.
func (r *Registry) UpdateRole(ctx context.Context, membershipID string, role models.MembershipRole) (*models.Membership, error) {
	const op = "membership.UpdateRole"

	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidRole)
	}

	current, err := r.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.Role == models.RoleOwner {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidRole)
	}

	m, err := r.repo.UpdateMembershipRole(ctx, membershipID, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// Remove мягко удаляет членство: статус переводится в removed.
// Повторное удаление уже удалённого членства — наблюдаемый no-op.
func (r *Registry) Remove(ctx context.Context, membershipID string) error {
	const op = "membership.Remove"

	current, err := r.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current.Status == models.StatusRemoved {
		return nil
	}

	if _, err = r.repo.UpdateMembershipStatus(ctx, membershipID, models.StatusRemoved); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Leave выводит профиль из клуба мягким удалением его членства.
// Владелец покинуть клуб не может: пути передачи владения нет,
// владелец выходит из клуба только удалив его.
func (r *Registry) Leave(ctx context.Context, clubID, userUID string) error {
	const op = "membership.Leave"

	club, err := r.repo.GetClub(ctx, clubID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if club.OwnerUID == userUID {
		return fmt.Errorf("%s: %w", op, models.ErrOwnerCannotLeave)
	}

	m, err := r.repo.GetMembershipByClubUser(ctx, clubID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = r.repo.UpdateMembershipStatus(ctx, m.ID, models.StatusRemoved); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invite создаёт приглашение в клуб. Адресат — ровно один: профиль или почта.
// Действующий участник отклоняется с ErrAlreadyMember, ожидающий —
// с ErrAlreadyPending, повторное приглашение — с ErrDuplicateInvitation.
func (r *Registry) Invite(ctx context.Context, clubID, inviterUID string, target models.InviteTarget) (*models.Invitation, error) {
	const op = "membership.Invite"

	if target.IsZero() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidTarget)
	}

	if uid, ok := target.UserUID(); ok {
		existing, err := r.repo.GetMembershipByClubUser(ctx, clubID, uid)
		if err != nil && !errors.Is(err, models.ErrMembershipNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if existing != nil {
			switch existing.Status {
			case models.StatusActive:
				return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyMember)
			case models.StatusPending:
				return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyPending)
			}
		}
	}

	exists, err := r.repo.PendingInvitationExists(ctx, clubID, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateInvitation)
	}

	inv, err := r.repo.CreateInvitation(ctx, clubID, inviterUID, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.InvitationsCreated.Inc()

	if r.events != nil {
		event := rabbitmq.InvitationEvent{
			InvitationID:   inv.ID,
			ClubID:         inv.ClubID,
			InvitedBy:      inv.InvitedBy,
			InvitedUserUID: inv.InvitedUserUID,
			InvitedEmail:   inv.InvitedEmail,
		}
		// Строка приглашения первична, публикация события — по возможности.
		if err := r.events.PublishInvitationCreated(event); err != nil {
			r.log.Error("failed to publish invitation event", sl.Err(err))
		}
	}

	return inv, nil
}

// ListMembers возвращает неудалённых участников клуба в контрактном порядке:
// по рангу роли (owner, admin, member), затем по дате вступления.
func (r *Registry) ListMembers(ctx context.Context, clubID string) ([]*models.Membership, error) {
	const op = "membership.ListMembers"

	members, err := r.repo.ListMembers(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return members, nil
}

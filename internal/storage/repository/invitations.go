package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rackethub/club-organizer/internal/models"
)

// CreateInvitation вставляет приглашение в статусе pending.
// Повторное приглашение того же адресата отбивается частичным уникальным
// индексом и транслируется в ErrDuplicateInvitation.
func (s *Storage) CreateInvitation(ctx context.Context, clubID, invitedBy string,
	target models.InviteTarget) (*models.Invitation, error) {
	const op = "storage.CreateInvitation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var invitedUserUID, invitedEmail sql.NullString
	if uid, ok := target.UserUID(); ok {
		invitedUserUID = sql.NullString{String: uid, Valid: true}
	}
	if email, ok := target.Email(); ok {
		invitedEmail = sql.NullString{String: email, Valid: true}
	}

	query := `INSERT INTO club_invitations (club_id, invited_by, invited_user_uid, invited_email, status)
			  VALUES ($1, $2, $3, $4, 'pending')
			  RETURNING id, club_id, invited_by, invited_user_uid, invited_email, status, created_at`
	inv := &models.Invitation{}
	var outUserUID, outEmail sql.NullString
	err := s.DB.QueryRowContext(ctx, query, clubID, invitedBy, invitedUserUID, invitedEmail).Scan(
		&inv.ID, &inv.ClubID, &inv.InvitedBy, &outUserUID, &outEmail, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateInvitation)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inv.InvitedUserUID = outUserUID.String
	inv.InvitedEmail = outEmail.String
	return inv, nil
}

// PendingInvitationExists проверяет наличие ожидающего приглашения
// для пары (клуб, адресат).
func (s *Storage) PendingInvitationExists(ctx context.Context, clubID string,
	target models.InviteTarget) (bool, error) {
	const op = "storage.PendingInvitationExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		query string
		arg   string
	)
	if uid, ok := target.UserUID(); ok {
		query = `SELECT EXISTS (
				     SELECT 1 FROM club_invitations
				     WHERE club_id = $1 AND invited_user_uid = $2 AND status = 'pending'
				 )`
		arg = uid
	} else {
		email, _ := target.Email()
		query = `SELECT EXISTS (
				     SELECT 1 FROM club_invitations
				     WHERE club_id = $1 AND lower(invited_email) = lower($2) AND status = 'pending'
				 )`
		arg = email
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, clubID, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

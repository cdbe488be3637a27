package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rackethub/club-organizer/internal/models"
)

// CreateMembership вставляет членство с заданными ролью и статусом.
// Нарушение частичного уникального индекса на (club_id, user_uid) среди
// неудалённых членств транслируется в ErrAlreadyMember.
func (s *Storage) CreateMembership(ctx context.Context, clubID, userUID string,
	role models.MembershipRole, status models.MembershipStatus) (*models.Membership, error) {
	const op = "storage.CreateMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO club_memberships (club_id, user_uid, role, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, club_id, user_uid, role, status, joined_at`
	m := &models.Membership{}
	err := s.DB.QueryRowContext(ctx, query, clubID, userUID, role, status).Scan(
		&m.ID, &m.ClubID, &m.UserUID, &m.Role, &m.Status, &m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyMember)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetMembership возвращает членство по ID.
func (s *Storage) GetMembership(ctx context.Context, id string) (*models.Membership, error) {
	const op = "storage.GetMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, club_id, user_uid, role, status, joined_at
			  FROM club_memberships
			  WHERE id = $1`
	m := &models.Membership{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.ClubID, &m.UserUID, &m.Role, &m.Status, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrMembershipNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetMembershipByClubUser возвращает неудалённое членство профиля в клубе.
// Возвращает ErrMembershipNotFound, если активного или ожидающего членства нет.
func (s *Storage) GetMembershipByClubUser(ctx context.Context, clubID, userUID string) (*models.Membership, error) {
	const op = "storage.GetMembershipByClubUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, club_id, user_uid, role, status, joined_at
			  FROM club_memberships
			  WHERE club_id = $1 AND user_uid = $2 AND status <> 'removed'`
	m := &models.Membership{}
	err := s.DB.QueryRowContext(ctx, query, clubID, userUID).Scan(
		&m.ID, &m.ClubID, &m.UserUID, &m.Role, &m.Status, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrMembershipNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// OwnerMembershipExists проверяет наличие активного членства с ролью owner в клубе.
func (s *Storage) OwnerMembershipExists(ctx context.Context, clubID string) (bool, error) {
	const op = "storage.OwnerMembershipExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM club_memberships
			      WHERE club_id = $1 AND role = 'owner' AND status = 'active'
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, clubID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateMembershipRole меняет роль членства и возвращает обновлённую запись.
func (s *Storage) UpdateMembershipRole(ctx context.Context, id string, role models.MembershipRole) (*models.Membership, error) {
	const op = "storage.UpdateMembershipRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE club_memberships
			  SET role = $2
			  WHERE id = $1
			  RETURNING id, club_id, user_uid, role, status, joined_at`
	m := &models.Membership{}
	err := s.DB.QueryRowContext(ctx, query, id, role).Scan(
		&m.ID, &m.ClubID, &m.UserUID, &m.Role, &m.Status, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrMembershipNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// UpdateMembershipStatus меняет статус членства. Возвращает количество
// изменённых строк: 0 означает, что членства с таким ID нет.
func (s *Storage) UpdateMembershipStatus(ctx context.Context, id string, status models.MembershipStatus) (int, error) {
	const op = "storage.UpdateMembershipStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE club_memberships SET status = $2 WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListMembers возвращает неудалённые членства клуба, упорядоченные по рангу
// роли (owner, admin, member), затем по дате вступления по возрастанию.
// Потребители полагаются на этот порядок.
func (s *Storage) ListMembers(ctx context.Context, clubID string) ([]*models.Membership, error) {
	const op = "storage.ListMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, club_id, user_uid, role, status, joined_at
			  FROM club_memberships
			  WHERE club_id = $1 AND status <> 'removed'
			  ORDER BY CASE role
			      WHEN 'owner' THEN 0
			      WHEN 'admin' THEN 1
			      ELSE 2
			  END, joined_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err = rows.Scan(&m.ID, &m.ClubID, &m.UserUID, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

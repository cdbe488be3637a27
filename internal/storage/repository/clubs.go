package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rackethub/club-organizer/internal/models"
)

// CreateClub вставляет новую строку клуба и возвращает её.
// Нарушение уникального индекса по lower(name) транслируется в ErrNameConflict:
// база — окончательный арбитр при гонке двух создателей с одинаковым названием.
func (s *Storage) CreateClub(ctx context.Context, name, bio, logoURL, ownerUID string) (*models.Club, error) {
	const op = "storage.CreateClub"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clubs (name, bio, logo_url, owner_uid)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, name, bio, logo_url, owner_uid, created_at, updated_at`
	club := &models.Club{}
	err := s.DB.QueryRowContext(ctx, query, name, bio, logoURL, ownerUID).Scan(
		&club.ID, &club.Name, &club.Bio, &club.LogoURL, &club.OwnerUID,
		&club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNameConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return club, nil
}

// GetClub возвращает клуб по ID.
func (s *Storage) GetClub(ctx context.Context, id string) (*models.Club, error) {
	const op = "storage.GetClub"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, bio, logo_url, owner_uid, created_at, updated_at
			  FROM clubs
			  WHERE id = $1`
	club := &models.Club{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&club.ID, &club.Name, &club.Bio, &club.LogoURL, &club.OwnerUID,
		&club.CreatedAt, &club.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrClubNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return club, nil
}

// UpdateClub применяет непустые изменения к клубу и обновляет updated_at.
// nil в поле означает «не менять». Возвращает обновлённый клуб.
func (s *Storage) UpdateClub(ctx context.Context, id string, name, bio, logoURL *string) (*models.Club, error) {
	const op = "storage.UpdateClub"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clubs
			  SET name = COALESCE($2, name),
			      bio = COALESCE($3, bio),
			      logo_url = COALESCE($4, logo_url),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING id, name, bio, logo_url, owner_uid, created_at, updated_at`
	club := &models.Club{}
	err := s.DB.QueryRowContext(ctx, query, id, name, bio, logoURL).Scan(
		&club.ID, &club.Name, &club.Bio, &club.LogoURL, &club.OwnerUID,
		&club.CreatedAt, &club.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrClubNotFound)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNameConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return club, nil
}

// DeleteClub удаляет строку клуба. Удаление членств клуба выполняет
// каскад внешнего ключа на стороне базы.
func (s *Storage) DeleteClub(ctx context.Context, id string) error {
	const op = "storage.DeleteClub"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM clubs WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrClubNotFound)
	}
	return nil
}

// CountClubsByOwner возвращает количество клубов, которыми владеет профиль.
func (s *Storage) CountClubsByOwner(ctx context.Context, ownerUID string) (int, error) {
	const op = "storage.CountClubsByOwner"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM clubs WHERE owner_uid = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, ownerUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ClubNameExists проверяет занятость названия клуба без учёта регистра.
// excludeID исключает собственную строку при переименовании; пустая строка —
// проверка по всем клубам.
func (s *Storage) ClubNameExists(ctx context.Context, name, excludeID string) (bool, error) {
	const op = "storage.ClubNameExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM clubs
			      WHERE lower(name) = lower($1) AND ($2 = '' OR id <> $2::uuid)
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

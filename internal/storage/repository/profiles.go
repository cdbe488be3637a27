package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rackethub/club-organizer/internal/models"
)

// RegisterProfile сохраняет новый профиль и возвращает его UID.
func (s *Storage) RegisterProfile(ctx context.Context, profile models.Profile) (string, error) {
	const op = "storage.RegisterProfile"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO profiles (email, username, password_hash, current_tier, trial_end_date)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		profile.Email, profile.Username, profile.PasswordHash, profile.CurrentTier,
		profile.TrialEndDate).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetProfileByUsername возвращает профиль по имени пользователя.
func (s *Storage) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "storage.GetProfileByUsername"
	return s.getProfile(ctx, op, `SELECT uid, email, username, password_hash, current_tier,
			      trial_end_date, session_count_monthly, last_session_count_reset, created_at
			  FROM profiles
			  WHERE username = $1`, username)
}

// GetProfile возвращает профиль по UID.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	return s.getProfile(ctx, op, `SELECT uid, email, username, password_hash, current_tier,
			      trial_end_date, session_count_monthly, last_session_count_reset, created_at
			  FROM profiles
			  WHERE uid = $1`, userUID)
}

func (s *Storage) getProfile(ctx context.Context, op, query, arg string) (*models.Profile, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p := &models.Profile{}
	row := s.DB.QueryRowContext(ctx, query, arg)

	var trialEndDate sql.NullTime
	err := row.Scan(&p.UID, &p.Email, &p.Username, &p.PasswordHash, &p.CurrentTier,
		&trialEndDate, &p.SessionCountMonthly, &p.LastSessionCountReset, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if trialEndDate.Valid {
		p.TrialEndDate = &trialEndDate.Time
	}
	return p, nil
}

// IncrementSessionCount атомарно увеличивает месячный счётчик сессий профиля
// одним UPDATE на стороне базы. Чтение-изменение-запись здесь недопустимо:
// сессии могут создаваться одновременно с разных устройств одного пользователя.
func (s *Storage) IncrementSessionCount(ctx context.Context, userUID string) error {
	const op = "storage.IncrementSessionCount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET session_count_monthly = session_count_monthly + 1
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
	}
	return nil
}

// ResetStaleSessionCounters обнуляет месячные счётчики профилей, у которых
// последний сброс был не в текущем месяце. Возвращает количество
// обновлённых профилей.
func (s *Storage) ResetStaleSessionCounters(ctx context.Context) (int, error) {
	const op = "storage.ResetStaleSessionCounters"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET session_count_monthly = 0,
			      last_session_count_reset = CURRENT_DATE
			  WHERE date_trunc('month', last_session_count_reset) < date_trunc('month', CURRENT_DATE)`
	result, err := s.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

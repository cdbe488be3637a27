// Package auth содержит логику бизнес-уровня для регистрации и входа профилей.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rackethub/club-organizer/internal/lib/jwt"
	"github.com/rackethub/club-organizer/internal/lib/password"
	"github.com/rackethub/club-organizer/internal/models"
)

// TrialDays — длительность пробного периода новых профилей в днях.
const TrialDays = 14

// ProfileRepository описывает контракт для работы с профилями в базе данных.
type ProfileRepository interface {
	// RegisterProfile сохраняет новый профиль и возвращает его UID.
	RegisterProfile(ctx context.Context, profile models.Profile) (string, error)

	// GetProfileByUsername возвращает профиль по имени или ошибку, если не найден.
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// Service отвечает за регистрацию и авторизацию профилей.
type Service struct {
	profiles ProfileRepository
	jwtMaker jwt.Maker
}

// NewService создает новый экземпляр Service.
func NewService(profiles ProfileRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		profiles: profiles,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт новый профиль с хэшированием пароля. Новые профили
// начинают на бесплатном уровне с пробным периодом в TrialDays дней.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	trialEndDate := time.Now().UTC().AddDate(0, 0, TrialDays)
	profile := models.Profile{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		CurrentTier:  models.TierFree,
		TrialEndDate: &trialEndDate,
	}
	uid, err := s.profiles.RegisterProfile(ctx, profile)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль профиля и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Login"

	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err := password.Verify(profile.PasswordHash, rawPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(profile.Username, profile.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Package policy содержит движок политики доступа по подписке:
// вычисление состояния подписки профиля, матрицы доступа к возможностям
// и атомарный учёт месячного использования сессий.
package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rackethub/club-organizer/internal/lib/dateutil"
	"github.com/rackethub/club-organizer/internal/metrics"
	"github.com/rackethub/club-organizer/internal/models"
)

// Repository определяет методы хранилища, необходимые движку политики.
type Repository interface {
	// GetProfileByUsername возвращает профиль по имени пользователя.
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	// IncrementSessionCount атомарно увеличивает месячный счётчик сессий.
	IncrementSessionCount(ctx context.Context, userUID string) error
}

// Overlay — источник подменного состояния для тестовых учётных записей.
// Возвращает nil, когда для identity действует реальное состояние.
type Overlay interface {
	Resolve(ctx context.Context, identity string) (*models.SimulatorState, error)
}

// Engine реализует движок политики доступа.
type Engine struct {
	repo    Repository
	overlay Overlay
	log     *slog.Logger
	now     func() time.Time
}

// NewEngine создает новый Engine. overlay может быть nil,
// тогда подменное состояние не применяется никогда.
func NewEngine(repo Repository, overlay Overlay, log *slog.Logger) *Engine {
	return &Engine{
		repo:    repo,
		overlay: overlay,
		log:     log,
		now:     time.Now,
	}
}

// GetStatus вычисляет состояние подписки для identity (имени пользователя).
// Сначала опрашивается слой симулятора: его состояние подменяет чтение
// из базы целиком. Иначе состояние собирается из полей профиля.
func (e *Engine) GetStatus(ctx context.Context, identity string) (*models.SubscriptionStatus, error) {
	const op = "policy.GetStatus"

	if e.overlay != nil {
		sim, err := e.overlay.Resolve(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if sim != nil {
			e.log.Debug("using simulated subscription state", slog.String("identity", identity))
			return statusFromSimulated(sim.Subscription), nil
		}
	}

	profile, err := e.repo.GetProfileByUsername(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e.statusFromProfile(profile), nil
}

// statusFromProfile собирает состояние подписки из полей профиля.
// Сброс месячного счётчика — внешняя забота: к моменту чтения счётчик
// считается уже сброшенным.
func (e *Engine) statusFromProfile(p *models.Profile) *models.SubscriptionStatus {
	now := e.now()

	trialActive := p.TrialEndDate != nil && p.TrialEndDate.After(now)
	trialDays := 0
	if p.TrialEndDate != nil {
		trialDays = dateutil.DaysUntil(now, *p.TrialEndDate)
	}

	remaining := models.FreeTierMonthlySessions - p.SessionCountMonthly
	if remaining < 0 {
		remaining = 0
	}

	return &models.SubscriptionStatus{
		Tier:                       p.CurrentTier,
		IsTrialActive:              trialActive,
		TrialDaysRemaining:         trialDays,
		SessionsUsedThisMonth:      p.SessionCountMonthly,
		SessionsRemainingThisMonth: remaining,
	}
}

// statusFromSimulated собирает состояние подписки из подменных полей.
func statusFromSimulated(s models.SimulatedSubscription) *models.SubscriptionStatus {
	remaining := models.FreeTierMonthlySessions - s.SessionsUsedThisMonth
	if remaining < 0 {
		remaining = 0
	}
	return &models.SubscriptionStatus{
		Tier:                       s.Tier,
		IsTrialActive:              s.IsTrialActive,
		TrialDaysRemaining:         s.TrialDaysRemaining,
		SessionsUsedThisMonth:      s.SessionsUsedThisMonth,
		SessionsRemainingThisMonth: remaining,
	}
}

// FeatureAccessFor — детерминированная таблица доступа. Порядок старшинства:
// активный пробный период даёт полный профиль доступа независимо от
// номинального уровня, затем оплачиваемые уровни, затем бесплатный.
func FeatureAccessFor(status models.SubscriptionStatus) models.FeatureAccess {
	if status.IsTrialActive || status.Tier.IsPaid() {
		return models.FeatureAccess{
			MaxCourts:              models.Unlimited,
			MaxSessionsPerMonth:    models.Unlimited,
			CanCreateSession:       true,
			CanImportExternal:      true,
			MaxClubs:               models.Unlimited,
			CanCreateMultipleClubs: true,
		}
	}
	return models.FeatureAccess{
		MaxCourts:              1,
		MaxSessionsPerMonth:    models.FreeTierMonthlySessions,
		CanCreateSession:       status.SessionsRemainingThisMonth > 0,
		CanImportExternal:      false,
		MaxClubs:               1,
		CanCreateMultipleClubs: false,
	}
}

// GetFeatureAccess возвращает состояние подписки identity вместе с
// вычисленной матрицей доступа.
func (e *Engine) GetFeatureAccess(ctx context.Context, identity string) (*models.SubscriptionStatus, models.FeatureAccess, error) {
	const op = "policy.GetFeatureAccess"

	status, err := e.GetStatus(ctx, identity)
	if err != nil {
		return nil, models.FeatureAccess{}, fmt.Errorf("%s: %w", op, err)
	}
	return status, FeatureAccessFor(*status), nil
}

// IncrementSessionUsage атомарно увеличивает месячный счётчик сессий профиля.
// Инкремент выполняется одним UPDATE на стороне базы: сессии могут
// создаваться одновременно с разных устройств одного пользователя.
func (e *Engine) IncrementSessionUsage(ctx context.Context, userUID string) error {
	const op = "policy.IncrementSessionUsage"

	if err := e.repo.IncrementSessionCount(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.SessionUsageIncrements.Inc()
	return nil
}

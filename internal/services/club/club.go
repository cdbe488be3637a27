// Package club содержит бизнес-логику жизненного цикла клуба:
// создание с проверками квоты и уникальности, изменение и удаление.
//
// Создание клуба — единственная многошаговая запись ядра: вставка строки
// клуба и прикрепление владельца выполняются отдельными запросами к базе,
// поэтому атомарность обеспечивается компенсирующим удалением, а не
// транзакцией. После возврата из Create наблюдаемое состояние одно из двух:
// либо существуют и клуб, и членство владельца, либо ни того ни другого.
package club

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/rackethub/club-organizer/internal/lib/sl"
	"github.com/rackethub/club-organizer/internal/metrics"
	"github.com/rackethub/club-organizer/internal/models"
)

// MaxClubsPerOwner — максимум клубов на одного владельца.
const MaxClubsPerOwner = 3

var nameRe = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// Repository определяет методы хранилища, необходимые жизненному циклу клуба.
type Repository interface {
	// CreateClub вставляет строку клуба.
	CreateClub(ctx context.Context, name, bio, logoURL, ownerUID string) (*models.Club, error)
	// GetClub возвращает клуб по ID.
	GetClub(ctx context.Context, id string) (*models.Club, error)
	// UpdateClub применяет частичные изменения к клубу.
	UpdateClub(ctx context.Context, id string, name, bio, logoURL *string) (*models.Club, error)
	// DeleteClub удаляет строку клуба, каскад удаляет членства.
	DeleteClub(ctx context.Context, id string) error
	// CountClubsByOwner возвращает количество клубов во владении профиля.
	CountClubsByOwner(ctx context.Context, ownerUID string) (int, error)
	// ClubNameExists проверяет занятость названия без учёта регистра.
	ClubNameExists(ctx context.Context, name, excludeID string) (bool, error)
}

// OwnerAttacher прикрепляет владельца к только что созданному клубу.
// Реализуется реестром членств.
type OwnerAttacher interface {
	AttachOwner(ctx context.Context, clubID, userUID string) (*models.Membership, error)
}

// Lifecycle реализует жизненный цикл клуба.
type Lifecycle struct {
	repo    Repository
	members OwnerAttacher
	log     *slog.Logger
}

// NewLifecycle создает новый Lifecycle.
func NewLifecycle(repo Repository, members OwnerAttacher, log *slog.Logger) *Lifecycle {
	return &Lifecycle{
		repo:    repo,
		members: members,
		log:     log,
	}
}

// validateName проверяет статические ограничения названия клуба.
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 3 || len(trimmed) > 50 {
		return models.ErrInvalidName
	}
	if !nameRe.MatchString(trimmed) {
		return models.ErrInvalidName
	}
	return nil
}

// Create создаёт клуб и прикрепляет создателя как владельца.
//
// Порядок проверок: валидация названия и описания, квота владельца,
// занятость названия. Предварительные проверки — быстрый отказ без записи;
// окончательный арбитр уникальности — уникальный индекс базы. Если после
// вставки клуба прикрепление владельца не удалось, выполняется
// компенсирующее удаление: успех отката — ErrRollbackPerformed,
// неуспех — ErrRollbackFailed (осталась осиротевшая строка клуба).
func (l *Lifecycle) Create(ctx context.Context, req models.DummyClub, ownerUID string) (*models.Club, error) {
	const op = "club.Create"
	log := l.log.With(slog.String("op", op), slog.String("owner_uid", ownerUID))

	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(req.Bio) > 200 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidBio)
	}

	owned, err := l.repo.CountClubsByOwner(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owned >= MaxClubsPerOwner {
		return nil, fmt.Errorf("%s: %w", op, models.ErrQuotaExceeded)
	}

	taken, err := l.repo.ClubNameExists(ctx, name, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNameConflict)
	}

	created, err := l.repo.CreateClub(ctx, name, req.Bio, req.LogoURL, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = l.members.AttachOwner(ctx, created.ID, ownerUID); err != nil {
		return nil, l.rollbackCreate(ctx, log, created.ID, err)
	}

	metrics.ClubsCreated.Inc()
	log.Info("club created", slog.String("club_id", created.ID))
	return created, nil
}

// rollbackCreate выполняет компенсирующее удаление строки клуба после
// неудачного прикрепления владельца. Откат выполняется даже когда причиной
// сбоя была отмена контекста вызывающей стороны, поэтому берётся контекст
// без отмены с собственным таймаутом.
func (l *Lifecycle) rollbackCreate(ctx context.Context, log *slog.Logger, clubID string, attachErr error) error {
	const op = "club.Create"

	rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	log.Error("failed to attach owner, rolling back club row",
		slog.String("club_id", clubID), sl.Err(attachErr))

	if rbErr := l.repo.DeleteClub(rollbackCtx, clubID); rbErr != nil {
		metrics.ClubCreateRollbacks.WithLabelValues("failed").Inc()
		log.Error("compensating delete failed, orphan club row remains",
			slog.String("club_id", clubID), sl.Err(rbErr))
		return fmt.Errorf("%s: attach owner: %v: %w", op, attachErr, models.ErrRollbackFailed)
	}

	metrics.ClubCreateRollbacks.WithLabelValues("performed").Inc()
	return fmt.Errorf("%s: attach owner: %v: %w", op, attachErr, models.ErrRollbackPerformed)
}

// Update применяет частичные изменения к клубу. При смене названия
// повторяется проверка занятости, исключая сам клуб.
func (l *Lifecycle) Update(ctx context.Context, id string, req models.DummyClubUpdate) (*models.Club, error) {
	const op = "club.Update"

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		taken, err := l.repo.ClubNameExists(ctx, name, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNameConflict)
		}
		req.Name = &name
	}
	if req.Bio != nil && len(*req.Bio) > 200 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidBio)
	}

	updated, err := l.repo.UpdateClub(ctx, id, req.Name, req.Bio, req.LogoURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет клуб. Членства клуба удаляются каскадом внешнего ключа
// на стороне базы.
func (l *Lifecycle) Delete(ctx context.Context, id string) error {
	const op = "club.Delete"

	if err := l.repo.DeleteClub(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	l.log.Info("club deleted", slog.String("op", op), slog.String("club_id", id))
	return nil
}

// Get возвращает клуб по ID.
func (l *Lifecycle) Get(ctx context.Context, id string) (*models.Club, error) {
	const op = "club.Get"

	club, err := l.repo.GetClub(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return club, nil
}

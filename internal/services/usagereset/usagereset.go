// Package usagereset содержит воркер сброса месячных счётчиков сессий.
// Ядро политики доступа предполагает, что счётчик уже сброшен к моменту
// чтения — этот воркер и есть та внешняя забота.
package usagereset

import (
	"context"
	"log/slog"
	"time"

	"github.com/rackethub/club-organizer/internal/lib/sl"
)

// Repository определяет методы хранилища, необходимые воркеру сброса.
type Repository interface {
	// ResetStaleSessionCounters обнуляет счётчики профилей с устаревшим
	// месяцем последнего сброса, возвращает число обновлённых профилей.
	ResetStaleSessionCounters(ctx context.Context) (int, error)
}

// Service реализует воркер сброса месячных счётчиков.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Run запускает цикл сброса: первый проход сразу, затем раз в сутки,
// до отмены контекста. Сам сброс идемпотентен: условие по месяцу
// последнего сброса не трогает уже обнулённые профили.
func (s *Service) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	s.log.Info("starting monthly session counter reset pass")
	count, err := s.repo.ResetStaleSessionCounters(ctx)
	if err != nil {
		s.log.Error("failed to reset session counters", sl.Err(err))
		return
	}
	if count == 0 {
		s.log.Info("no stale session counters found")
		return
	}
	s.log.Info("session counters reset", slog.Int("profiles", count))
}

// Package usagereset собирает приложение воркера сброса месячных
// счётчиков сессий.
package usagereset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	usageresetservice "github.com/rackethub/club-organizer/internal/services/usagereset"
	"github.com/rackethub/club-organizer/internal/storage/repository"
)

// App представляет приложение воркера сброса счётчиков.
type App struct {
	resetService *usageresetservice.Service
	db           *repository.Storage
	logger       *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения воркера.
func New(storageConnectionString string, logger *slog.Logger) (*App, error) {
	db, err := repository.New(storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		db.DB.Close()
		return nil, err
	}

	resetService := usageresetservice.NewService(db, logger)

	return &App{
		resetService: resetService,
		db:           db,
		logger:       logger,
	}, nil
}

// Run запускает воркер до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	a.resetService.Run(ctx)

	a.logger.Info("shutting down usage reset worker")
	return a.db.DB.Close()
}

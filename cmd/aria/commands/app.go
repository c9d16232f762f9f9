package commands

import (
	"fmt"

	"github.com/aria/reminders/internal/adapters/repository"
	"github.com/aria/reminders/internal/application/services"
	"github.com/aria/reminders/internal/domain/timecontext"
	"github.com/aria/reminders/internal/infrastructure/config"
	"github.com/aria/reminders/internal/infrastructure/database"
	"github.com/aria/reminders/internal/infrastructure/logger"
	"github.com/aria/reminders/internal/infrastructure/metrics"
	"github.com/aria/reminders/internal/ports"
)

// app is the wired object graph shared by every command
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	db        *database.DB
	metrics   *metrics.Collector
	resolver  *timecontext.Resolver
	reminders *services.ReminderService
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	resolver, err := timecontext.NewForZone(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   appLogger,
		metrics:  metrics.New(),
		resolver: resolver,
	}

	var repo ports.ReminderRepository
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		appLogger.Debugw("Using in-memory reminder store")
		repo = repository.NewMemoryReminderRepository(resolver.CurrentTime)
	default:
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		repo = repository.NewReminderRepository(db.DB)
	}

	a.reminders = services.NewReminderService(
		repo,
		resolver,
		services.ReminderServiceConfig{DefaultUser: cfg.App.DefaultUser},
		appLogger,
		a.metrics,
	)

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warnw("Failed to close database", "error", err)
		}
	}
	_ = a.logger.Sync()
}

// Package app builds the dependency graph shared by the TUI and the CLI.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/config"
	"github.com/einar/transportapp/internal/database"
	"github.com/einar/transportapp/internal/database/repository"
	"github.com/einar/transportapp/internal/logging"
	"github.com/einar/transportapp/internal/service"
)

// Wire bundles the stores, services and clients built from one Config.
type Wire struct {
	Config      config.Config
	Log         *slog.Logger
	DB          *sql.DB
	API         *api.Client
	Onboarding  *service.OnboardingService
	Maintenance *service.MaintenanceService

	closers []func() error
}

// NewWire constructs the dependency graph from cfg. A nil logger opens the
// log file named by cfg.Log.
func NewWire(cfg config.Config, logger *slog.Logger) (*Wire, error) {
	w := &Wire{Config: cfg}

	if logger == nil {
		l, closeLog, err := logging.New(cfg.Log)
		if err != nil {
			return nil, err
		}
		logger = l
		w.closers = append(w.closers, closeLog)
	}
	w.Log = logger

	db, err := database.OpenAndMigrate(cfg.Database.Path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("history db: %w", err)
	}
	w.DB = db
	w.closers = append(w.closers, db.Close)

	w.API = api.New(cfg.API.BaseURL, cfg.API.Timeout, logger.With("component", "api"))
	w.Onboarding = &service.OnboardingService{
		API:           w.API,
		Accounts:      repository.NewAccountRepo(db),
		Organizations: repository.NewOrganizationRepo(db),
		Log:           logger.With("component", "onboarding"),
	}
	w.Maintenance = &service.MaintenanceService{DB: db}

	logger.Info("wired", "api", cfg.API.BaseURL, "db", cfg.Database.Path)
	return w, nil
}

// Close releases the database and the log file, newest first.
func (w *Wire) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	return errors.Join(errs...)
}

// Package app initializes and holds the services shared by a tally run, acting
// as a small dependency injection container.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/enqueue-tally/internal/clock/system"
	"github.com/JakeFAU/enqueue-tally/internal/config"
	"github.com/JakeFAU/enqueue-tally/internal/id/uuid"
	"github.com/JakeFAU/enqueue-tally/internal/logging"
	"github.com/JakeFAU/enqueue-tally/internal/metrics"
)

// Clock supplies the timestamps of a run.
type Clock interface {
	Now() time.Time
}

// App holds the logger, configuration, clock and metrics recorder of one run.
type App struct {
	Logger  *zap.Logger
	Config  config.Config
	Metrics *metrics.Recorder
	Clock   Clock
	RunID   string
}

// GetLogger returns the run-scoped logger.
func (a *App) GetLogger() *zap.Logger {
	return a.Logger
}

// GetConfig returns the loaded configuration.
func (a *App) GetConfig() config.Config {
	return a.Config
}

// GetMetrics returns the metrics recorder for the run.
func (a *App) GetMetrics() *metrics.Recorder {
	return a.Metrics
}

// GetClock returns the clock used to time the run.
func (a *App) GetClock() Clock {
	return a.Clock
}

// NewApp builds the run services from cfg. It fails fast if the logger cannot
// be constructed.
func NewApp(cfg config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	runID, err := uuid.New().NewRunID()
	if err != nil {
		return nil, fmt.Errorf("init run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))
	logger.Debug("Application services initialized",
		zap.Bool("strict", cfg.Filter.Strict),
		zap.String("tracked_action", cfg.Filter.TrackedAction),
		zap.String("metrics_textfile", cfg.Metrics.Textfile),
	)

	return &App{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics.NewRecorder(),
		Clock:   system.New(),
		RunID:   runID,
	}, nil
}

// Close flushes the logger. It is called by a Cobra hook after the command
// finishes.
func (a *App) Close() {
	// Syncing stderr fails on some terminals; there is nowhere left to report it.
	_ = a.Logger.Sync()
}

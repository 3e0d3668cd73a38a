// Package app holds process-wide state and lifecycle for the service.
package app

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"subtitle-gen-service/internal/config"
	"subtitle-gen-service/internal/observability/logging"
	"subtitle-gen-service/internal/service/separation"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration

	separator   *separation.Separator
	sweepCancel context.CancelFunc
}

// New constructs a new Application from the provided configuration and
// initializes logging.
func New(cfg *config.Configuration) *Application {
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	a := &Application{
		Cfg:    cfg,
		Logger: logging.WithComponent("application"),
	}
	a.Logger.Info().Msg("subtitle generation service application created")
	return a
}

// SetSeparator registers the vocal separator so its temp directory gets
// swept periodically while the service runs.
func (a *Application) SetSeparator(s *separation.Separator) {
	a.separator = s
}

// Start performs startup work required before serving traffic: the upload
// directory is created and the separation sweeper is launched.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()

	if err := os.MkdirAll(a.Cfg.Service.UploadDir, 0o755); err != nil {
		return err
	}

	if a.separator != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.sweepCancel = cancel
		go a.runSweeper(ctx)
	}

	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Str("uploadDir", a.Cfg.Service.UploadDir).
		Msg("subtitle generation service starting")

	return nil
}

// runSweeper periodically removes stale separation output files.
func (a *Application) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.separator.SweepTempFiles()
		}
	}
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	if a.sweepCancel != nil {
		a.sweepCancel()
	}
	a.Logger.Info().Msg("subtitle generation service shutting down")
}

// Package app builds the long-lived state shared by every command: the
// resource reader, the Grist client and the sealed command registry.
package app

import (
	"context"
	"fmt"

	"timeclock-kiosk/internal/commands"
	"timeclock-kiosk/internal/common/assets"
	"timeclock-kiosk/internal/common/config"
	"timeclock-kiosk/internal/common/grist"
	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/internal/common/observability"
	"timeclock-kiosk/pkg/registry"
)

type App struct {
	Config   *config.Config
	BasePath string
	Assets   *assets.Reader
	Grist    *grist.Client
	Registry *registry.Registry
	Obs      *observability.Observability
	Logger   logger.Logger
}

type Option func(*options)

type options struct {
	obs *observability.Observability
}

// WithObservability attaches telemetry. Without it nothing is recorded.
func WithObservability(obs *observability.Observability) Option {
	return func(o *options) {
		o.obs = obs
	}
}

// New resolves the resource directory and registers all commands. The
// returned registry is sealed.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	basePath, err := assets.ResolveBasePath(cfg.App.BuildMode, cfg.Resources.Dir, cfg.Resources.DevSubdir)
	if err != nil {
		return nil, err
	}
	log.Info("resource directory resolved", map[string]interface{}{
		"basePath":  basePath,
		"buildMode": cfg.App.BuildMode,
	})

	gristClient := grist.NewClient(grist.Config{
		APIKey:     cfg.Grist.APIKey,
		BaseURL:    cfg.Grist.BaseURL,
		DocumentID: cfg.Grist.DocumentID,
		Timeout:    config.GetDuration(cfg.Grist.Timeout),
	}, grist.WithLogger(log.Named("grist")))

	reader := assets.NewReader(basePath)

	reg := registry.New(log, registry.WithObservability(o.obs))
	if err := commands.Register(reg, commands.Dependencies{
		Assets: reader,
		Grist:  gristClient,
		Logger: log.Named("commands"),
	}); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	reg.Seal()

	return &App{
		Config:   cfg,
		BasePath: basePath,
		Assets:   reader,
		Grist:    gristClient,
		Registry: reg,
		Obs:      o.obs,
		Logger:   log,
	}, nil
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.Obs.Shutdown(ctx)
}

package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/env-registry/internal/api"
	"github.com/eugenenazirov/env-registry/internal/config"
	"github.com/eugenenazirov/env-registry/internal/environment"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	registry *environment.Registry
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application from the provided configuration. It
// constructs the registry with any config-declared environment definitions
// and performs the one-time environment selection before anything else can
// read configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	registry := BuildRegistry(cfg)

	if err := registry.Set(cfg.Environment); err != nil {
		return nil, fmt.Errorf("select environment: %w", err)
	}

	handler := api.NewHandler(registry)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, router)

	return &App{
		registry: registry,
		handler:  handler,
		router:   router,
		logger:   logger,
		server:   server,
	}, nil
}

// BuildRegistry constructs an environment registry from the built-in
// environments plus any definitions declared in the configuration file.
// The returned registry is uninitialized.
func BuildRegistry(cfg config.Config) *environment.Registry {
	opts := make([]environment.Option, 0, len(cfg.Environments))
	for id, def := range cfg.Environments {
		opts = append(opts, environment.WithEnvironment(id, environment.Config{
			DisplayName: def.DisplayName,
			BaseURL:     def.BaseURL,
			Settings:    def.Settings,
		}))
	}
	return environment.NewRegistry(opts...)
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	current, err := a.registry.Current()
	if err != nil {
		return fmt.Errorf("environment not selected: %w", err)
	}

	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("environment", string(current)),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Registry returns the environment registry for read access.
func (a *App) Registry() *environment.Registry {
	return a.registry
}

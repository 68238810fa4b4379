package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/registry"
)

// AppConfig holds all the necessary configuration for an App instance to run.
type AppConfig struct {
	GraphPath string
	LogFormat string
	LogLevel  string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *AppConfig, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all configuration into the format-agnostic model first.
	cfgModel, err := loader.Load(ctx, appConfig.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.",
		"graphs", len(cfgModel.Graphs),
		"backends", len(cfgModel.Backends),
	)

	// Create and populate the registry with compiled-in backends.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All backend modules registered.", "count", len(modules))

	if err := validateModel(cfgModel, reg); err != nil {
		return nil, err
	}
	logger.Debug("Configuration validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfgModel,
	}, nil
}

// validateModel checks that the loaded model is internally consistent and
// that every referenced backend has a registered factory.
func validateModel(m *config.Model, reg *registry.Registry) error {
	if len(m.Graphs) == 0 {
		return fmt.Errorf("configuration declares no graphs")
	}
	for _, def := range m.Backends {
		if _, err := reg.NewBackend(def); err != nil {
			return fmt.Errorf("backend %q: %w", def.Type, err)
		}
	}
	if m.Partitioner != nil {
		if _, ok := m.Backends[m.Partitioner.Backend]; !ok {
			return fmt.Errorf("partitioner references undefined backend %q", m.Partitioner.Backend)
		}
	}
	return nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the loaded configuration model. This is primarily for testing.
func (a *App) Config() *config.Model {
	return a.config
}

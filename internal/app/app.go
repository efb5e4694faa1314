package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/hcl_adapter"
	"github.com/Dwoggurd/Ptree-Loader/internal/json_adapter"
	"github.com/Dwoggurd/Ptree-Loader/internal/registry"
	"github.com/Dwoggurd/Ptree-Loader/internal/xml_adapter"
	"github.com/Dwoggurd/Ptree-Loader/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	adapter config.Adapter
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and adapter
// registry. Reports and tree dumps are written to outW; logs go to errW.
func New(outW, errW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg, errW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	for _, adapter := range builtinAdapters() {
		reg.Register(adapter)
	}
	logger.Debug("Format adapters registered.", "formats", reg.Names())

	adapter, err := selectAdapter(reg, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Format adapter selected.", "format", adapter.Name())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		adapter: adapter,
	}, nil
}

// Adapter returns the selected format adapter. This is primarily for
// testing.
func (a *App) Adapter() config.Adapter {
	return a.adapter
}

func builtinAdapters() []config.Adapter {
	return []config.Adapter{
		hcl_adapter.New(),
		yaml_adapter.New(),
		json_adapter.New(),
		xml_adapter.New(),
	}
}

func selectAdapter(reg *registry.Registry, cfg *Config) (config.Adapter, error) {
	if cfg.Format != "" {
		adapter, ok := reg.ByName(cfg.Format)
		if !ok {
			return nil, fmt.Errorf("unknown format %q: known formats are %s", cfg.Format, strings.Join(reg.Names(), ", "))
		}
		return adapter, nil
	}

	adapter, ok := reg.ForPath(cfg.Path)
	if !ok {
		return nil, fmt.Errorf("no format adapter claims %q: use -format to choose one of %s", cfg.Path, strings.Join(reg.Names(), ", "))
	}
	return adapter, nil
}

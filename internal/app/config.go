package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Path is the entry configuration file.
	Path string
	// Format forces a specific adapter by name; empty selects by the
	// file extension of Path.
	Format string

	LogFormat string
	LogLevel  string
	Watch     bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Path == "" {
		return nil, errors.New("Path is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}

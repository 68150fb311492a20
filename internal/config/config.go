// FILE: internal/config/config.go
package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config is shared by the chess binaries. Environment variables provide the
// defaults, command-line flags override them.
type Config struct {
	LogLevel    string `env:"CHESS_LOG_LEVEL"    envDefault:"info" validate:"oneof=debug info warn error"`
	LogJSON     bool   `env:"CHESS_LOG_JSON"`
	LogFile     string `env:"CHESS_LOG_FILE"`
	Theme       string `env:"CHESS_THEME"        envDefault:"off"  validate:"oneof=off brown green gray"`
	HistoryFile string `env:"CHESS_HISTORY_FILE"`
	StartFEN    string `env:"CHESS_START_FEN"                      validate:"omitempty,max=100"`
}

var validate = validator.New()

// Load reads the environment, applies flags from args and validates the
// result. Usage output goes to usage; nil discards it.
func Load(name string, args []string, usage io.Writer) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if usage == nil {
		usage = io.Discard
	}
	fs.SetOutput(usage)

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Write logs as JSON")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (empty for stderr)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Board color theme: off, brown, green, gray")
	fs.StringVar(&cfg.HistoryFile, "history", cfg.HistoryFile, "Readline history file")
	fs.StringVar(&cfg.StartFEN, "fen", cfg.StartFEN, "Starting position for new games")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

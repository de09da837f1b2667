package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes environment overrides, e.g. CHATSTAT_DB_PATH.
const EnvPrefix = "chatstat"

type Config struct {
	TranscriptRoot string `toml:"transcript_root" envconfig:"TRANSCRIPT_ROOT" validate:"required"`
	DBPath         string `toml:"db_path" envconfig:"DB_PATH" validate:"required"`
	ChartDir       string `toml:"chart_dir" envconfig:"CHART_DIR" validate:"required"`
	TopN           int    `toml:"top_n" envconfig:"TOP_N" validate:"min=1,max=100"`
	LogLevel       string `toml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogJSON        bool   `toml:"log_json" envconfig:"LOG_JSON"`
	Format         string `toml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=text tsv json yaml"`
}

// DefaultPath returns ~/.config/chatstat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatstat", "config.toml"), nil
}

// Load builds the configuration from defaults, the TOML file at path (if it
// exists), and CHATSTAT_* environment variables, then validates it. An empty
// path means DefaultPath.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TranscriptRoot: filepath.Join(home, "chats"),
		DBPath:         filepath.Join(home, ".config", "chatstat", "chatstat.db"),
		ChartDir:       filepath.Join(home, ".cache", "chatstat", "charts"),
		TopN:           15,
		LogLevel:       "info",
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".config", "chatstat", "config.toml")
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	// expand ~ in paths
	cfg.TranscriptRoot = expandHome(cfg.TranscriptRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.ChartDir = expandHome(cfg.ChartDir, home)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

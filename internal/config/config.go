// Package config loads server configuration from a JSON file at an
// XDG-compatible path, with environment variables taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	API     APIConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type APIConfig struct {
	// Token protects the ingest and deactivation endpoints.
	Token string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{Port: 4600},
		Storage: StorageConfig{DataDir: defaultDataDir()},
		Log:     LogConfig{Level: "info"},
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "stackscout-data"
		}
	}
	return filepath.Join(dir, "stackscout")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "stackscout", "config.json")
}

// Load reads configuration from $XDG_CONFIG_HOME/stackscout/config.json
// (flat keys: port, data_dir, api_token, log_level), then applies
// STACKSCOUT_* environment variable overrides. The API token is required:
// without it the ingest endpoints cannot be protected.
func Load() (Config, error) {
	return loadFrom(configFilePath(), os.Getenv)
}

func loadFrom(path string, getenv func(string) string) (Config, error) {
	cfg := defaults()

	if err := applyFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if cfg.API.Token == "" {
		return Config{}, fmt.Errorf("missing required config: API token. " +
			"Set it via environment variable STACKSCOUT_API_TOKEN or the api_token config key")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Server.Port)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw struct {
		Port     *int   `json:"port"`
		DataDir  string `json:"data_dir"`
		APIToken string `json:"api_token"`
		LogLevel string `json:"log_level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if raw.Port != nil {
		cfg.Server.Port = *raw.Port
	}
	if raw.DataDir != "" {
		cfg.Storage.DataDir = raw.DataDir
	}
	if raw.APIToken != "" {
		cfg.API.Token = raw.APIToken
	}
	if raw.LogLevel != "" {
		cfg.Log.Level = raw.LogLevel
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("STACKSCOUT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STACKSCOUT_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := getenv("STACKSCOUT_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := getenv("STACKSCOUT_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := getenv("STACKSCOUT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

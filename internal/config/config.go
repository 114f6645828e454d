package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the service configuration, loaded from YAML with environment
// variable overrides.
type Config struct {
	Env         string `yaml:"env" env:"APP_ENV" env-default:"development"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"attendance.db"`

	Server struct {
		Host         string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
		Port         int    `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
		ReadTimeout  int    `yaml:"read_timeout" env-default:"15"`  // seconds
		WriteTimeout int    `yaml:"write_timeout" env-default:"30"` // seconds
		IdleTimeout  int    `yaml:"idle_timeout" env-default:"60"`  // seconds
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
	} `yaml:"log"`

	Report struct {
		// DefaultTimezone is used when a request carries no tz parameter.
		DefaultTimezone string `yaml:"default_timezone" env:"REPORT_DEFAULT_TZ" env-default:"UTC"`
		// FetchSlackHours widens the event fetch on both sides of a window
		// so shifts spanning its edges are present for clamping.
		FetchSlackHours int `yaml:"fetch_slack_hours" env-default:"24"`
	} `yaml:"report"`
}

// LoadConfig reads the YAML file at path, applying env overrides. A missing
// file is not fatal: the config falls back to env and defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return &cfg, nil
}

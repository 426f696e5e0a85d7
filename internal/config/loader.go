package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load reads the config file, applies defaults and TRAVELCHAT_* environment
// overrides, and returns the merged Config. A missing file is not an error:
// defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(&cfg); err != nil {
				return cfg, &ConfigError{Message: "environment overrides: " + err.Error()}
			}
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	if err := env.Parse(&cfg); err != nil {
		return cfg, &ConfigError{Message: "environment overrides: " + err.Error()}
	}
	return cfg, nil
}

// applyDefaults fills fields an explicit config file left empty.
func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.Speech.Locale == "" {
		cfg.Speech.Locale = "en-US"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
	if cfg.User.Name == "" {
		cfg.User.Name = "Traveler"
	}
}

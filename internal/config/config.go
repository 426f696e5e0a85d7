package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBaseURL is used when no assistant service address is configured.
const DefaultBaseURL = "http://localhost:8000"

// Config is the root configuration for travelchat.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Speech  SpeechConfig  `yaml:"speech"`
	Logging LoggingConfig `yaml:"logging"`
	User    UserConfig    `yaml:"user"`
}

// APIConfig locates the remote travel assistant service.
type APIConfig struct {
	BaseURL string `yaml:"baseUrl" env:"TRAVELCHAT_API_BASE_URL"`
}

// SpeechConfig selects the external speech-to-text capability.
// Command names a transcriber binary looked up on PATH at startup; voice
// input is unavailable when it is unset or not installed.
type SpeechConfig struct {
	Command string `yaml:"command" env:"TRAVELCHAT_SPEECH_COMMAND"`
	Locale  string `yaml:"locale" env:"TRAVELCHAT_SPEECH_LOCALE"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level        string `yaml:"level" env:"TRAVELCHAT_LOG_LEVEL"`
	ConsoleStyle string `yaml:"consoleStyle" env:"TRAVELCHAT_LOG_STYLE"` // "pretty" or "json"
}

// UserConfig carries the display identity handed to the chat surface.
type UserConfig struct {
	Name string `yaml:"name" env:"TRAVELCHAT_USER_NAME"`
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Speech: SpeechConfig{
			Locale: "en-US",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
		User: UserConfig{
			Name: "Traveler",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".travelchat", "config.yaml")
}

package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// ClientConfig configures the taskman CLI.
type ClientConfig struct {
	// BaseURL is the root of the task API, e.g. http://localhost:8080.
	BaseURL string `env:"TASKMAN_API_URL" env-default:"http://localhost:8080"`

	// Timeout for a single API call: "10s" or a number of seconds.
	Timeout durationSeconds `env:"TASKMAN_HTTP_TIMEOUT" env-default:"15s"`
}

// LoadClient reads the CLI configuration from the environment.
func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration carries everything
// the server needs to start.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "required configuration server port is not set")
	}
	if cfg.DBHost == "" {
		errors = append(errors, "required configuration db host is not set")
	}
	if cfg.DBPort == "" {
		errors = append(errors, "required configuration db port is not set")
	}
	if cfg.DBUser == "" {
		errors = append(errors, "required configuration db user is not set")
	}
	if cfg.DBPassword == "" {
		errors = append(errors, "required configuration db password is not set")
	}
	if cfg.DBName == "" {
		errors = append(errors, "required configuration db name is not set")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "required configuration jwt secret is not set")
	}

	// Redis may be addressed either by URL or by host/port.
	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		errors = append(errors, "redis configuration requires REDIS_URL or REDIS_HOST and REDIS_PORT")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}

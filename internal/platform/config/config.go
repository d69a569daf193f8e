// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string `env:"API_ENVIRONMENT" envDefault:"local"`

	Server    ServerConfig
	Firestore FirestoreConfig
	Auth      AuthConfig
	Events    EventsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string        `env:"API_SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"API_SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"API_SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"API_SERVER_IDLE_TIMEOUT" envDefault:"120s"`
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string `env:"API_FIRESTORE_PROJECT_ID"`
	EmulatorHost string `env:"API_FIRESTORE_EMULATOR_HOST"`
}

// AuthConfig holds token signing parameters.
type AuthConfig struct {
	JWTSecret string        `env:"API_AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `env:"API_AUTH_TOKEN_TTL" envDefault:"168h"`
}

// EventsConfig points at the Pub/Sub topic for order lifecycle events.
type EventsConfig struct {
	ProjectID        string `env:"API_EVENTS_PROJECT_ID"`
	OrderStatusTopic string `env:"API_EVENTS_ORDER_STATUS_TOPIC" envDefault:"order-status-changed"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Load parses configuration from process environment variables and validates
// the fields the application cannot run without.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	// Events default to the Firestore project so a single project id is
	// enough for typical deployments.
	if cfg.Events.ProjectID == "" {
		cfg.Events.ProjectID = cfg.Firestore.ProjectID
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		missing = append(missing, "Server.Port")
	}
	if strings.TrimSpace(cfg.Firestore.ProjectID) == "" {
		missing = append(missing, "Firestore.ProjectID")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		missing = append(missing, "Auth.JWTSecret")
	}
	if cfg.Auth.TokenTTL <= 0 {
		missing = append(missing, "Auth.TokenTTL")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

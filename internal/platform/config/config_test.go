package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_FIRESTORE_PROJECT_ID", "tridala-dev")
	t.Setenv("API_AUTH_JWT_SECRET", "test-signing-secret")
}

func TestLoadWithDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Environment != "local" {
		t.Errorf("expected default environment local, got %s", cfg.Environment)
	}
	if cfg.Auth.TokenTTL != 168*time.Hour {
		t.Errorf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Events.ProjectID != "tridala-dev" {
		t.Errorf("expected events project to default to firestore project, got %s", cfg.Events.ProjectID)
	}
	if cfg.Events.OrderStatusTopic != "order-status-changed" {
		t.Errorf("unexpected default topic: %s", cfg.Events.OrderStatusTopic)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("API_SERVER_PORT", "9090")
	t.Setenv("API_SERVER_IDLE_TIMEOUT", "2m")
	t.Setenv("API_ENVIRONMENT", "prod")
	t.Setenv("API_AUTH_TOKEN_TTL", "24h")
	t.Setenv("API_EVENTS_PROJECT_ID", "tridala-events")
	t.Setenv("API_EVENTS_ORDER_STATUS_TOPIC", "orders.status")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Environment != "prod" {
		t.Errorf("expected environment prod, got %s", cfg.Environment)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Events.ProjectID != "tridala-events" {
		t.Errorf("unexpected events project: %s", cfg.Events.ProjectID)
	}
	if cfg.Events.OrderStatusTopic != "orders.status" {
		t.Errorf("unexpected topic: %s", cfg.Events.OrderStatusTopic)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("API_FIRESTORE_PROJECT_ID", "")
	t.Setenv("API_AUTH_JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := verr.Fields()
	want := map[string]bool{"Firestore.ProjectID": true, "Auth.JWTSecret": true}
	for _, field := range fields {
		delete(want, field)
	}
	if len(want) != 0 {
		t.Errorf("missing fields not reported: %v (got %v)", want, fields)
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hugr-lab/gridfilter/predicate"
)

const testConfig = `
server:
  address: 127.0.0.1:6000
log:
  level: debug
  format: json
auth:
  tokens:
    - token: Secret-Token
      identity: grid-ui
entities:
  - name: tickets
    comment: Support tickets
    properties:
      - path: Title
        type: string
        nullable: true
      - path: Opened
        type: datetime
        format: date
      - path: Priority
        type: enum
        enum: Low,Normal,High
      - path: Labels
        type: array
        items: string
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridfilterd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()
	if cfg.Server.Address != ":50052" {
		t.Errorf("expected default address ':50052', got '%s'", cfg.Server.Address)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Log.Level)
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load([]string{"--config", writeConfig(t, testConfig)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:6000" {
		t.Errorf("expected address from file, got '%s'", cfg.Server.Address)
	}
	if cfg.Server.MaxMessageSize != 16<<20 {
		t.Errorf("expected default max message size, got %d", cfg.Server.MaxMessageSize)
	}
	if len(cfg.Auth.Tokens) != 1 || cfg.Auth.Tokens[0].Token != "Secret-Token" {
		t.Errorf("expected token to keep its case, got %+v", cfg.Auth.Tokens)
	}
	if len(cfg.Entities) != 1 || len(cfg.Entities[0].Properties) != 4 {
		t.Fatalf("expected 1 entity with 4 properties, got %+v", cfg.Entities)
	}

	if _, err := cfg.Logger(); err != nil {
		t.Errorf("Logger failed: %v", err)
	}
	if a, err := cfg.Authenticator(); err != nil || a == nil {
		t.Errorf("expected authenticator, got %v, %v", a, err)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	entity, err := cat.Entity(context.Background(), "tickets")
	if err != nil || entity == nil {
		t.Fatalf("expected entity 'tickets', got %v, %v", entity, err)
	}

	labels, err := entity.Resolve("labels")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if labels.Type != predicate.TypeString || !labels.Collection {
		t.Errorf("expected string collection, got %+v", labels)
	}

	priority, err := entity.Resolve("Priority")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(priority.Enum) != 3 {
		t.Errorf("expected 3 enum members, got %d", len(priority.Enum))
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, testConfig)
	t.Setenv("GRIDFILTER_LOG_LEVEL", "warn")

	cfg, err := Load([]string{"-c", path, "--address", ":7000"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Address != ":7000" {
		t.Errorf("expected flag to override file, got '%s'", cfg.Server.Address)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected env to override file, got '%s'", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing explicit config file")
	}
	if _, err := Load([]string{"--unknown"}); err == nil {
		t.Error("expected error for unknown flag")
	}

	cfg := GetDefaults()
	cfg.Log.Level = "loud"
	if _, err := cfg.Logger(); err == nil {
		t.Error("expected error for invalid log level")
	}

	cfg = GetDefaults()
	cfg.Entities = []EntityConfig{{Name: "e", Properties: []PropertyConfig{{Path: "x", Type: "blob"}}}}
	if _, err := cfg.Catalog(); err == nil {
		t.Error("expected error for unknown property type")
	}

	cfg = GetDefaults()
	cfg.Auth.Tokens = []TokenConfig{{Token: "t"}}
	if _, err := cfg.Authenticator(); err == nil {
		t.Error("expected error for token without identity")
	}
}

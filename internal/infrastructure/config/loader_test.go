package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

func TestLoadWritesDefaultConfigOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if len(cfg.Resolvers) == 0 {
		t.Fatal("default config declares no resolvers")
	}
	if cfg.Synthesis.DefaultResolver == "" {
		t.Fatal("default resolver not hydrated")
	}
}

func TestLoadParsesCustomConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	custom := `config_format_version: "1"
synthesis:
  default_resolver: local
  default_dsl: sql
  auto_repair: true
  timeout: 10
resolvers:
  - name: local
    endpoint: http://localhost:11434/v1/chat/completions
    model_id: llama3
cache:
  ttl: 1h
  max_entries: 5
`
	if err := os.WriteFile(path, []byte(custom), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Synthesis.DefaultResolver != "local" {
		t.Errorf("DefaultResolver = %q", cfg.Synthesis.DefaultResolver)
	}
	if !cfg.Synthesis.AutoRepair {
		t.Error("auto_repair not parsed")
	}
	if cfg.Cache.MaxEntries != 5 {
		t.Errorf("MaxEntries = %d", cfg.Cache.MaxEntries)
	}
	if got := cfg.Cache.TTLDuration().Hours(); got != 1 {
		t.Errorf("TTL hours = %v", got)
	}
	if cfg.Synthesis.DefaultDSL != "sql" {
		t.Errorf("DefaultDSL = %q", cfg.Synthesis.DefaultDSL)
	}
}

func TestLoadHydratesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("config_format_version: \"1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Resolvers) != 1 || cfg.Resolvers[0].Name != "rules" {
		t.Fatalf("Resolvers = %+v", cfg.Resolvers)
	}
	if cfg.Synthesis.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d", cfg.Synthesis.TimeoutSeconds)
	}
	if cfg.Synthesis.DefaultDSL != string(domain.DSLShell) {
		t.Errorf("DefaultDSL = %q", cfg.Synthesis.DefaultDSL)
	}
	if cfg.History.Path == "" {
		t.Error("history path not hydrated")
	}
}

func TestPathEnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("NLP2CMD_CONFIG", custom)

	if got := NewFileLoader("").Path(); got != custom {
		t.Fatalf("Path() = %q, want %q", got, custom)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("resolvers: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

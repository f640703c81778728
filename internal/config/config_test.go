package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/abmeta/internal/domain/composite"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected driver valkey, got %q", cfg.Database.Driver)
	}
	if cfg.AcousticBrainz.BaseURL != "https://acousticbrainz.org/" {
		t.Errorf("unexpected base_url %q", cfg.AcousticBrainz.BaseURL)
	}
	if cfg.AcousticBrainz.CacheTTL() != 24*time.Hour {
		t.Errorf("expected 24h cache ttl, got %v", cfg.AcousticBrainz.CacheTTL())
	}
	if cfg.AcousticBrainz.Timeout() != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.AcousticBrainz.Timeout())
	}
	if cfg.Scheme.Policy() != composite.PolicyAppend {
		t.Errorf("expected append policy, got %v", cfg.Scheme.Policy())
	}
	if !cfg.Fetch.AutoEnabled() {
		t.Error("expected auto fetch enabled by default")
	}
	if !cfg.Write.NextToMediaEnabled() {
		t.Error("expected sidecars next to media by default")
	}
	if cfg.Fetch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Fetch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestParse_WithoutHTTPSection(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  addrs: [\"localhost:6379\"]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTP.Port)
	}
}

func TestApplyDefaults_KeepsExplicitZeroAndFalse(t *testing.T) {
	cfg, err := Parse([]byte(`
http:
  port: 8080
database:
  addrs: ["localhost:6379"]
acousticbrainz:
  cache_ttl_sec: 0
fetch:
  auto: false
write:
  next_to_media: false
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AcousticBrainz.CacheTTL() != 0 {
		t.Errorf("expected caching disabled, got %v", cfg.AcousticBrainz.CacheTTL())
	}
	if cfg.Fetch.AutoEnabled() {
		t.Error("expected auto fetch disabled")
	}
	if cfg.Write.NextToMediaEnabled() {
		t.Error("expected sidecars next to media disabled")
	}
}

func TestValidate(t *testing.T) {
	negative := -1

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "memcached" }, "database.driver"},
		{"negative ttl", func(c *Config) { c.AcousticBrainz.CacheTTLSec = &negative }, "cache_ttl_sec"},
		{"unknown policy", func(c *Config) { c.Scheme.CompositePolicy = "merge" }, "composite_policy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestValidate_Drivers(t *testing.T) {
	for _, driver := range []string{"valkey", "redis"} {
		t.Run(driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.Driver = driver
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSchemeConfig_Policy(t *testing.T) {
	c := SchemeConfig{CompositePolicy: "overwrite"}
	if c.Policy() != composite.PolicyOverwrite {
		t.Errorf("expected overwrite, got %v", c.Policy())
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ABMETA_TEST_PORT", "9090")

	got := string(expandEnvVars([]byte("port: ${ABMETA_TEST_PORT}\nurl: ${ABMETA_TEST_UNSET:-http://x/}\nempty: ${ABMETA_TEST_UNSET}")))
	want := "port: 9090\nurl: http://x/\nempty: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("ABMETA_TEST_VALKEY", "valkey:6379")

	path := filepath.Join(t.TempDir(), "test.yaml")
	data := `
http:
  port: 8080
database:
  driver: redis
  addrs: ["${ABMETA_TEST_VALKEY}"]
scheme:
  composite_policy: overwrite
write:
  dir: /tmp/sidecars
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Addrs[0] != "valkey:6379" {
		t.Errorf("expected expanded addr, got %q", cfg.Database.Addrs[0])
	}
	if cfg.Scheme.Policy() != composite.PolicyOverwrite {
		t.Errorf("expected overwrite policy, got %v", cfg.Scheme.Policy())
	}
	if cfg.Write.Dir != "/tmp/sidecars" {
		t.Errorf("unexpected write dir %q", cfg.Write.Dir)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("local config must load: %v", err)
	}
	if cfg.HTTP.Port == 0 {
		t.Error("expected a port in local config")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("expected local, got %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("expected prod, got %q", GetEnv())
	}
}

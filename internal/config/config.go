package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/abmeta/internal/domain/composite"
)

// Config holds the abmeta configuration.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Database       DatabaseConfig       `yaml:"database"`
	Auth           AuthConfig           `yaml:"auth"`
	Logging        LoggingConfig        `yaml:"logging"`
	AcousticBrainz AcousticBrainzConfig `yaml:"acousticbrainz"`
	Scheme         SchemeConfig         `yaml:"scheme"`
	Fetch          FetchConfig          `yaml:"fetch"`
	Write          WriteConfig          `yaml:"write"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Standalone       bool     `yaml:"standalone"` // single node, no cluster discovery
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AcousticBrainzConfig holds upstream API settings.
type AcousticBrainzConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	CacheTTLSec *int   `yaml:"cache_ttl_sec"` // 0 disables the document cache
}

// SchemeConfig selects the mapping scheme.
type SchemeConfig struct {
	File            string `yaml:"file"` // empty: built-in AcousticBrainz scheme
	CompositePolicy string `yaml:"composite_policy"`
}

// FetchConfig holds fetch run settings.
type FetchConfig struct {
	Auto    *bool `yaml:"auto"` // fetch from the import hook (default: true)
	Workers int   `yaml:"workers"`
}

// WriteConfig holds sidecar writer settings.
type WriteConfig struct {
	Dir         string `yaml:"dir"`           // sidecars of items without a media path
	NextToMedia *bool  `yaml:"next_to_media"` // place sidecars beside media files (default: true)
}

const (
	defaultPort        = 8080
	defaultBaseURL     = "https://acousticbrainz.org/"
	defaultCacheTTLSec = 86400
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes, defaults and validates a config document.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultPort
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.AcousticBrainz.BaseURL == "" {
		c.AcousticBrainz.BaseURL = defaultBaseURL
	}
	if c.AcousticBrainz.TimeoutSec <= 0 {
		c.AcousticBrainz.TimeoutSec = 10
	}
	if c.AcousticBrainz.CacheTTLSec == nil {
		ttl := defaultCacheTTLSec
		c.AcousticBrainz.CacheTTLSec = &ttl
	}
	if c.Scheme.CompositePolicy == "" {
		c.Scheme.CompositePolicy = composite.PolicyAppend.String()
	}
	if c.Fetch.Auto == nil {
		auto := true
		c.Fetch.Auto = &auto
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.AcousticBrainz.CacheTTLSec != nil && *c.AcousticBrainz.CacheTTLSec < 0 {
		return fmt.Errorf("acousticbrainz.cache_ttl_sec must not be negative, got %d", *c.AcousticBrainz.CacheTTLSec)
	}
	if _, err := composite.ParsePolicy(c.Scheme.CompositePolicy); err != nil {
		return fmt.Errorf("scheme.composite_policy: %w", err)
	}
	return nil
}

// Policy returns the configured composite write policy.
func (c *SchemeConfig) Policy() composite.Policy {
	p, err := composite.ParsePolicy(c.CompositePolicy)
	if err != nil {
		return composite.PolicyAppend
	}
	return p
}

// Timeout returns the per-item fetch deadline.
func (c *AcousticBrainzConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CacheTTL returns the document cache TTL; zero disables caching.
func (c *AcousticBrainzConfig) CacheTTL() time.Duration {
	if c.CacheTTLSec == nil {
		return defaultCacheTTLSec * time.Second
	}
	return time.Duration(*c.CacheTTLSec) * time.Second
}

// NextToMediaEnabled reports whether sidecars go beside media files.
func (c *WriteConfig) NextToMediaEnabled() bool {
	return c.NextToMedia == nil || *c.NextToMedia
}

// AutoEnabled reports whether the import hook fetches.
func (c *FetchConfig) AutoEnabled() bool {
	return c.Auto == nil || *c.Auto
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and go run.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

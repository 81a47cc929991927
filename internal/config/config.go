package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var DefaultProdPatterns = []string{"prod", "production", "prd", "live"}

const (
	defaultRolloutsTTL   = 5 * time.Second
	defaultNamespacesTTL = 30 * time.Second
	defaultEventsTTL     = 10 * time.Second
	defaultLogLevel      = "info"
	appDir               = "rollouts-tui"
)

// AppConfig holds all configuration for rollouts-tui.
type AppConfig struct {
	ProdPatterns       []string      `yaml:"prod_patterns"`
	ReadonlyNamespaces []string      `yaml:"readonly_namespaces"`
	Cache              CacheConfig   `yaml:"cache"`
	Log                LogConfig     `yaml:"log"`
	Metrics            MetricsConfig `yaml:"metrics"`
}

// CacheConfig holds TTL settings for cached resources.
type CacheConfig struct {
	RolloutsTTL   time.Duration `yaml:"rollouts"`
	NamespacesTTL time.Duration `yaml:"namespaces"`
	EventsTTL     time.Duration `yaml:"events"`
}

// LogConfig selects where the log file goes and how verbose it is.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Dir returns ~/.config/rollouts-tui, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *AppConfig) applyDefaults() {
	if len(c.ProdPatterns) == 0 {
		c.ProdPatterns = DefaultProdPatterns
	}
	if c.Cache.RolloutsTTL == 0 {
		c.Cache.RolloutsTTL = defaultRolloutsTTL
	}
	if c.Cache.NamespacesTTL == 0 {
		c.Cache.NamespacesTTL = defaultNamespacesTTL
	}
	if c.Cache.EventsTTL == 0 {
		c.Cache.EventsTTL = defaultEventsTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File == "" {
		if dir := Dir(); dir != "" {
			c.Log.File = filepath.Join(dir, appDir+".log")
		}
	}
}

// LoadConfig loads from the default path ~/.config/rollouts-tui/config.yaml.
func LoadConfig() (*AppConfig, error) {
	path := DefaultPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom loads config from a specific file path.
// Returns defaults if the file does not exist.
func LoadConfigFrom(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// IsReadonlyNamespace checks if a namespace matches any readonly pattern.
// Supports glob matching (e.g. "kube-*").
func IsReadonlyNamespace(namespace string, patterns []string) bool {
	if namespace == "" || len(patterns) == 0 {
		return false
	}
	for _, p := range patterns {
		matched, err := filepath.Match(p, namespace)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// IsProdNamespace checks if a namespace name matches production patterns.
// Matching is done by segment (split on -._) so "product-api" does not
// match "prod".
func IsProdNamespace(namespace string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultProdPatterns
	}
	segments := splitSegments(strings.ToLower(namespace))

	for _, p := range patterns {
		p = strings.ToLower(p)
		for _, seg := range segments {
			if seg == p {
				return true
			}
		}
	}
	return false
}

func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '.' || r == '_'
	})
}

// Package config loads the iaee.yaml / iaee.json settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvRedisURL  = "IAEE_REDIS_URL"
	EnvLogLevel  = "IAEE_LOG_LEVEL"
	EnvReportKey = "IAEE_REPORT_KEY"
)

// DefaultPaths are searched in order when no config path is given.
var DefaultPaths = []string{"iaee.yaml", "iaee.yml", "iaee.json"}

// Config is the complete runtime configuration.
type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Redis  RedisConfig  `yaml:"redis" json:"redis"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Output OutputConfig `yaml:"output" json:"output"`
}

// ServerConfig controls `iaee serve`.
type ServerConfig struct {
	Host  string `yaml:"host" json:"host"`
	Port  int    `yaml:"port" json:"port"`
	UIDir string `yaml:"ui_dir" json:"ui_dir"`
	Open  bool   `yaml:"open" json:"open"`
	Stay  bool   `yaml:"stay" json:"stay"`
}

// RedisConfig enables the Redis report store when URL is set.
type RedisConfig struct {
	URL        string   `yaml:"url" json:"url"`
	Prefix     string   `yaml:"prefix" json:"prefix"`
	TTL        Duration `yaml:"ttl" json:"ttl"`
	MaxReports int      `yaml:"max_reports" json:"max_reports"`
}

// LogConfig selects level and handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // "text" or "json"
}

// OutputConfig controls where compiled reports go besides stdout.
// Encryption and redaction apply to the persisted stores (file, redis) only.
type OutputConfig struct {
	ReportsDir string `yaml:"reports_dir" json:"reports_dir"`
	Pretty     bool   `yaml:"pretty" json:"pretty"`
	// EncryptionKey is a base64 AES-256 key; FallbackKeys decrypt
	// reports written before a rotation.
	EncryptionKey string       `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string     `yaml:"fallback_keys" json:"fallback_keys"`
	Redact        RedactConfig `yaml:"redact" json:"redact"`
}

// RedactConfig lists regular expressions for masking personal data.
type RedactConfig struct {
	Keys   []string `yaml:"keys" json:"keys"`
	Values []string `yaml:"values" json:"values"`
}

// Duration accepts Go duration strings ("24h") in both YAML and JSON.
type Duration time.Duration

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.set(node.Value)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.set(s)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:  "localhost",
			Port:  3000,
			UIDir: filepath.Join("ui", "dist"),
			Open:  true,
		},
		Redis: RedisConfig{
			Prefix: "iaee:report:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config at path over the defaults.
// An empty path searches DefaultPaths; a missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range DefaultPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := decode(path, data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	// Default to YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvReportKey); v != "" {
		cfg.Output.EncryptionKey = v
	}
}

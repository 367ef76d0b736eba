// Package config provides configuration loading and structs for snippetsaver.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Notion  NotionConfig  `yaml:"notion"`
	Capture CaptureConfig `yaml:"capture"`
	Relay   RelayConfig   `yaml:"relay"`
	Browser BrowserConfig `yaml:"browser"`
}

// ServerConfig holds settings of the background daemon's HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// URL returns the base URL clients use to reach the daemon.
func (s ServerConfig) URL() string {
	return "http://" + s.Addr()
}

// StorageConfig holds the path of the key-value database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// NotionConfig holds the remote API endpoint. Credentials live in storage, not here.
type NotionConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
}

// CaptureConfig controls response capture.
type CaptureConfig struct {
	// Mode is "local" (snippet store) or "notion".
	Mode string `yaml:"mode"`
	// PlatformOverride forces "chatgpt" or "gemini" instead of detecting from the host.
	PlatformOverride string `yaml:"platform_override"`
	// RescanDebounce coalesces mutation bursts; zero rescans on every mutation.
	RescanDebounce time.Duration `yaml:"rescan_debounce"`
}

// RelayConfig bounds how long a page-side request waits for the background.
type RelayConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// BrowserConfig configures live-page capture.
type BrowserConfig struct {
	RemoteURL string `yaml:"remote_url"`
	Headless  *bool  `yaml:"headless"`
}

// HeadlessOrDefault returns whether to launch Chrome headless; defaults to true when unset.
func (b *BrowserConfig) HeadlessOrDefault() bool {
	if b.Headless != nil {
		return *b.Headless
	}
	return true
}

// Load reads and parses the config file at path, applies .env and environment
// overrides, expands paths, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	if err := LoadDotEnv(filepath.Join(configDir, ".env")); err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides applied.
// Used when no config file exists.
func Default() (*Config, error) {
	var cfg Config
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	if cwd, err := os.Getwd(); err == nil {
		cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, cwd)
	}
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Environment variables that override file values.
const (
	EnvDebug = "SNIPPETSAVER_DEBUG"
	EnvHost  = "SNIPPETSAVER_HOST"
	EnvPort  = "SNIPPETSAVER_PORT"
	EnvDB    = "SNIPPETSAVER_DB"
	EnvMode  = "SNIPPETSAVER_CAPTURE_MODE"
)

// ApplyEnv overrides cfg with SNIPPETSAVER_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		cfg.Debug = b
	}
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Storage.DatabasePath = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		cfg.Capture.Mode = v
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

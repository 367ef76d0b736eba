package config

import "time"

const (
	DefaultHost         = "localhost"
	DefaultPort         = 8787
	DefaultDatabasePath = ".snippetsaver/snippets.db"
	DefaultNotionURL    = "https://api.notion.com"
	DefaultNotionAPI    = "2022-06-28"
	DefaultCaptureMode  = "local"
	DefaultRelayTimeout = 30 * time.Second
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = DefaultDatabasePath
	}
	if cfg.Notion.BaseURL == "" {
		cfg.Notion.BaseURL = DefaultNotionURL
	}
	if cfg.Notion.APIVersion == "" {
		cfg.Notion.APIVersion = DefaultNotionAPI
	}
	if cfg.Capture.Mode == "" {
		cfg.Capture.Mode = DefaultCaptureMode
	}
	if cfg.Capture.RescanDebounce < 0 {
		cfg.Capture.RescanDebounce = 0
	}
	if cfg.Relay.Timeout <= 0 {
		cfg.Relay.Timeout = DefaultRelayTimeout
	}
}

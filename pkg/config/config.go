package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Playback PlaybackConfig `yaml:"playback"`
	Geometry GeometryConfig `yaml:"geometry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogSettings holds one log destination.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// PlaybackConfig holds the playback machine timings.
type PlaybackConfig struct {
	DebounceWindow   Duration `yaml:"debounce_window"`    // identical step re-entry suppression
	AutoAdvanceDelay Duration `yaml:"auto_advance_delay"` // timed sub-mode delay after last modal
	TimedByDefault   bool     `yaml:"timed_by_default"`
}

// GeometryConfig holds the content-rect cache bounds.
type GeometryConfig struct {
	CacheSize int      `yaml:"cache_size"`
	CacheTTL  Duration `yaml:"cache_ttl"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Address: "127.0.0.1:8750"},
		Log: LogConfig{
			Server:   LogSettings{Path: "logs/server.log", Level: "INFO"},
			Requests: LogSettings{Path: "logs/requests.log", Level: "INFO"},
		},
		DB: DBConfig{Path: "data/tutorgo.db"},
		Playback: PlaybackConfig{
			DebounceWindow:   Duration(100 * time.Millisecond),
			AutoAdvanceDelay: Duration(4 * time.Second),
		},
		Geometry: GeometryConfig{
			CacheSize: 64,
			CacheTTL:  Duration(5 * time.Minute),
		},
	}
}

// Load reads the config file at path, layered over defaults. A missing file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if addr := os.Getenv("TUTORGO_ADDR"); addr != "" {
		cfg.Server.Address = addr
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides: CALENDAR_SERVER__PORT=9090
// overrides server.port.
const EnvPrefix = "CALENDAR_"

// Config represents the top-level calendar service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Calendar CalendarConfig `koanf:"calendar"`
	Export   ExportConfig   `koanf:"export"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StorageConfig struct {
	Type         string `koanf:"type"` // memory | file | postgres
	Path         string `koanf:"path"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type CalendarConfig struct {
	HorizonMonths  int    `koanf:"horizon_months"`
	ConflictWindow string `koanf:"conflict_window"` // parsed and validated on startup
	CacheCapacity  int    `koanf:"cache_capacity"`
	MaxOccurrences int    `koanf:"max_occurrences"`
	Timezone       string `koanf:"timezone"`
	WeekStart      string `koanf:"week_start"` // sunday | monday
}

// Window returns the parsed conflict window. Call Validate first.
func (c CalendarConfig) Window() time.Duration {
	d, _ := time.ParseDuration(c.ConflictWindow)
	return d
}

// Location resolves Timezone. "Local" and "" mean time.Local.
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// FirstWeekday maps WeekStart to a time.Weekday.
func (c CalendarConfig) FirstWeekday() time.Weekday {
	if strings.EqualFold(c.WeekStart, "monday") {
		return time.Monday
	}
	return time.Sunday
}

type ExportConfig struct {
	UIDDomain string `koanf:"uid_domain"`
	ProductID string `koanf:"product_id"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// SlogLevel maps Level to a slog.Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Storage.Type {
	case "memory":
	case "file":
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for file storage")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required for postgres storage")
		}
		if c.Storage.MaxOpenConns <= 0 {
			return fmt.Errorf("storage.max_open_conns must be > 0")
		}
		if c.Storage.MaxIdleConns <= 0 {
			return fmt.Errorf("storage.max_idle_conns must be > 0")
		}
	default:
		return fmt.Errorf("unsupported storage.type %q (must be memory, file or postgres)", c.Storage.Type)
	}

	if c.Calendar.HorizonMonths <= 0 {
		return fmt.Errorf("calendar.horizon_months must be > 0")
	}
	window, err := time.ParseDuration(c.Calendar.ConflictWindow)
	if err != nil {
		return fmt.Errorf("invalid calendar.conflict_window %q: %w", c.Calendar.ConflictWindow, err)
	}
	if window <= 0 {
		return fmt.Errorf("calendar.conflict_window must be > 0")
	}
	if c.Calendar.MaxOccurrences <= 0 {
		return fmt.Errorf("calendar.max_occurrences must be > 0")
	}
	if _, err := c.Calendar.Location(); err != nil {
		return fmt.Errorf("invalid calendar.timezone %q: %w", c.Calendar.Timezone, err)
	}
	if ws := strings.ToLower(c.Calendar.WeekStart); ws != "sunday" && ws != "monday" {
		return fmt.Errorf("invalid calendar.week_start %q (must be sunday or monday)", c.Calendar.WeekStart)
	}

	if strings.TrimSpace(c.Export.UIDDomain) == "" {
		return fmt.Errorf("export.uid_domain is required")
	}

	return nil
}

// Load parses config from defaults, the optional file and CALENDAR_ env vars,
// then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":              8080,
		"server.host":              "0.0.0.0",
		"server.max_body_size_mb":  1,
		"server.mode":              "release",
		"storage.type":             "file",
		"storage.path":             "./data/calendar-events.json",
		"storage.dsn":              "",
		"storage.max_open_conns":   10,
		"storage.max_idle_conns":   5,
		"storage.auto_migrate":     true,
		"calendar.horizon_months":  12,
		"calendar.conflict_window": "1h",
		"calendar.cache_capacity":  1024,
		"calendar.max_occurrences": 5000,
		"calendar.timezone":        "Local",
		"calendar.week_start":      "sunday",
		"export.uid_domain":        "eventcalendar.com",
		"export.product_id":        "-//Event Calendar//Event Calendar//EN",
		"log.level":                "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

/*
Package config loads server and CLI configuration.

PURPOSE:
  One Configuration struct, filled in layers:
    1. Built-in defaults (setDefaults)
    2. config.yaml, if found (or the file passed to Load)
    3. .env in the working directory, if present
    4. SCHEDULE_* environment variables (SCHEDULE_SERVER_PORT, ...)
  The result is validated before use.

SEE ALSO:
  - cmd/server/main.go: flags override the loaded values
*/
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/warp/schedule-engine/generic"
)

type Configuration struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Catalog  CatalogConfig  `mapstructure:"catalog" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig picks the catalog store. The memory driver forgets the
// catalog on restart and ignores Path.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite memory"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// CatalogConfig picks where the catalog comes from on first start.
// Source is "default", "legacy" or a path to a JSON catalog document.
type CatalogConfig struct {
	Source string `mapstructure:"source" validate:"required"`
	Reseed bool   `mapstructure:"reseed"`

	// ReloadInterval is how often the server checks the store for a catalog
	// saved by another process. Zero disables the check.
	ReloadInterval time.Duration `mapstructure:"reload_interval" validate:"min=0"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend" validate:"required,oneof=memory redis none"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

type ScheduleConfig struct {
	// StartDate pins the schedule start (YYYY-MM-DD). Empty means today.
	StartDate         string `mapstructure:"start_date"`
	DefaultDuration   int    `mapstructure:"default_duration" validate:"min=1,max=24"`
	RejectUnscheduled bool   `mapstructure:"reject_unscheduled"`
}

// Load reads configuration. path may name a config file; empty searches
// the usual locations and tolerates none being present.
func Load(path string) (*Configuration, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/schedule-engine")
	}

	v.SetEnvPrefix("SCHEDULE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("catalog.reseed", d.Catalog.Reseed)
	v.SetDefault("catalog.reload_interval", d.Catalog.ReloadInterval)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("schedule.start_date", d.Schedule.StartDate)
	v.SetDefault("schedule.default_duration", d.Schedule.DefaultDuration)
	v.SetDefault("schedule.reject_unscheduled", d.Schedule.RejectUnscheduled)
}

// Validate checks struct tags and cross-field rules.
func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("invalid configuration: redis.addr is required when cache.backend is redis")
	}
	if c.Schedule.StartDate != "" {
		if _, err := generic.ParseDate(c.Schedule.StartDate); err != nil {
			return errors.Wrap(err, "invalid configuration: schedule.start_date")
		}
	}
	return nil
}

// StartDate returns the configured start date, or today when unset.
func (c Configuration) StartDate() generic.TimePoint {
	if c.Schedule.StartDate == "" {
		return generic.Today()
	}
	tp, err := generic.ParseDate(c.Schedule.StartDate)
	if err != nil {
		return generic.Today()
	}
	return tp
}

// GetDefaultConfig returns a default configuration for local development.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{Driver: "sqlite", Path: "schedule.db"},
		Catalog:  CatalogConfig{Source: "default", ReloadInterval: time.Minute},
		Cache:    CacheConfig{Backend: "memory", TTL: 30 * time.Minute},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Logging:  LoggingConfig{Level: "info"},
		Schedule: ScheduleConfig{DefaultDuration: 12},
	}
}

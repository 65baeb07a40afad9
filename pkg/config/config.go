// Package config provides centralized configuration management for the customers MCP server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CUSTOMERS_DATABASE_HOST.
const EnvPrefix = "CUSTOMERS"

// Config holds the complete configuration for the application
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database" validate:"required"`
	Weather  Weather  `mapstructure:"weather" validate:"required"`
	Log      Log      `mapstructure:"log"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

// Server identifies the MCP server to connecting clients
type Server struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
}

// Database holds the static connection parameters for the customer store.
// A fresh pool is built from these values for every repository operation.
type Database struct {
	Host          string `mapstructure:"host" validate:"required"`
	Port          int    `mapstructure:"port" validate:"min=1,max=65535"`
	User          string `mapstructure:"user" validate:"required"`
	Password      string `mapstructure:"password"`
	Name          string `mapstructure:"name" validate:"required"`
	MaintenanceDB string `mapstructure:"maintenance_db" validate:"required"`
	SSLMode       string `mapstructure:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	MaxConns       int32         `mapstructure:"max_conns" validate:"min=1"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"min=0"`
	ConnectRetries int           `mapstructure:"connect_retries" validate:"min=0"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff" validate:"gt=0"`
}

// DSN renders the connection URL for the configured database
func (d Database) DSN() string {
	return d.dsnFor(d.Name)
}

// MaintenanceDSN renders the connection URL for the maintenance database,
// used when the target database itself may not exist yet.
func (d Database) MaintenanceDSN() string {
	return d.dsnFor(d.MaintenanceDB)
}

func (d Database) dsnFor(name string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + name,
	}

	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}

	return u.String()
}

// Weather configures the National Weather Service client
type Weather struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries   int           `mapstructure:"retries" validate:"min=0"`
}

// Log configures the structured logger
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error fatal"`
	Format string `mapstructure:"format" validate:"oneof=text json logfmt"`
}

// Metrics configures the optional Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// setDefaults registers every key so environment overrides are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "Customers MCP Server")
	v.SetDefault("server.version", "1.0.0")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "customers")
	v.SetDefault("database.maintenance_db", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 1)
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.connect_retries", 0)
	v.SetDefault("database.retry_backoff", 200*time.Millisecond)

	v.SetDefault("weather.base_url", "https://api.weather.gov")
	v.SetDefault("weather.user_agent", "weather-app/1.0")
	v.SetDefault("weather.timeout", 30*time.Second)
	v.SetDefault("weather.retries", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from defaults, an optional config file, a .env file
// in the working directory and CUSTOMERS_* environment variables, in increasing
// order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration values are set
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors

		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}

		return fmt.Errorf("configuration validation failed: %v", problems)
	}

	return nil
}

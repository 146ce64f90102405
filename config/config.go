// Package config resolves the panel's runtime settings from embedded metadata,
// an optional TOML file and UPANEL_* environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("UPANEL_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("UPANEL_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("UPANEL_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/user-panel"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

// GetLogFolder returns the folder for the file log backend. An empty value
// disables file logging.
func GetLogFolder() string {
	return os.Getenv("UPANEL_LOG_FOLDER")
}

// WebConfig holds HTTP listener settings.
type WebConfig struct {
	Listen string `toml:"listen"`
	Port   int    `toml:"port"`
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enable            bool `toml:"enable"`
	RequestsPerSecond int  `toml:"requestsPerSecond"`
	Burst             int  `toml:"burst"`
}

// Config is the complete server configuration.
type Config struct {
	Web       WebConfig       `toml:"web"`
	Database  DatabaseConfig  `toml:"database"`
	RateLimit RateLimitConfig `toml:"rateLimit"`
}

// Default returns the configuration used when neither a file nor env overrides are present.
func Default() *Config {
	return &Config{
		Web: WebConfig{
			Listen: "",
			Port:   8080,
		},
		Database: *GetDefaultDatabaseConfig(),
		RateLimit: RateLimitConfig{
			Enable:            true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// UPANEL_CONFIG (if set), then environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("UPANEL_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Database.ValidateConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Web.Listen = getEnv("UPANEL_LISTEN", c.Web.Listen)

	var err error
	if c.Web.Port, err = getEnvInt("UPANEL_PORT", c.Web.Port); err != nil {
		return err
	}
	if c.RateLimit.RequestsPerSecond, err = getEnvInt("UPANEL_RATE_LIMIT_RPS", c.RateLimit.RequestsPerSecond); err != nil {
		return err
	}
	if c.RateLimit.Burst, err = getEnvInt("UPANEL_RATE_LIMIT_BURST", c.RateLimit.Burst); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("UPANEL_RATE_LIMIT_ENABLE"); ok {
		c.RateLimit.Enable = v == "true"
	}

	db := &c.Database
	db.Type = DatabaseType(getEnv("UPANEL_DB_TYPE", string(db.Type)))
	db.SQLite.Path = getEnv("UPANEL_DB_PATH", db.SQLite.Path)
	db.Postgres.Host = getEnv("UPANEL_PG_HOST", db.Postgres.Host)
	if db.Postgres.Port, err = getEnvInt("UPANEL_PG_PORT", db.Postgres.Port); err != nil {
		return err
	}
	db.Postgres.Database = getEnv("UPANEL_PG_DATABASE", db.Postgres.Database)
	db.Postgres.Username = getEnv("UPANEL_PG_USER", db.Postgres.Username)
	db.Postgres.Password = getEnv("UPANEL_PG_PASSWORD", db.Postgres.Password)
	db.MySQL.Addr = getEnv("UPANEL_MYSQL_ADDR", db.MySQL.Addr)
	db.MySQL.Database = getEnv("UPANEL_MYSQL_DATABASE", db.MySQL.Database)
	db.MySQL.Username = getEnv("UPANEL_MYSQL_USER", db.MySQL.Username)
	db.MySQL.Password = getEnv("UPANEL_MYSQL_PASSWORD", db.MySQL.Password)
	return nil
}

// String returns a representation of the config with passwords masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{web: %s:%d, db: %s, rateLimit: %v (%d/s, burst %d)}",
		c.Web.Listen, c.Web.Port, c.Database.String(),
		c.RateLimit.Enable, c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

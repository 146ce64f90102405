package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
	DatabaseTypeMySQL      DatabaseType = "mysql"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     DatabaseType   `toml:"type"`
	SQLite   SQLiteConfig   `toml:"sqlite"`
	Postgres PostgresConfig `toml:"postgres"`
	MySQL    MySQLConfig    `toml:"mysql"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// PostgresConfig holds PostgreSQL specific configuration
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	SSLMode  string `toml:"sslMode"`
	TimeZone string `toml:"timeZone"`
}

// MySQLConfig holds MySQL specific configuration
type MySQLConfig struct {
	Addr     string `toml:"addr"`
	Database string `toml:"database"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypeSQLite:
		return sqliteDSN(c.SQLite.Path)
	case DatabaseTypePostgreSQL:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			c.Postgres.Host,
			c.Postgres.Username,
			c.Postgres.Password,
			c.Postgres.Database,
			c.Postgres.Port,
			c.Postgres.SSLMode,
			c.Postgres.TimeZone,
		)
	case DatabaseTypeMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.MySQL.Username,
			c.MySQL.Password,
			c.MySQL.Addr,
			c.MySQL.Database,
		)
	default:
		return sqliteDSN(c.SQLite.Path)
	}
}

// sqliteDSN appends the pragmas the panel relies on, keeping any query the
// path already carries (in-memory URIs used by tests).
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_foreign_keys=1"
	if !IsInMemorySQLite(path) {
		dsn += "&cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return dsn
}

// IsInMemorySQLite reports whether path names an in-memory SQLite database.
func IsInMemorySQLite(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// GetDefaultDatabaseConfig returns default database configuration
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: getDefaultSQLitePath(),
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "user_panel",
			Username: "user_panel",
			Password: "",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		MySQL: MySQLConfig{
			Addr:     "localhost:3306",
			Database: "user_panel",
			Username: "user_panel",
		},
	}
}

// getDefaultSQLitePath returns the default SQLite database path
func getDefaultSQLitePath() string {
	if IsDebug() {
		return "db/user-panel.db"
	}
	return GetDBPath()
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		if c.Postgres.Host == "" {
			return fmt.Errorf("PostgreSQL host cannot be empty")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("PostgreSQL database name cannot be empty")
		}
		if c.Postgres.Username == "" {
			return fmt.Errorf("PostgreSQL username cannot be empty")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			return fmt.Errorf("PostgreSQL port must be between 1 and 65535")
		}
	case DatabaseTypeMySQL:
		if c.MySQL.Addr == "" {
			return fmt.Errorf("MySQL address cannot be empty")
		}
		if c.MySQL.Database == "" {
			return fmt.Errorf("MySQL database name cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite && !IsInMemorySQLite(c.SQLite.Path) {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

// String describes the target store without credentials.
func (c *DatabaseConfig) String() string {
	switch c.Type {
	case DatabaseTypePostgreSQL:
		return fmt.Sprintf("postgres://%s:***@%s:%d/%s", c.Postgres.Username, c.Postgres.Host, c.Postgres.Port, c.Postgres.Database)
	case DatabaseTypeMySQL:
		return fmt.Sprintf("mysql://%s:***@%s/%s", c.MySQL.Username, c.MySQL.Addr, c.MySQL.Database)
	default:
		return "sqlite://" + c.SQLite.Path
	}
}

// Package database opens the relational store, migrates the schema and exposes
// the shared gorm handle.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/drsdgdbye/user-panel/config"
	"github.com/drsdgdbye/user-panel/database/model"
	"github.com/drsdgdbye/user-panel/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db       *gorm.DB
	dbConfig *config.DatabaseConfig
)

// DefaultRoles are inserted when the role table is empty.
var DefaultRoles = []string{"ROLE_ADMIN", "ROLE_USER"}

func initModels() error {
	models := []any{
		&model.User{},
		&model.Role{},
		&model.UserRole{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func initRoles() error {
	empty, err := isTableEmpty(model.Role{}.TableName())
	if err != nil {
		logger.Errorf("Error checking if roles table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}
	roles := make([]model.Role, 0, len(DefaultRoles))
	for _, name := range DefaultRoles {
		roles = append(roles, model.Role{Name: name})
	}
	logger.Infof("seeding %d default roles", len(roles))
	return db.Create(&roles).Error
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	switch cfg.Type {
	case config.DatabaseTypePostgreSQL:
		return postgres.Open(cfg.GetDSN())
	case config.DatabaseTypeMySQL:
		return mysql.Open(cfg.GetDSN())
	default:
		return sqlite.Open(cfg.GetDSN())
	}
}

// InitDB opens the configured store, migrates the schema and seeds default roles.
func InitDB(cfg *config.DatabaseConfig) error {
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.New(logger.GormWriter{}, gormlogger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      gormlogger.Info,
		})
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var err error
	db, err = gorm.Open(dialector(cfg), c)
	if err != nil {
		return err
	}
	dbConfig = cfg

	if cfg.IsSQLite() {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if config.IsInMemorySQLite(cfg.SQLite.Path) {
			// shared-cache memory databases lock per table across connections
			sqlDB.SetMaxOpenConns(1)
		} else if _, err = sqlDB.Exec("PRAGMA cache_size = -64000;"); err != nil {
			return err
		}
		if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return err
		}
	}

	if err := initModels(); err != nil {
		return err
	}
	return initRoles()
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	if err := Checkpoint(); err != nil {
		logger.Warningf("error executing checkpoint: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return db
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Checkpoint flushes the SQLite WAL into the main database file. It is a no-op
// for other stores and in-memory databases.
func Checkpoint() error {
	if db == nil || dbConfig == nil || !dbConfig.IsSQLite() || config.IsInMemorySQLite(dbConfig.SQLite.Path) {
		return nil
	}
	return db.Exec("PRAGMA wal_checkpoint;").Error
}

// Ping verifies the store is reachable.
func Ping(ctx context.Context) error {
	if db == nil {
		return errors.New("database is not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

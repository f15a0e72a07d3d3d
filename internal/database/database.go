package database

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the store selected by cfg.DBDriver and brings its schema
// up to date when auto-migration is enabled.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if cfg.DBAutoMigrate {
			if err := Migrate(cfg.PostgresURL()); err != nil {
				return nil, err
			}
		}
		return OpenPostgres(cfg.PostgresDSN())
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.DBSQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.DBAutoMigrate {
			if err := AutoMigrate(db); err != nil {
				return nil, err
			}
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info("✅ Connected to postgres")
	return db, nil
}

// OpenSQLite opens path with foreign keys enforced. SQLite serializes writers,
// so the pool is limited to one connection; this also keeps in-memory
// databases alive for the lifetime of the pool.
func OpenSQLite(path string) (*gorm.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := gorm.Open(sqlite.Open(path+sep+"_foreign_keys=on"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.WithField("path", path).Debug("Opened sqlite database")
	return db, nil
}

// AutoMigrate creates the schema from the model definitions. Postgres
// deployments use the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Column{},
		&model.Label{},
		&model.Project{},
		&model.Task{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(),
	}
}

func newLogger() logger.Interface {
	level := logger.Warn
	if log.IsLevelEnabled(log.DebugLevel) {
		level = logger.Info
	}
	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

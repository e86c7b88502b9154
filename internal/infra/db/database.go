// Package db opens and migrates the expense store.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spendwise/backend/config"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

// Database owns the gorm connection pool.
type Database struct {
	db *gorm.DB
}

// NewConnection opens the database selected by cfg.Driver. Postgres is the
// production store; SQLite serves local runs and tests.
func NewConnection(cfg *config.DatabaseConfig) (*Database, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return open(sqlite.Open(cfg.SQLitePath), cfg)
	case config.DriverPostgres, "":
		return open(postgres.Open(cfg.URL), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewSQLiteConnection opens a SQLite database at path. ":memory:" databases
// live as long as the returned Database.
func NewSQLiteConnection(path string) (*Database, error) {
	return NewConnection(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path})
}

// slogWriter routes gorm's slow query and error lines to slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

func newLogger(slowQuery time.Duration) logger.Interface {
	if slowQuery <= 0 {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(slogWriter{}, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func open(dialector gorm.Dialector, cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger(cfg.SlowQuery)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if dialector.Name() == "sqlite" {
		// one writer at a time, and each in-memory connection is a separate database
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	d := &Database{db: db}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	slog.Info("Database connection established", "driver", dialector.Name(), "max_open_conns", maxOpen)
	return d, nil
}

// DB returns the gorm handle shared by the repositories.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Driver reports the dialect in use.
func (d *Database) Driver() string {
	return d.db.Dialector.Name()
}

// Ping checks that the pool can reach the server.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	slog.Info("Database connection closed")
	return nil
}

// Migrate creates or updates the expenses, profiles and email_queue tables.
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(
		&model.ExpenseModel{},
		&model.ProfileModel{},
		&model.EmailQueueModel{},
	); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

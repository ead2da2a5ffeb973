package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Leganyst/naconsulta/internal/config"
	"github.com/Leganyst/naconsulta/internal/logger"
)

const pingTimeout = 10 * time.Second

// NewGormDB opens the configured store, applies pool limits and pings it.
func NewGormDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormLog := logger.NewGormLogger(log, cfg.Log.SlowQuery)

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.Database.SQLitePath))
	default:
		dialector = postgres.Open(cfg.Database.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig(gormLog))
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", cfg.Database.Driver, err)
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")
	return db, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced. A nil
// logger silences GORM.
func OpenSQLite(path string, log gormlogger.Interface) (*gorm.DB, error) {
	if log == nil {
		log = gormlogger.Discard
	}
	db, err := gorm.Open(sqlite.Open(SQLiteDSN(path)), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("gorm open sqlite: %w", err)
	}
	return db, nil
}

// SQLiteDSN appends the foreign key pragma so RESTRICT/CASCADE rules hold.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func gormConfig(log gormlogger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:         log,
		TranslateError: true,
		NowFunc: func() time.Time {
			// always UTC, callers convert for display
			return time.Now().UTC()
		},
	}
}

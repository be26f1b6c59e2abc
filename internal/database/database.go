// Package database opens the store handles and manages the schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"accessdash/internal/config"
	"accessdash/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger routes GORM's statement log into slog. By default only failed
// and slow statements are written.
type GormLogger struct {
	log           *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger returns a GormLogger at Warn level with a 200ms slow query
// threshold.
func NewGormLogger(l *slog.Logger) *GormLogger {
	return &GormLogger{log: l, level: logger.Warn, slowThreshold: 200 * time.Millisecond}
}

// LogMode returns a copy of l at level.
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) printf(ctx context.Context, threshold logger.LogLevel, lvl slog.Level, msg string, data []any) {
	if l.level >= threshold {
		l.log.Log(ctx, lvl, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, data)
}

// Trace logs one executed statement. Missing-record errors are expected on
// lookups and are not logged.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	var (
		lvl slog.Level
		msg string
	)
	switch {
	case failed && l.level >= logger.Error:
		lvl, msg = slog.LevelError, "GORM query error"
	case slow && l.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "GORM slow query"
	case l.level >= logger.Info:
		lvl, msg = slog.LevelInfo, "GORM query"
	default:
		return
	}

	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
	if failed {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log.LogAttrs(ctx, lvl, msg, attrs...)
}

// Connect opens the primary database handle. Schema changes are applied
// separately by ApplySchema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := open(cfg.DSN(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	middleware.Logger.Info("Database connected successfully",
		slog.String("host", cfg.DBHost), slog.String("database", cfg.DBName))
	return db, nil
}

// ConnectRead opens the read replica used by reports. It returns nil without
// error when no replica is configured.
func ConnectRead(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.ReadDSN()
	if dsn == "" {
		return nil, nil
	}
	db, err := open(dsn, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to read replica: %w", err)
	}
	middleware.Logger.Info("Read replica connected", slog.String("host", cfg.DBReadHost))
	return db, nil
}

func open(dsn string, cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(middleware.Logger),
	})
	if err != nil {
		return nil, err
	}
	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMinutes) * time.Minute)
	}
	return nil
}

// Close releases the connection pools behind the given handles. Nil handles
// are skipped.
func Close(handles ...*gorm.DB) {
	for _, db := range handles {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				middleware.Logger.Warn("error closing database", slog.String("error", cerr.Error()))
			}
		}
	}
}

// Ping checks that the store answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

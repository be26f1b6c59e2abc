// Package bootstrap opens the stores and instrumentation shared by the
// server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"accessdash/internal/config"
	"accessdash/internal/database"
	"accessdash/internal/middleware"
	"accessdash/internal/observability"
	"accessdash/internal/redisclient"
	"accessdash/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	ApplySchema bool
	// SkipRedis leaves Runtime.Redis nil, for tools that never rate limit
	SkipRedis bool
	// SeedDemoRequests inserts that many fake requests when the
	// environment is development and the database has none.
	SeedDemoRequests int
}

// Runtime holds the handles opened by InitRuntime.
type Runtime struct {
	DB             *gorm.DB
	ReadDB         *gorm.DB
	Redis          *redis.Client
	ShutdownTracer func(context.Context) error
}

var (
	connectPrimary = database.Connect
	connectReplica = database.ConnectRead
	connectRedis   = redisclient.Connect
)

// InitRuntime connects to the database, the optional read replica and Redis,
// installs tracing and optionally brings the schema up to date.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	rt := &Runtime{}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  observability.ServiceName,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}
	rt.ShutdownTracer = shutdown

	rt.DB, err = connectPrimary(cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt.ReadDB, err = connectReplica(cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("read replica connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, rt.DB, cfg); err != nil {
			rt.Close()
			return nil, fmt.Errorf("schema setup failed: %w", err)
		}
	}

	if opts.SeedDemoRequests > 0 && cfg.IsDevelopment() {
		if err := seedIfEmpty(ctx, rt.DB, opts.SeedDemoRequests); err != nil {
			rt.Close()
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	// Redis is optional; a nil client disables the write limiter
	if !opts.SkipRedis {
		rt.Redis = connectRedis(ctx, cfg.RedisURL)
	}

	return rt, nil
}

func seedIfEmpty(ctx context.Context, db *gorm.DB, requests int) error {
	var count int64
	if err := db.WithContext(ctx).Table("access_requests").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		middleware.Logger.InfoContext(ctx, "demo data already present", slog.Int64("requests", count))
		return nil
	}
	_, err := seed.NewSeeder(db, seed.Options{Requests: requests}).Run(ctx)
	return err
}

// Close releases everything InitRuntime opened. It is safe on a partially
// initialized runtime.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	if r.ShutdownTracer != nil {
		if err := r.ShutdownTracer(context.Background()); err != nil {
			middleware.Logger.Warn("error flushing traces", slog.String("error", err.Error()))
		}
	}
	database.Close(r.DB, r.ReadDB)
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
}

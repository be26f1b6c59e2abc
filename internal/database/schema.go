package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"accessdash/internal/config"
	"accessdash/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// requiredTables must exist before the API serves reports.
var requiredTables = []string{"users", "departments", "systems", "access_requests", "request_comments"}

// SchemaPlan is the set of schema mechanisms a configuration enables.
type SchemaPlan struct {
	Mode        string
	Environment string
	SQL         bool
	AutoMigrate bool
}

// SchemaStatus is a SchemaPlan plus what the database already has.
type SchemaStatus struct {
	SchemaPlan
	AppliedVersions   []int
	PendingMigrations []Migration
	MissingTables     []string
}

var protectedEnvs = []string{"production", "prod", "staging", "stage"}

// PlanSchema resolves DB_SCHEMA_MODE for the configured environment. SQL
// migrations always run unless the mode is auto; AutoMigrate never runs in a
// protected environment.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{
		Mode:        strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		Environment: cfg.Env,
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	protected := slices.Contains(protectedEnvs, strings.ToLower(strings.TrimSpace(cfg.Env)))

	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.AutoMigrate = !protected
	case SchemaModeAuto:
		if protected {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed in %q", cfg.Env)
		}
		plan.AutoMigrate = true
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// ApplySchema runs the planned mechanisms and then checks that every table
// the reports read from is present.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.AutoMigrate {
		middleware.Logger.InfoContext(ctx, "auto-migrating models",
			slog.String("mode", plan.Mode), slog.String("env", plan.Environment))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	if missing := missingTables(db); len(missing) > 0 {
		return fmt.Errorf("schema incomplete, missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func missingTables(db *gorm.DB) []string {
	var missing []string
	m := db.Migrator()
	for _, table := range requiredTables {
		if !m.HasTable(table) {
			missing = append(missing, table)
		}
	}
	return missing
}

// GetSchemaStatus reports the plan, applied and pending migrations and any
// missing tables. It changes nothing.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan, MissingTables: missingTables(db)}
	if !plan.SQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied
	status.PendingMigrations = pendingMigrations(applied, GetMigrations())
	return status, nil
}

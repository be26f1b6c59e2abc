package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"accessdash/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is one row of the migration ledger.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName pins the ledger table name.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// MigrationStore reads and writes the migration ledger. Script execution and
// the ledger write share a transaction.
type MigrationStore struct {
	db *gorm.DB
}

// NewMigrationStore wraps db.
func NewMigrationStore(db *gorm.DB) *MigrationStore {
	return &MigrationStore{db: db}
}

func (s *MigrationStore) ensureLedger(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}
	return nil
}

// GetAppliedMigrations lists recorded versions in ascending order. A database
// without the ledger table has nothing applied.
func (s *MigrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(&MigrationLog{}) {
		return []int{}, nil
	}
	versions := []int{}
	if err := db.Model(&MigrationLog{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return versions, nil
}

// ApplyMigration runs the up script and records m.
func (s *MigrationStore) ApplyMigration(ctx context.Context, m Migration) error {
	return s.inTx(ctx, "Migration applied", m, func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("migration %s failed: %w", m.String(), err)
		}
		return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
	})
}

// RevertMigration runs the down script and forgets m.
func (s *MigrationStore) RevertMigration(ctx context.Context, m Migration) error {
	return s.inTx(ctx, "Migration rolled back", m, func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("rollback of %s failed: %w", m.String(), err)
		}
		return tx.Delete(&MigrationLog{}, "version = ?", m.Version).Error
	})
}

func (s *MigrationStore) inTx(ctx context.Context, done string, m Migration, fn func(tx *gorm.DB) error) error {
	if err := s.db.WithContext(ctx).Transaction(fn); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, done, slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

// RunMigrations applies every embedded migration missing from the ledger.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return runMigrations(ctx, db, migrations)
}

func runMigrations(ctx context.Context, db *gorm.DB, registered []Migration) error {
	store := NewMigrationStore(db)
	if err := store.ensureLedger(ctx); err != nil {
		return err
	}
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, registered); err != nil {
		return err
	}

	pending := pendingMigrations(applied, registered)
	if len(pending) == 0 {
		middleware.Logger.DebugContext(ctx, "Schema up to date", slog.Int("applied", len(applied)))
		return nil
	}
	for _, m := range pending {
		if err := store.ApplyMigration(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// pendingMigrations returns registered migrations absent from applied, in
// version order.
func pendingMigrations(applied []int, registered []Migration) []Migration {
	var pending []Migration
	for _, m := range registered {
		if !slices.Contains(applied, m.Version) {
			pending = append(pending, m)
		}
	}
	return pending
}

// validateAppliedVersions refuses to run against a ledger written by a newer
// build.
func validateAppliedVersions(applied []int, registered []Migration) error {
	var unknown []string
	for _, v := range applied {
		if !slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == v }) {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("migration_logs contains versions unknown to this build: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// RollbackMigration reverts one applied migration by version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}
	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %s has not been applied", m)
	}
	return store.RevertMigration(ctx, *m)
}

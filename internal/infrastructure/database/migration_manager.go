package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkglogger "shopunit-catalog/pkg/logger"
)

// MigrationRecord tracks applied migrations.
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for MigrationRecord.
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Migration is one forward/backward schema step.
type Migration struct {
	Version string
	Name    string
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

// MigrationManager applies the catalog's schema migrations in order,
// tracking what has already run in schema_migrations.
type MigrationManager struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrationManager constructs a migration manager over the catalog's
// fixed migration list.
func NewMigrationManager(db *gorm.DB) *MigrationManager {
	return &MigrationManager{db: db, migrations: catalogMigrations()}
}

// Run applies every pending migration inside its own transaction.
func (m *MigrationManager) Run(ctx context.Context) error {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("create migration tracking table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}

		pkglogger.Info("applying migration", pkglogger.Fields{"version": mig.Version, "name": mig.Name})

		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return fmt.Errorf("migration %s: %w", mig.Version, err)
			}
			return tx.Create(&MigrationRecord{Version: mig.Version, Name: mig.Name}).Error
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Rollback reverts the most recently applied migration.
func (m *MigrationManager) Rollback(ctx context.Context) error {
	var last MigrationRecord
	if err := m.db.Order("applied_at DESC").First(&last).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("read last migration: %w", err)
	}

	var def *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			def = &m.migrations[i]
			break
		}
	}
	if def == nil {
		return fmt.Errorf("no migration definition for version %s", last.Version)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := def.Down(tx); err != nil {
			return fmt.Errorf("rollback %s: %w", def.Version, err)
		}
		return tx.Delete(&last).Error
	})
}

func (m *MigrationManager) appliedVersions() (map[string]bool, error) {
	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.Version] = true
	}
	return applied, nil
}

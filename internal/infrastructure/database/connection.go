package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopunit-catalog/internal/config"
	"shopunit-catalog/internal/domain/repository"
	pkglogger "shopunit-catalog/pkg/logger"
)

// NewConnection opens the catalog's postgres connection and tunes its pool.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormLogger logger.Interface
	if cfg.LogQueries {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pkglogger.Info("database connection established", nil)
	return db, nil
}

// TxManager runs a function inside one gorm transaction (serializable for
// WithinTx, read-only repeatable read for WithinReadOnlyTx), handing it a
// repository.Store bound to that transaction. It implements
// repository.TxManager.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager constructs a gorm-backed transaction manager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (t *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (t *TxManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

// Package service owns the request-scoped transaction boundary and wires
// the planner, executor and readers into the five operations the HTTP edge
// exposes. It is the only caller of repository.TxManager: every mutating
// call opens exactly one transaction, hands its bound Store to the planner
// and then the executor, and commits or rolls back as a unit (spec.md §5).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/executor"
	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/planner"
	"shopunit-catalog/internal/domain/reader"
	"shopunit-catalog/internal/domain/repository"
	pkgerrors "shopunit-catalog/pkg/errors"
	pkglogger "shopunit-catalog/pkg/logger"
)

// Catalog is the application-facing contract the HTTP edge drives.
type Catalog interface {
	Import(ctx context.Context, items []model.ShopUnitImport, updateDate time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	Node(ctx context.Context, id uuid.UUID) (*model.ShopUnit, error)
	Statistic(ctx context.Context, id uuid.UUID, start, end time.Time) ([]model.StatUnit, error)
	Sales(ctx context.Context, date time.Time) ([]model.StatUnit, error)
}

type catalog struct {
	tx      repository.TxManager
	planner planner.Planner
	exec    executor.Executor
}

// New constructs the catalog service.
func New(tx repository.TxManager, p planner.Planner, e executor.Executor) Catalog {
	return &catalog{tx: tx, planner: p, exec: e}
}

func (c *catalog) Import(ctx context.Context, items []model.ShopUnitImport, updateDate time.Time) error {
	err := c.tx.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		plan, err := c.planner.PlanImport(ctx, store, items, updateDate)
		if err != nil {
			return err
		}
		return c.exec.Execute(ctx, store, plan)
	})
	if err != nil && !pkgerrors.IsAppError(err) {
		pkglogger.Error("import batch failed", err, pkglogger.Fields{"items": len(items)})
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeInternal, "import failed")
	}
	return err
}

func (c *catalog) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.tx.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		plan, err := c.planner.PlanDelete(ctx, store, id)
		if err != nil {
			return err
		}
		return c.exec.Execute(ctx, store, plan)
	})
	if err != nil && !pkgerrors.IsAppError(err) {
		pkglogger.Error("delete failed", err, pkglogger.Fields{"id": id.String()})
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeInternal, "delete failed")
	}
	return err
}

func (c *catalog) Node(ctx context.Context, id uuid.UUID) (*model.ShopUnit, error) {
	var result *model.ShopUnit
	err := c.tx.WithinReadOnlyTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		result, err = reader.New(store).Node(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *catalog) Statistic(ctx context.Context, id uuid.UUID, start, end time.Time) ([]model.StatUnit, error) {
	var result []model.StatUnit
	err := c.tx.WithinReadOnlyTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		result, err = reader.New(store).Statistic(ctx, id, start, end)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *catalog) Sales(ctx context.Context, date time.Time) ([]model.StatUnit, error) {
	var result []model.StatUnit
	err := c.tx.WithinReadOnlyTx(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		result, err = reader.New(store).Sales(ctx, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

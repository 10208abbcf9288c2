package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
)

// UnitRepository is the store-adapter contract over the units table.
type UnitRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Unit, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]*model.Unit, error)

	// Upsert writes name/parent/is_category/price/last_update. When the row
	// already exists, it is a conditional UPDATE ... WHERE is_category = ?;
	// zero rows affected on an existing row is reported as an internal
	// error (the second-line defense of spec.md §4.4 point 2 — the planner
	// must already have rejected an is_category change before this runs).
	Upsert(ctx context.Context, u *model.Unit) error

	// UpdatePrice overwrites price and last_update for a category whose
	// derived mean changed as part of an import batch.
	UpdatePrice(ctx context.Context, id uuid.UUID, price *int64, lastUpdate time.Time) error

	// UpdateDerivedPrice overwrites only price for a category whose derived
	// mean changed as a side effect of a deletion; deletions never advance
	// last_update (spec.md §4.5).
	UpdateDerivedPrice(ctx context.Context, id uuid.UUID, price *int64) error

	// TouchLastUpdate sets last_update on a set of units without altering
	// anything else (the executor applies it to every unit an import touches).
	TouchLastUpdate(ctx context.Context, ids []uuid.UUID, lastUpdate time.Time) error

	DeleteMany(ctx context.Context, ids []uuid.UUID) error
}

// AggregateRepository is the store-adapter contract over category_aggregates.
type AggregateRepository interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.CategoryAggregate, error)
	Create(ctx context.Context, id uuid.UUID) error
	Upsert(ctx context.Context, a *model.CategoryAggregate) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
}

// HierarchyRepository is the store-adapter contract over hierarchy_edges,
// the closure table backing the hierarchy index (spec.md §4.1).
type HierarchyRepository interface {
	// Ancestors returns, for each id, the category ids from its immediate
	// parent up to the root (order unimportant).
	Ancestors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)

	// DescendantIDs returns every descendant of root (including root
	// itself), both offers and categories.
	DescendantIDs(ctx context.Context, root uuid.UUID) ([]uuid.UUID, error)

	InsertEdges(ctx context.Context, edges []model.HierarchyEdge) error

	// DeleteSubtree removes every edge whose ancestor or descendant is in
	// ids (spec.md §4.1 destroy).
	DeleteSubtree(ctx context.Context, ids []uuid.UUID) error

	// DeleteCrossEdges removes every edge (a, d) with a in ancestorIDs and d
	// in descendantIDs — used by rebuild to drop exactly the edges crossing
	// a moved subtree's boundary, leaving the subtree's inner edges intact.
	DeleteCrossEdges(ctx context.Context, ancestorIDs, descendantIDs []uuid.UUID) error
}

// HistoryRepository is the store-adapter contract over price_history_events.
type HistoryRepository interface {
	Append(ctx context.Context, events []model.PriceHistoryEvent) error
	Range(ctx context.Context, unitID uuid.UUID, start, end time.Time) ([]model.PriceHistoryEvent, error)
	DeleteByUnitIDs(ctx context.Context, ids []uuid.UUID) error

	// LatestInRange returns, for every unit (categories included) whose most
	// recent event's date lies in [start, end], that latest event (spec.md
	// §4.6 sales). Narrowing to offers is left to the caller.
	LatestInRange(ctx context.Context, start, end time.Time) ([]model.PriceHistoryEvent, error)
}

// Store bundles the four table-scoped repositories the engine operates on.
type Store interface {
	Units() UnitRepository
	Aggregates() AggregateRepository
	Hierarchy() HierarchyRepository
	History() HistoryRepository
}

// TxManager runs fn inside one serializable transaction, handing it a Store
// bound to that transaction. Any error returned by fn rolls the transaction
// back; a nil return commits it. This is what gives a mutating endpoint the
// atomicity spec.md §5 requires: planner reads and executor writes share one
// transaction, so no concurrent request can observe or interleave with a
// partial plan.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error

	// WithinReadOnlyTx runs fn inside one read-only transaction, giving the
	// readers (spec.md §4.6) a consistent snapshot across the several
	// queries a subtree walk or sales scan issues, without holding locks
	// that would contend with writers.
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

package planner

import (
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/aggregate"
	"shopunit-catalog/internal/domain/model"
)

// HierarchyOpKind discriminates the hierarchy-index operations a plan can
// request (spec.md §4.1).
type HierarchyOpKind string

const (
	OpBuild   HierarchyOpKind = "build"
	OpRebuild HierarchyOpKind = "rebuild"
	OpDestroy HierarchyOpKind = "destroy"
)

// HierarchyOp is one closure-table edit the executor applies in phase 1.
type HierarchyOp struct {
	Kind     HierarchyOpKind
	UnitID   uuid.UUID
	ParentID *uuid.UUID // new/only parent; meaningless for OpDestroy
}

// Contribution is an additive (Δsum, Δcount) destined for a set of
// category ids. Exactly one of AncestorIDs or AnchorID is set:
//
//   - AncestorIDs is a pre-resolved id list, snapshotted by the planner from
//     the pre-batch store state — used when the chain is about to be
//     rebuilt or destroyed and would no longer be readable afterward.
//   - AnchorID names a unit whose ancestor chain (immediate parent up to
//     root) the executor must resolve AFTER the hierarchy phase runs —
//     used whenever the chain is unaffected, or newly built, by this batch.
type Contribution struct {
	AncestorIDs []uuid.UUID
	AnchorID    *uuid.UUID
	Delta       aggregate.Delta
}

// Plan is the planner's sole output: everything the executor needs to
// apply one batch (or one delete) under a single transaction.
type Plan struct {
	Date time.Time

	// TouchAncestors is true for an import plan and false for a delete
	// plan: deletions recompute ancestor aggregates and derived prices but
	// never advance last_update or append history events (spec.md §4.5).
	TouchAncestors bool

	UnitUpserts      []model.Unit
	NewCategoryIDs   []uuid.UUID // aggregates to create at (sum=0, count=0)
	UnitDeletes      []uuid.UUID // units (and cascaded descendants) to hard-delete
	AggregateDeletes []uuid.UUID // category aggregates to delete (subset of UnitDeletes)
	HistoryDeletes   []uuid.UUID // unit ids whose history rows are purged

	HierarchyOps  []HierarchyOp
	Contributions []Contribution

	// AffectedUnitIDs are ids that always get a history event appended,
	// regardless of whether they're also reached as an ancestor chain
	// member. Deduplication against ancestor-chain members happens in the
	// executor, which owns the final union.
	AffectedUnitIDs []uuid.UUID
}

func (p *Plan) touchSelf(id uuid.UUID, delta aggregate.Delta) {
	anchor := id
	p.Contributions = append(p.Contributions, Contribution{AnchorID: &anchor, Delta: delta})
	p.AffectedUnitIDs = append(p.AffectedUnitIDs, id)
}

func (p *Plan) removeFromOldChain(ancestorIDs []uuid.UUID, delta aggregate.Delta) {
	if len(ancestorIDs) == 0 {
		return
	}
	p.Contributions = append(p.Contributions, Contribution{AncestorIDs: ancestorIDs, Delta: delta})
}

// Package executor applies a planner.Plan in the phase order spec.md §4.4
// requires: hierarchy edits, then unit rows, then aggregate deltas, then
// price-history events. The caller supplies the Store already bound to the
// transaction it shares with the planner's reads.
package executor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/aggregate"
	"shopunit-catalog/internal/domain/hierarchy"
	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/planner"
	"shopunit-catalog/internal/domain/repository"
)

// Executor applies a plan to store. The caller (internal/service) is
// responsible for binding store to the single transaction that also backed
// the planner's reads — the executor itself never opens or closes one, so
// that planner reads and executor writes can share one atomic unit
// (spec.md §5).
type Executor interface {
	Execute(ctx context.Context, store repository.Store, plan *planner.Plan) error
}

type executor struct {
	aggregates aggregate.Service
}

// New constructs the plan executor.
func New(aggregates aggregate.Service) Executor {
	return &executor{aggregates: aggregates}
}

func (e *executor) Execute(ctx context.Context, store repository.Store, plan *planner.Plan) error {
	idx := hierarchy.New(store.Hierarchy(), store.Units())

	// Phase 1: hierarchy edits.
	for _, op := range plan.HierarchyOps {
		var err error
		switch op.Kind {
		case planner.OpBuild:
			err = idx.Build(ctx, op.UnitID, op.ParentID)
		case planner.OpRebuild:
			err = idx.Rebuild(ctx, op.UnitID, op.ParentID)
		case planner.OpDestroy:
			err = idx.Destroy(ctx, op.UnitID)
		}
		if err != nil {
			return err
		}
	}

	// Phase 2: unit rows (upserts, new aggregates, deletes).
	for i := range plan.UnitUpserts {
		if err := store.Units().Upsert(ctx, &plan.UnitUpserts[i]); err != nil {
			return err
		}
	}
	for _, id := range plan.NewCategoryIDs {
		if err := store.Aggregates().Create(ctx, id); err != nil {
			return err
		}
	}
	if len(plan.UnitDeletes) > 0 {
		if err := store.Units().DeleteMany(ctx, plan.UnitDeletes); err != nil {
			return err
		}
	}
	if len(plan.AggregateDeletes) > 0 {
		if err := store.Aggregates().DeleteMany(ctx, plan.AggregateDeletes); err != nil {
			return err
		}
	}
	if len(plan.HistoryDeletes) > 0 {
		if err := store.History().DeleteByUnitIDs(ctx, plan.HistoryDeletes); err != nil {
			return err
		}
	}

	// Phase 3: aggregate deltas, resolved against the hierarchy as it
	// stands after phase 1.
	deltas, affected, err := resolveDeltas(ctx, idx, plan.Contributions)
	if err != nil {
		return err
	}
	updated, err := e.aggregates.Apply(ctx, store, deltas)
	if err != nil {
		return err
	}

	touched := dedupIDs(append(append([]uuid.UUID{}, plan.AffectedUnitIDs...), affected...))

	if plan.TouchAncestors {
		if len(touched) > 0 {
			if err := store.Units().TouchLastUpdate(ctx, touched, plan.Date); err != nil {
				return err
			}
		}
		for id, agg := range updated {
			if err := store.Units().UpdatePrice(ctx, id, aggregate.Price(agg), plan.Date); err != nil {
				return err
			}
		}
		// Phase 4: price-history events, one per touched unit, deduped by id.
		return appendHistory(ctx, store, touched, plan.Date)
	}

	for id, agg := range updated {
		if err := store.Units().UpdateDerivedPrice(ctx, id, aggregate.Price(agg)); err != nil {
			return err
		}
	}
	return nil
}

func resolveDeltas(ctx context.Context, idx hierarchy.Index, contributions []planner.Contribution) (map[uuid.UUID]aggregate.Delta, []uuid.UUID, error) {
	anchors := make([]uuid.UUID, 0, len(contributions))
	anchorSet := make(map[uuid.UUID]bool, len(contributions))
	for _, c := range contributions {
		if c.AnchorID != nil && !anchorSet[*c.AnchorID] {
			anchorSet[*c.AnchorID] = true
			anchors = append(anchors, *c.AnchorID)
		}
	}

	resolved, err := idx.Ancestors(ctx, anchors)
	if err != nil {
		return nil, nil, err
	}

	deltas := make(map[uuid.UUID]aggregate.Delta)
	var affected []uuid.UUID

	add := func(id uuid.UUID, d aggregate.Delta) {
		cur := deltas[id]
		cur.Sum += d.Sum
		cur.Count += d.Count
		deltas[id] = cur
		affected = append(affected, id)
	}

	for _, c := range contributions {
		if c.AnchorID != nil {
			for _, id := range resolved[*c.AnchorID] {
				add(id, c.Delta)
			}
			continue
		}
		for _, id := range c.AncestorIDs {
			add(id, c.Delta)
		}
	}

	return deltas, affected, nil
}

func appendHistory(ctx context.Context, store repository.Store, touched []uuid.UUID, date time.Time) error {
	if len(touched) == 0 {
		return nil
	}

	units, err := store.Units().GetByIDs(ctx, touched)
	if err != nil {
		return err
	}

	events := make([]model.PriceHistoryEvent, 0, len(touched))
	for _, id := range touched {
		u, ok := units[id]
		if !ok {
			continue
		}
		events = append(events, model.PriceHistoryEvent{UnitID: u.ID, Price: u.Price, Date: date})
	}

	return store.History().Append(ctx, events)
}

func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

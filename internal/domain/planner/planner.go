// Package planner turns an incoming import batch, or a single delete
// request, into a Plan: the full set of row upserts, hierarchy edits and
// aggregate contributions the executor must apply transactionally
// (spec.md §4.3, "the heart" of the system).
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/aggregate"
	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/repository"
	pkgerrors "shopunit-catalog/pkg/errors"
)

// Planner builds plans from pre-images read out of the store. It never
// writes; the executor owns every mutation.
type Planner interface {
	PlanImport(ctx context.Context, store repository.Store, items []model.ShopUnitImport, updateDate time.Time) (*Plan, error)
	PlanDelete(ctx context.Context, store repository.Store, id uuid.UUID) (*Plan, error)
}

type planner struct{}

// New constructs the unit update planner.
func New() Planner {
	return &planner{}
}

func (p *planner) PlanImport(ctx context.Context, store repository.Store, items []model.ShopUnitImport, updateDate time.Time) (*Plan, error) {
	if len(items) == 0 {
		return &Plan{Date: updateDate, TouchAncestors: true}, nil
	}

	order, err := validateAndOrder(items)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.ShopUnitImport, len(items))
	idSet := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		byID[it.ID] = it
		idSet[it.ID] = true
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	for _, it := range items {
		if it.ParentID != nil && !idSet[*it.ParentID] {
			ids = append(ids, *it.ParentID)
			idSet[*it.ParentID] = true
		}
	}

	existing, err := store.Units().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstStore(items, existing); err != nil {
		return nil, err
	}
	if err := validateParents(items, byID, existing); err != nil {
		return nil, err
	}

	plan := &Plan{Date: updateDate, TouchAncestors: true}

	for _, id := range order {
		item := byID[id]
		old := existing[id]

		switch {
		case old == nil && item.Type == model.UnitTypeOffer:
			planNewOffer(plan, item, updateDate)
		case old == nil && item.Type == model.UnitTypeCategory:
			planNewCategory(plan, item, updateDate)
		case old != nil && !old.IsCategory:
			if err := planExistingOffer(ctx, store, plan, item, old, updateDate); err != nil {
				return nil, err
			}
		default:
			if err := planExistingCategory(ctx, store, plan, item, old, updateDate); err != nil {
				return nil, err
			}
		}
	}

	return plan, nil
}

func planNewOffer(plan *Plan, item model.ShopUnitImport, T time.Time) {
	plan.UnitUpserts = append(plan.UnitUpserts, model.Unit{
		ID: item.ID, Name: item.Name, ParentID: item.ParentID,
		IsCategory: false, Price: item.Price, LastUpdate: T,
	})
	plan.HierarchyOps = append(plan.HierarchyOps, HierarchyOp{Kind: OpBuild, UnitID: item.ID, ParentID: item.ParentID})
	plan.touchSelf(item.ID, aggregate.Delta{Sum: *item.Price, Count: 1})
}

func planNewCategory(plan *Plan, item model.ShopUnitImport, T time.Time) {
	plan.UnitUpserts = append(plan.UnitUpserts, model.Unit{
		ID: item.ID, Name: item.Name, ParentID: item.ParentID,
		IsCategory: true, Price: nil, LastUpdate: T,
	})
	plan.NewCategoryIDs = append(plan.NewCategoryIDs, item.ID)
	plan.HierarchyOps = append(plan.HierarchyOps, HierarchyOp{Kind: OpBuild, UnitID: item.ID, ParentID: item.ParentID})
	plan.touchSelf(item.ID, aggregate.Delta{})
}

func planExistingOffer(ctx context.Context, store repository.Store, plan *Plan, item model.ShopUnitImport, old *model.Unit, T time.Time) error {
	plan.UnitUpserts = append(plan.UnitUpserts, model.Unit{
		ID: item.ID, Name: item.Name, ParentID: item.ParentID,
		IsCategory: false, Price: item.Price, LastUpdate: T,
	})

	parentChanged := !uuidPtrEqual(old.ParentID, item.ParentID)
	if parentChanged {
		oldChain, err := store.Hierarchy().Ancestors(ctx, []uuid.UUID{item.ID})
		if err != nil {
			return err
		}
		plan.removeFromOldChain(oldChain[item.ID], aggregate.Delta{Sum: -*old.Price, Count: -1})
		plan.HierarchyOps = append(plan.HierarchyOps, HierarchyOp{Kind: OpRebuild, UnitID: item.ID, ParentID: item.ParentID})
		plan.touchSelf(item.ID, aggregate.Delta{Sum: *item.Price, Count: 1})
		return nil
	}

	priceChanged := old.Price == nil || *old.Price != *item.Price
	if priceChanged {
		plan.touchSelf(item.ID, aggregate.Delta{Sum: *item.Price - *old.Price, Count: 0})
		return nil
	}

	plan.touchSelf(item.ID, aggregate.Delta{})
	return nil
}

func planExistingCategory(ctx context.Context, store repository.Store, plan *Plan, item model.ShopUnitImport, old *model.Unit, T time.Time) error {
	parentChanged := !uuidPtrEqual(old.ParentID, item.ParentID)

	plan.UnitUpserts = append(plan.UnitUpserts, model.Unit{
		ID: item.ID, Name: item.Name, ParentID: item.ParentID,
		IsCategory: true, Price: old.Price, LastUpdate: T,
	})

	if !parentChanged {
		plan.touchSelf(item.ID, aggregate.Delta{})
		return nil
	}

	aggs, err := store.Aggregates().GetMany(ctx, []uuid.UUID{item.ID})
	if err != nil {
		return err
	}
	sum, count := int64(0), int64(0)
	if a, ok := aggs[item.ID]; ok {
		sum, count = a.Sum, a.Count
	}

	oldChain, err := store.Hierarchy().Ancestors(ctx, []uuid.UUID{item.ID})
	if err != nil {
		return err
	}
	plan.removeFromOldChain(oldChain[item.ID], aggregate.Delta{Sum: -sum, Count: -count})
	plan.HierarchyOps = append(plan.HierarchyOps, HierarchyOp{Kind: OpRebuild, UnitID: item.ID, ParentID: item.ParentID})
	plan.touchSelf(item.ID, aggregate.Delta{Sum: sum, Count: count})
	return nil
}

func (p *planner) PlanDelete(ctx context.Context, store repository.Store, id uuid.UUID) (*Plan, error) {
	unit, err := store.Units().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, pkgerrors.NotFound("unit not found")
	}

	plan := &Plan{}

	oldChain, err := store.Hierarchy().Ancestors(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	if !unit.IsCategory {
		plan.removeFromOldChain(oldChain[id], aggregate.Delta{Sum: -*unit.Price, Count: -1})
		plan.HierarchyOps = append(plan.HierarchyOps, HierarchyOp{Kind: OpDestroy, UnitID: id})
		plan.UnitDeletes = []uuid.UUID{id}
		plan.HistoryDeletes = []uuid.UUID{id}
		return plan, nil
	}

	aggs, err := store.Aggregates().GetMany(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	sum, count := int64(0), int64(0)
	if a, ok := aggs[id]; ok {
		sum, count = a.Sum, a.Count
	}
	plan.removeFromOldChain(oldChain[id], aggregate.Delta{Sum: -sum, Count: -count})

	subtreeIDs, err := store.Hierarchy().DescendantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	subtreeUnits, err := store.Units().GetByIDs(ctx, subtreeIDs)
	if err != nil {
		return nil, err
	}

	aggregateDeletes := make([]uuid.UUID, 0, len(subtreeIDs))
	for _, sid := range subtreeIDs {
		if u, ok := subtreeUnits[sid]; ok && u.IsCategory {
			aggregateDeletes = append(aggregateDeletes, sid)
		} else if sid == id {
			aggregateDeletes = append(aggregateDeletes, sid)
		}
	}

	plan.HierarchyOps = append(plan.HierarchyOps, HierarchyOp{Kind: OpDestroy, UnitID: id})
	plan.UnitDeletes = subtreeIDs
	plan.AggregateDeletes = aggregateDeletes
	plan.HistoryDeletes = subtreeIDs
	return plan, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

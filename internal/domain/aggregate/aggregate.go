// Package aggregate maintains the per-category (sum, count) backing the
// derived floored mean, so the mean is O(1) to compute and batch deltas
// compose additively (spec.md §4.2).
package aggregate

import (
	"context"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/repository"
)

// Delta is an additive (Δsum, Δcount) contribution to a category's
// aggregate from a single mutation.
type Delta struct {
	Sum   int64
	Count int64
}

// Merge adds delta to current and returns the resulting aggregate.
func Merge(current model.CategoryAggregate, delta Delta) model.CategoryAggregate {
	return model.CategoryAggregate{
		ID:    current.ID,
		Sum:   current.Sum + delta.Sum,
		Count: current.Count + delta.Count,
	}
}

// Price returns the floored mean, or nil when count is zero.
func Price(a model.CategoryAggregate) *int64 {
	if a.Count <= 0 {
		return nil
	}
	mean := a.Sum / a.Count
	return &mean
}

// Service applies a batch of per-category deltas additively and persists
// the resulting aggregates.
type Service interface {
	Apply(ctx context.Context, store repository.Store, deltas map[uuid.UUID]Delta) (map[uuid.UUID]model.CategoryAggregate, error)
}

type service struct{}

// New constructs the category aggregate service.
func New() Service {
	return &service{}
}

func (s *service) Apply(ctx context.Context, store repository.Store, deltas map[uuid.UUID]Delta) (map[uuid.UUID]model.CategoryAggregate, error) {
	if len(deltas) == 0 {
		return map[uuid.UUID]model.CategoryAggregate{}, nil
	}

	ids := make([]uuid.UUID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}

	current, err := store.Aggregates().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make(map[uuid.UUID]model.CategoryAggregate, len(deltas))
	for id, delta := range deltas {
		cur := model.CategoryAggregate{ID: id}
		if existing, ok := current[id]; ok {
			cur = *existing
		}

		merged := Merge(cur, delta)
		if err := store.Aggregates().Upsert(ctx, &merged); err != nil {
			return nil, err
		}
		results[id] = merged
	}

	return results, nil
}

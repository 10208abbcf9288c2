// Package repotest provides an in-memory repository.Store used by the
// domain package tests (hierarchy, aggregate, planner, executor, reader) so
// each can be exercised without a real Postgres instance.
package repotest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/repository"
)

// MemStore is an in-memory repository.Store backed by plain maps. It is not
// concurrency-safe; tests are expected to drive it sequentially, the same
// way a single request's transaction would.
type MemStore struct {
	units      map[uuid.UUID]*model.Unit
	aggregates map[uuid.UUID]*model.CategoryAggregate
	edges      map[[2]uuid.UUID]bool
	history    []model.PriceHistoryEvent
	nextSeq    int64
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		units:      make(map[uuid.UUID]*model.Unit),
		aggregates: make(map[uuid.UUID]*model.CategoryAggregate),
		edges:      make(map[[2]uuid.UUID]bool),
	}
}

func (m *MemStore) Units() repository.UnitRepository          { return (*memUnits)(m) }
func (m *MemStore) Aggregates() repository.AggregateRepository { return (*memAggregates)(m) }
func (m *MemStore) Hierarchy() repository.HierarchyRepository  { return (*memHierarchy)(m) }
func (m *MemStore) History() repository.HistoryRepository      { return (*memHistory)(m) }

// PutUnit seeds a unit row directly, bypassing the planner/executor — used
// by tests to establish pre-batch state.
func (m *MemStore) PutUnit(u model.Unit) { m.units[u.ID] = &u }

// PutAggregate seeds a category aggregate directly.
func (m *MemStore) PutAggregate(a model.CategoryAggregate) { m.aggregates[a.ID] = &a }

// PutEdge seeds one closure-table row directly.
func (m *MemStore) PutEdge(ancestor, descendant uuid.UUID) {
	m.edges[[2]uuid.UUID{ancestor, descendant}] = true
}

// AllHistory returns every recorded event, for test assertions.
func (m *MemStore) AllHistory() []model.PriceHistoryEvent { return m.history }

type memUnits MemStore

func (m *memUnits) GetByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUnits) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Unit, error) {
	result := make(map[uuid.UUID]*model.Unit, len(ids))
	for _, id := range ids {
		if u, ok := m.units[id]; ok {
			cp := *u
			result[id] = &cp
		}
	}
	return result, nil
}

func (m *memUnits) Children(ctx context.Context, parentID uuid.UUID) ([]*model.Unit, error) {
	var out []*model.Unit
	for _, u := range m.units {
		if u.ParentID != nil && *u.ParentID == parentID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUnits) Upsert(ctx context.Context, u *model.Unit) error {
	if existing, ok := m.units[u.ID]; ok && existing.IsCategory != u.IsCategory {
		return errInternal("unit upsert matched no row; is_category changed unexpectedly")
	}
	cp := *u
	m.units[u.ID] = &cp
	return nil
}

func (m *memUnits) UpdatePrice(ctx context.Context, id uuid.UUID, price *int64, lastUpdate time.Time) error {
	u, ok := m.units[id]
	if !ok {
		return nil
	}
	u.Price = price
	u.LastUpdate = lastUpdate
	return nil
}

func (m *memUnits) UpdateDerivedPrice(ctx context.Context, id uuid.UUID, price *int64) error {
	u, ok := m.units[id]
	if !ok {
		return nil
	}
	u.Price = price
	return nil
}

func (m *memUnits) TouchLastUpdate(ctx context.Context, ids []uuid.UUID, lastUpdate time.Time) error {
	for _, id := range ids {
		if u, ok := m.units[id]; ok {
			u.LastUpdate = lastUpdate
		}
	}
	return nil
}

func (m *memUnits) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(m.units, id)
	}
	return nil
}

type memAggregates MemStore

func (m *memAggregates) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.CategoryAggregate, error) {
	result := make(map[uuid.UUID]*model.CategoryAggregate, len(ids))
	for _, id := range ids {
		if a, ok := m.aggregates[id]; ok {
			cp := *a
			result[id] = &cp
		}
	}
	return result, nil
}

func (m *memAggregates) Create(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.aggregates[id]; ok {
		return nil
	}
	m.aggregates[id] = &model.CategoryAggregate{ID: id}
	return nil
}

func (m *memAggregates) Upsert(ctx context.Context, a *model.CategoryAggregate) error {
	cp := *a
	m.aggregates[a.ID] = &cp
	return nil
}

func (m *memAggregates) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(m.aggregates, id)
	}
	return nil
}

type memHierarchy MemStore

func (m *memHierarchy) Ancestors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(ids))
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for key := range m.edges {
		ancestor, descendant := key[0], key[1]
		if want[descendant] {
			result[descendant] = append(result[descendant], ancestor)
		}
	}
	return result, nil
}

func (m *memHierarchy) DescendantIDs(ctx context.Context, root uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{root}
	for key := range m.edges {
		ancestor, descendant := key[0], key[1]
		if ancestor == root {
			ids = append(ids, descendant)
		}
	}
	return ids, nil
}

func (m *memHierarchy) InsertEdges(ctx context.Context, edges []model.HierarchyEdge) error {
	for _, e := range edges {
		m.edges[[2]uuid.UUID{e.AncestorID, e.DescendantID}] = true
	}
	return nil
}

func (m *memHierarchy) DeleteSubtree(ctx context.Context, ids []uuid.UUID) error {
	in := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	for key := range m.edges {
		if in[key[0]] || in[key[1]] {
			delete(m.edges, key)
		}
	}
	return nil
}

func (m *memHierarchy) DeleteCrossEdges(ctx context.Context, ancestorIDs, descendantIDs []uuid.UUID) error {
	a := make(map[uuid.UUID]bool, len(ancestorIDs))
	for _, id := range ancestorIDs {
		a[id] = true
	}
	d := make(map[uuid.UUID]bool, len(descendantIDs))
	for _, id := range descendantIDs {
		d[id] = true
	}
	for key := range m.edges {
		if a[key[0]] && d[key[1]] {
			delete(m.edges, key)
		}
	}
	return nil
}

type memHistory MemStore

func (m *memHistory) Append(ctx context.Context, events []model.PriceHistoryEvent) error {
	for _, e := range events {
		m.nextSeq++
		e.Seq = m.nextSeq
		m.history = append(m.history, e)
	}
	return nil
}

func (m *memHistory) Range(ctx context.Context, unitID uuid.UUID, start, end time.Time) ([]model.PriceHistoryEvent, error) {
	var out []model.PriceHistoryEvent
	for _, e := range m.history {
		if e.UnitID == unitID && !e.Date.Before(start) && e.Date.Before(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memHistory) DeleteByUnitIDs(ctx context.Context, ids []uuid.UUID) error {
	in := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	filtered := m.history[:0]
	for _, e := range m.history {
		if !in[e.UnitID] {
			filtered = append(filtered, e)
		}
	}
	m.history = filtered
	return nil
}

func (m *memHistory) LatestInRange(ctx context.Context, start, end time.Time) ([]model.PriceHistoryEvent, error) {
	latest := make(map[uuid.UUID]model.PriceHistoryEvent)
	for _, e := range m.history {
		cur, ok := latest[e.UnitID]
		if !ok || e.Date.After(cur.Date) || (e.Date.Equal(cur.Date) && e.Seq > cur.Seq) {
			latest[e.UnitID] = e
		}
	}
	var out []model.PriceHistoryEvent
	for _, e := range latest {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// errInternal mirrors pkgerrors.Internal without importing pkg/errors, to
// keep this test helper dependency-free of the app's error taxonomy.
type internalErr string

func (e internalErr) Error() string { return string(e) }

func errInternal(msg string) error { return internalErr(msg) }

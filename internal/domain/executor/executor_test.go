package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopunit-catalog/internal/domain/aggregate"
	"shopunit-catalog/internal/domain/executor"
	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/planner"
	"shopunit-catalog/internal/domain/repository/repotest"
)

func price(p int64) *int64 { return &p }

func runImport(t *testing.T, store *repotest.MemStore, items []model.ShopUnitImport, at time.Time) {
	t.Helper()
	p := planner.New()
	plan, err := p.PlanImport(context.Background(), store, items, at)
	require.NoError(t, err)

	e := executor.New(aggregate.New())
	require.NoError(t, e.Execute(context.Background(), store, plan))
}

// TestScenario_RootWithTwoChildren mirrors spec.md §8 scenario 1: a root
// category with two offers, root.price is the floored mean.
func TestScenario_RootWithTwoChildren(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	child1 := uuid.New()
	child2 := uuid.New()
	T := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	runImport(t, store, []model.ShopUnitImport{
		{ID: root, Name: "root", Type: model.UnitTypeCategory},
		{ID: child1, Name: "child1", ParentID: &root, Type: model.UnitTypeOffer, Price: price(79999)},
		{ID: child2, Name: "child2", ParentID: &root, Type: model.UnitTypeOffer, Price: price(59999)},
	}, T)

	rootUnit, err := store.Units().GetByID(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, rootUnit.Price)
	assert.Equal(t, int64(69999), *rootUnit.Price)
	assert.True(t, rootUnit.LastUpdate.Equal(T))
}

// TestScenario_SubcategoryAddedThenExtraOffer mirrors spec.md §8 scenario 2.
func TestScenario_SubcategoryAddedThenExtraOffer(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	child1 := uuid.New()
	child2 := uuid.New()
	sub := uuid.New()
	offer3 := uuid.New()
	offer4 := uuid.New()
	offer5 := uuid.New()

	t1 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	runImport(t, store, []model.ShopUnitImport{
		{ID: root, Name: "root", Type: model.UnitTypeCategory},
		{ID: child1, Name: "c1", ParentID: &root, Type: model.UnitTypeOffer, Price: price(79999)},
		{ID: child2, Name: "c2", ParentID: &root, Type: model.UnitTypeOffer, Price: price(59999)},
	}, t1)

	t2 := t1.Add(time.Hour)
	runImport(t, store, []model.ShopUnitImport{
		{ID: sub, Name: "sub", ParentID: &root, Type: model.UnitTypeCategory},
		{ID: offer3, Name: "o3", ParentID: &sub, Type: model.UnitTypeOffer, Price: price(32999)},
		{ID: offer4, Name: "o4", ParentID: &sub, Type: model.UnitTypeOffer, Price: price(49999)},
	}, t2)

	t3 := t2.Add(time.Hour)
	runImport(t, store, []model.ShopUnitImport{
		{ID: offer5, Name: "o5", ParentID: &sub, Type: model.UnitTypeOffer, Price: price(69999)},
	}, t3)

	rootUnit, err := store.Units().GetByID(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, rootUnit.Price)
	assert.Equal(t, int64(58599), *rootUnit.Price)
	assert.True(t, rootUnit.LastUpdate.Equal(t3))
}

func TestDelete_OfferRecomputesRootOverRemainder(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	d := uuid.New()

	runImport(t, store, []model.ShopUnitImport{
		{ID: root, Name: "root", Type: model.UnitTypeCategory},
		{ID: a, Name: "a", ParentID: &root, Type: model.UnitTypeOffer, Price: price(79999)},
		{ID: b, Name: "b", ParentID: &root, Type: model.UnitTypeOffer, Price: price(59999)},
		{ID: c, Name: "c", ParentID: &root, Type: model.UnitTypeOffer, Price: price(32999)},
		{ID: d, Name: "d", ParentID: &root, Type: model.UnitTypeOffer, Price: price(49999)},
	}, time.Now())

	p := planner.New()
	plan, err := p.PlanDelete(context.Background(), store, a)
	require.NoError(t, err)
	e := executor.New(aggregate.New())
	require.NoError(t, e.Execute(context.Background(), store, plan))

	rootUnit, err := store.Units().GetByID(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, rootUnit.Price)
	assert.Equal(t, int64((59999+32999+49999)/3), *rootUnit.Price)
}

func TestDelete_DoesNotAdvanceAncestorLastUpdate(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	offer := uuid.New()
	t1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	runImport(t, store, []model.ShopUnitImport{
		{ID: root, Name: "root", Type: model.UnitTypeCategory},
		{ID: offer, Name: "o", ParentID: &root, Type: model.UnitTypeOffer, Price: price(100)},
	}, t1)

	p := planner.New()
	plan, err := p.PlanDelete(context.Background(), store, offer)
	require.NoError(t, err)
	e := executor.New(aggregate.New())
	require.NoError(t, e.Execute(context.Background(), store, plan))

	rootUnit, err := store.Units().GetByID(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, rootUnit.LastUpdate.Equal(t1))
	assert.Nil(t, rootUnit.Price)
}

func TestDelete_CategoryCascades(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	sub := uuid.New()
	leaf := uuid.New()

	runImport(t, store, []model.ShopUnitImport{
		{ID: root, Name: "root", Type: model.UnitTypeCategory},
		{ID: sub, Name: "sub", ParentID: &root, Type: model.UnitTypeCategory},
		{ID: leaf, Name: "leaf", ParentID: &sub, Type: model.UnitTypeOffer, Price: price(42)},
	}, time.Now())

	p := planner.New()
	plan, err := p.PlanDelete(context.Background(), store, sub)
	require.NoError(t, err)
	e := executor.New(aggregate.New())
	require.NoError(t, e.Execute(context.Background(), store, plan))

	units, err := store.Units().GetByIDs(context.Background(), []uuid.UUID{sub, leaf})
	require.NoError(t, err)
	assert.Empty(t, units)

	rootUnit, err := store.Units().GetByID(context.Background(), root)
	require.NoError(t, err)
	assert.Nil(t, rootUnit.Price)
}

func TestImport_HistoryEventPerAffectedUnitDedupedByID(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	offer := uuid.New()
	T := time.Now()

	runImport(t, store, []model.ShopUnitImport{
		{ID: root, Name: "root", Type: model.UnitTypeCategory},
		{ID: offer, Name: "o", ParentID: &root, Type: model.UnitTypeOffer, Price: price(10)},
	}, T)

	events := store.AllHistory()
	seen := map[uuid.UUID]int{}
	for _, e := range events {
		seen[e.UnitID]++
	}
	assert.Equal(t, 1, seen[root])
	assert.Equal(t, 1, seen[offer])
}

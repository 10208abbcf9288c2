package reader_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/reader"
	"shopunit-catalog/internal/domain/repository/repotest"
	pkgerrors "shopunit-catalog/pkg/errors"
)

func price(p int64) *int64 { return &p }

func TestNode_OfferHasNilChildren(t *testing.T) {
	store := repotest.NewMemStore()
	id := uuid.New()
	store.PutUnit(model.Unit{ID: id, Name: "offer", IsCategory: false, Price: price(100)})

	r := reader.New(store)
	got, err := r.Node(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.UnitTypeOffer, got.Type)
	assert.Nil(t, got.Children)
}

func TestNode_EmptyCategoryHasEmptySliceNotNil(t *testing.T) {
	store := repotest.NewMemStore()
	id := uuid.New()
	store.PutUnit(model.Unit{ID: id, Name: "cat", IsCategory: true})

	r := reader.New(store)
	got, err := r.Node(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.Children)
	assert.Len(t, *got.Children, 0)
}

func TestNode_NotFound(t *testing.T) {
	store := repotest.NewMemStore()
	r := reader.New(store)

	_, err := r.Node(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.ErrCodeNotFound, appErr.Code)
}

func TestNode_DeepSubtreeIsFullyPopulatedWithoutRecursion(t *testing.T) {
	store := repotest.NewMemStore()
	root := uuid.New()
	store.PutUnit(model.Unit{ID: root, Name: "root", IsCategory: true})

	const depth = 5000
	parent := root
	var leaf uuid.UUID
	for i := 0; i < depth; i++ {
		next := uuid.New()
		isCategory := i < depth-1
		store.PutUnit(model.Unit{ID: next, Name: "n", IsCategory: isCategory, ParentID: &parent})
		parent = next
		if !isCategory {
			leaf = next
		}
	}

	r := reader.New(store)
	got, err := r.Node(context.Background(), root)
	require.NoError(t, err)

	cur := got
	found := false
	for cur != nil {
		if cur.ID == leaf {
			found = true
			break
		}
		if cur.Children == nil || len(*cur.Children) == 0 {
			break
		}
		cur = (*cur.Children)[0]
	}
	assert.True(t, found, "expected to reach leaf at the bottom of a %d-deep chain", depth)
}

func TestStatistic_NotFound(t *testing.T) {
	store := repotest.NewMemStore()
	r := reader.New(store)

	_, err := r.Statistic(context.Background(), uuid.New(), time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.ErrCodeNotFound, appErr.Code)
}

func TestStatistic_RejectsNonStrictlyIncreasingRange(t *testing.T) {
	store := repotest.NewMemStore()
	id := uuid.New()
	store.PutUnit(model.Unit{ID: id, Name: "o", IsCategory: false})

	r := reader.New(store)
	now := time.Now()

	_, err := r.Statistic(context.Background(), id, now, now)
	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.ErrCodeValidation, appErr.Code)

	_, err = r.Statistic(context.Background(), id, now.Add(time.Hour), now)
	require.Error(t, err)
}

func TestStatistic_HalfOpenRangeExcludesEndBoundary(t *testing.T) {
	store := repotest.NewMemStore()
	id := uuid.New()
	store.PutUnit(model.Unit{ID: id, Name: "o", IsCategory: false, ParentID: nil})

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store.History().Append(context.Background(), []model.PriceHistoryEvent{
		{UnitID: id, Price: price(10), Date: base},
		{UnitID: id, Price: price(20), Date: base.Add(time.Hour)},
		{UnitID: id, Price: price(30), Date: base.Add(2 * time.Hour)},
	})

	r := reader.New(store)
	items, err := r.Statistic(context.Background(), id, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), *items[0].Price)
	assert.Equal(t, int64(20), *items[1].Price)
}

func TestSales_FiltersOutCategoryEventsAndOldEvents(t *testing.T) {
	store := repotest.NewMemStore()
	offer := uuid.New()
	category := uuid.New()
	staleOffer := uuid.New()

	store.PutUnit(model.Unit{ID: offer, Name: "o", IsCategory: false})
	store.PutUnit(model.Unit{ID: category, Name: "c", IsCategory: true})
	store.PutUnit(model.Unit{ID: staleOffer, Name: "stale", IsCategory: false})

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store.History().Append(context.Background(), []model.PriceHistoryEvent{
		{UnitID: offer, Price: price(100), Date: now.Add(-time.Hour)},
		{UnitID: category, Price: price(100), Date: now.Add(-time.Hour)},
		{UnitID: staleOffer, Price: price(100), Date: now.Add(-25 * time.Hour)},
	})

	r := reader.New(store)
	items, err := r.Sales(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, offer, items[0].ID)
	assert.Equal(t, model.UnitTypeOffer, items[0].Type)
}

func TestSales_EmptyWindowReturnsEmptyNotNilSlice(t *testing.T) {
	store := repotest.NewMemStore()
	r := reader.New(store)

	items, err := r.Sales(context.Background(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Len(t, items, 0)
}

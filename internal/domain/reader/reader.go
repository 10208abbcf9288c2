// Package reader implements the three read paths that define the
// observable contract of the hierarchy engine and its recorded history
// (spec.md §4.6): a recursive subtree snapshot, a per-node history range,
// and the global 24-hour sales view. Readers bypass the planner entirely —
// they only ever read.
package reader

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/repository"
	pkgerrors "shopunit-catalog/pkg/errors"
)

// salesWindow is the fixed lookback the /sales endpoint applies to the
// requested date.
const salesWindow = 24 * time.Hour

// Reader bundles the three read operations over the catalog forest.
type Reader interface {
	// Node returns the unit identified by id with Children populated
	// recursively (nil for an offer, a possibly-empty list for a
	// category). Fails NotFound if id is absent.
	Node(ctx context.Context, id uuid.UUID) (*model.ShopUnit, error)

	// Statistic returns every PriceHistoryEvent for id with
	// start <= date < end, half-open, ordered by date. Fails NotFound if
	// id is absent, Validation if start >= end.
	Statistic(ctx context.Context, id uuid.UUID, start, end time.Time) ([]model.StatUnit, error)

	// Sales returns every offer whose most recent history event falls in
	// the closed window [date-24h, date].
	Sales(ctx context.Context, date time.Time) ([]model.StatUnit, error)
}

type reader struct {
	store repository.Store
}

// New constructs a Reader bound to store. The reader opens no transaction
// itself; internal/service hands it a Store bound to a read-only
// transaction (spec.md §5: readers run at snapshot isolation or equivalent).
func New(store repository.Store) Reader {
	return &reader{store: store}
}

func (r *reader) Node(ctx context.Context, id uuid.UUID) (*model.ShopUnit, error) {
	root, err := r.store.Units().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, pkgerrors.NotFound("unit not found")
	}

	nodes := map[uuid.UUID]*model.ShopUnit{
		id: toShopUnit(root),
	}

	// Iterative descent (stack of category ids still to expand) so that
	// depths in the tens of thousands never recurse (spec.md §5).
	stack := []uuid.UUID{}
	if root.IsCategory {
		stack = append(stack, id)
	}

	for len(stack) > 0 {
		parentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := r.store.Units().Children(ctx, parentID)
		if err != nil {
			return nil, err
		}

		parent := nodes[parentID]
		kids := make([]*model.ShopUnit, 0, len(children))
		for _, c := range children {
			su := toShopUnit(c)
			nodes[c.ID] = su
			kids = append(kids, su)
			if c.IsCategory {
				stack = append(stack, c.ID)
			}
		}
		parent.Children = &kids
	}

	return nodes[id], nil
}

func (r *reader) Statistic(ctx context.Context, id uuid.UUID, start, end time.Time) ([]model.StatUnit, error) {
	unit, err := r.store.Units().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, pkgerrors.NotFound("unit not found")
	}
	if !start.Before(end) {
		return nil, pkgerrors.Validation("dateStart must be before dateEnd")
	}

	events, err := r.store.History().Range(ctx, id, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]model.StatUnit, 0, len(events))
	for _, e := range events {
		items = append(items, model.StatUnit{
			ID:       unit.ID,
			Name:     unit.Name,
			ParentID: unit.ParentID,
			Type:     unitType(unit.IsCategory),
			Price:    e.Price,
			Date:     model.Timestamp(e.Date),
		})
	}
	return items, nil
}

func (r *reader) Sales(ctx context.Context, date time.Time) ([]model.StatUnit, error) {
	start := date.Add(-salesWindow)

	events, err := r.store.History().LatestInRange(ctx, start, date)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []model.StatUnit{}, nil
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.UnitID)
	}
	units, err := r.store.Units().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]model.StatUnit, 0, len(events))
	for _, e := range events {
		u, ok := units[e.UnitID]
		if !ok || u.IsCategory {
			// Sales enumerates offers only; a category's own history
			// events (the derived-price changes tracked alongside it)
			// never belong in this view.
			continue
		}
		items = append(items, model.StatUnit{
			ID:       u.ID,
			Name:     u.Name,
			ParentID: u.ParentID,
			Type:     model.UnitTypeOffer,
			Price:    e.Price,
			Date:     model.Timestamp(e.Date),
		})
	}
	return items, nil
}

func toShopUnit(u *model.Unit) *model.ShopUnit {
	su := &model.ShopUnit{
		ID:       u.ID,
		Name:     u.Name,
		Date:     model.Timestamp(u.LastUpdate),
		ParentID: u.ParentID,
		Type:     unitType(u.IsCategory),
		Price:    u.Price,
	}
	if u.IsCategory {
		empty := []*model.ShopUnit{}
		su.Children = &empty
	}
	return su
}

func unitType(isCategory bool) model.UnitType {
	if isCategory {
		return model.UnitTypeCategory
	}
	return model.UnitTypeOffer
}

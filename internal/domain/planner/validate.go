package planner

import (
	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
	pkgerrors "shopunit-catalog/pkg/errors"
)

// validateAndOrder rejects a batch with a duplicate id or a parent-id cycle
// among items that reference each other within the same batch, and returns
// the ids in an order where every item whose parent is itself in the batch
// comes after that parent (spec.md §4.3, "categories sort before their
// own children within the same batch").
func validateAndOrder(items []model.ShopUnitImport) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return nil, pkgerrors.Validation("duplicate id in batch")
		}
		seen[it.ID] = true
	}

	inDegree := make(map[uuid.UUID]int, len(items))
	children := make(map[uuid.UUID][]uuid.UUID, len(items))
	for _, it := range items {
		inDegree[it.ID] = 0
	}
	for _, it := range items {
		if it.ParentID != nil && seen[*it.ParentID] {
			children[*it.ParentID] = append(children[*it.ParentID], it.ID)
			inDegree[it.ID]++
		}
	}

	queue := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if inDegree[it.ID] == 0 {
			queue = append(queue, it.ID)
		}
	}

	order := make([]uuid.UUID, 0, len(items))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, child := range children[id] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(items) {
		return nil, pkgerrors.Validation("cyclic parent references in batch")
	}
	return order, nil
}

// validateAgainstStore rejects a batch that tries to flip is_category on an
// already-stored unit, gives a category a price, or gives an offer a
// missing or negative price.
func validateAgainstStore(items []model.ShopUnitImport, existing map[uuid.UUID]*model.Unit) error {
	for _, it := range items {
		if old, ok := existing[it.ID]; ok {
			wantsCategory := it.Type == model.UnitTypeCategory
			if old.IsCategory != wantsCategory {
				return pkgerrors.Conflict("cannot change unit type")
			}
		}

		switch it.Type {
		case model.UnitTypeCategory:
			if it.Price != nil {
				return pkgerrors.Validation("category must not carry a price")
			}
		case model.UnitTypeOffer:
			if it.Price == nil || *it.Price < 0 {
				return pkgerrors.Validation("offer requires a non-negative price")
			}
		}
	}
	return nil
}

// validateParents rejects a batch whose parent_id references an id that is
// neither an existing store category nor a CATEGORY item within the batch.
func validateParents(items []model.ShopUnitImport, byID map[uuid.UUID]model.ShopUnitImport, existing map[uuid.UUID]*model.Unit) error {
	for _, it := range items {
		if it.ParentID == nil {
			continue
		}
		if batchParent, ok := byID[*it.ParentID]; ok {
			if batchParent.Type != model.UnitTypeCategory {
				return pkgerrors.Validation("parentId does not reference a category")
			}
			continue
		}
		if storedParent, ok := existing[*it.ParentID]; ok {
			if !storedParent.IsCategory {
				return pkgerrors.Validation("parentId does not reference a category")
			}
			continue
		}
		return pkgerrors.Validation("parentId references an unknown unit")
	}
	return nil
}

// Package hierarchy maintains the transitive ancestor relation of the unit
// forest as a closure table, so that the ancestor set of any unit is a
// single indexed lookup rather than a recursive walk (spec.md §4.1).
package hierarchy

import (
	"context"

	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/domain/repository"
)

// Index is the hierarchy index contract: ancestors/build/destroy/rebuild.
type Index interface {
	// Ancestors returns, for each id, its category ids from immediate
	// parent up to the root (order unimportant).
	Ancestors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)

	// Build inserts the closure-table edges for a newly-inserted unit u
	// with the given parent. No-op if parentID is nil. u's own descendants
	// (if any) are assumed not yet present; this is an O(depth) operation.
	Build(ctx context.Context, unitID uuid.UUID, parentID *uuid.UUID) error

	// Destroy removes every edge whose ancestor or descendant lies in the
	// subtree rooted at the category c (including c itself).
	Destroy(ctx context.Context, categoryID uuid.UUID) error

	// Rebuild re-parents the subtree rooted at unitID under newParentID,
	// preserving the subtree's inner edges: only edges crossing the
	// subtree boundary (ancestor strictly above unitID, descendant inside
	// the subtree) are replaced.
	Rebuild(ctx context.Context, unitID uuid.UUID, newParentID *uuid.UUID) error
}

type index struct {
	edges repository.HierarchyRepository
	units repository.UnitRepository
}

// New constructs a hierarchy index backed by the given store adapters.
func New(edges repository.HierarchyRepository, units repository.UnitRepository) Index {
	return &index{edges: edges, units: units}
}

func (i *index) Ancestors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if len(ids) == 0 {
		return map[uuid.UUID][]uuid.UUID{}, nil
	}
	return i.edges.Ancestors(ctx, ids)
}

func (i *index) Build(ctx context.Context, unitID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	ancestorsOfParent, err := i.edges.Ancestors(ctx, []uuid.UUID{*parentID})
	if err != nil {
		return err
	}

	newEdges := make([]model.HierarchyEdge, 0, len(ancestorsOfParent[*parentID])+1)
	newEdges = append(newEdges, model.HierarchyEdge{AncestorID: *parentID, DescendantID: unitID})
	for _, a := range ancestorsOfParent[*parentID] {
		newEdges = append(newEdges, model.HierarchyEdge{AncestorID: a, DescendantID: unitID})
	}

	return i.edges.InsertEdges(ctx, newEdges)
}

func (i *index) Destroy(ctx context.Context, categoryID uuid.UUID) error {
	// subtreeIDs holds categoryID itself plus every descendant, offers
	// included, so edges from ancestors above categoryID down to offers
	// deep in the subtree are removed along with the inner edges.
	subtreeIDs, err := i.edges.DescendantIDs(ctx, categoryID)
	if err != nil {
		return err
	}

	return i.edges.DeleteSubtree(ctx, subtreeIDs)
}

func (i *index) Rebuild(ctx context.Context, unitID uuid.UUID, newParentID *uuid.UUID) error {
	oldAncestors, err := i.edges.Ancestors(ctx, []uuid.UUID{unitID})
	if err != nil {
		return err
	}

	subtreeIDs, err := i.edges.DescendantIDs(ctx, unitID)
	if err != nil {
		return err
	}

	if len(oldAncestors[unitID]) > 0 {
		if err := i.edges.DeleteCrossEdges(ctx, oldAncestors[unitID], subtreeIDs); err != nil {
			return err
		}
	}

	if newParentID == nil {
		return nil
	}

	ancestorsOfNewParent, err := i.edges.Ancestors(ctx, []uuid.UUID{*newParentID})
	if err != nil {
		return err
	}

	newAncestorIDs := append([]uuid.UUID{*newParentID}, ancestorsOfNewParent[*newParentID]...)

	newEdges := make([]model.HierarchyEdge, 0, len(newAncestorIDs)*len(subtreeIDs))
	for _, a := range newAncestorIDs {
		for _, d := range subtreeIDs {
			newEdges = append(newEdges, model.HierarchyEdge{AncestorID: a, DescendantID: d})
		}
	}

	return i.edges.InsertEdges(ctx, newEdges)
}

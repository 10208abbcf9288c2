package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopunit-catalog/internal/domain/model"
)

// HierarchyRepository is the gorm-backed repository.HierarchyRepository,
// storing the closure table described in spec.md §4.1. A row (a, d) means d
// lies in a's transitive subtree; a is never equal to d.
type HierarchyRepository struct {
	db *gorm.DB
}

func (r *HierarchyRepository) Ancestors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []model.HierarchyEdge
	if err := r.db.WithContext(ctx).Where("descendant_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, e := range rows {
		result[e.DescendantID] = append(result[e.DescendantID], e.AncestorID)
	}
	return result, nil
}

func (r *HierarchyRepository) DescendantIDs(ctx context.Context, root uuid.UUID) ([]uuid.UUID, error) {
	var rows []model.HierarchyEdge
	if err := r.db.WithContext(ctx).Where("ancestor_id = ?", root).Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows)+1)
	ids = append(ids, root)
	for _, e := range rows {
		ids = append(ids, e.DescendantID)
	}
	return ids, nil
}

func (r *HierarchyRepository) InsertEdges(ctx context.Context, edges []model.HierarchyEdge) error {
	if len(edges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error
}

func (r *HierarchyRepository) DeleteSubtree(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("ancestor_id IN ? OR descendant_id IN ?", ids, ids).
		Delete(&model.HierarchyEdge{}).Error
}

func (r *HierarchyRepository) DeleteCrossEdges(ctx context.Context, ancestorIDs, descendantIDs []uuid.UUID) error {
	if len(ancestorIDs) == 0 || len(descendantIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("ancestor_id IN ? AND descendant_id IN ?", ancestorIDs, descendantIDs).
		Delete(&model.HierarchyEdge{}).Error
}

package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopunit-catalog/internal/domain/model"
)

// AggregateRepository is the gorm-backed repository.AggregateRepository.
type AggregateRepository struct {
	db *gorm.DB
}

func (r *AggregateRepository) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.CategoryAggregate, error) {
	result := make(map[uuid.UUID]*model.CategoryAggregate, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var aggs []model.CategoryAggregate
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&aggs).Error; err != nil {
		return nil, err
	}
	for i := range aggs {
		result[aggs[i].ID] = &aggs[i]
	}
	return result, nil
}

func (r *AggregateRepository) Create(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CategoryAggregate{ID: id, Sum: 0, Count: 0}).Error
}

func (r *AggregateRepository) Upsert(ctx context.Context, a *model.CategoryAggregate) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sum", "count"}),
	}).Create(a).Error
}

func (r *AggregateRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.CategoryAggregate{}).Error
}

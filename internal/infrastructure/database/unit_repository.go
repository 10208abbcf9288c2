package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopunit-catalog/internal/domain/model"
	pkgerrors "shopunit-catalog/pkg/errors"
)

// UnitRepository is the gorm-backed repository.UnitRepository.
type UnitRepository struct {
	db *gorm.DB
}

func (r *UnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UnitRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Unit, error) {
	result := make(map[uuid.UUID]*model.Unit, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var units []model.Unit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	for i := range units {
		result[units[i].ID] = &units[i]
	}
	return result, nil
}

func (r *UnitRepository) Children(ctx context.Context, parentID uuid.UUID) ([]*model.Unit, error) {
	var units []*model.Unit
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *UnitRepository) Upsert(ctx context.Context, u *model.Unit) error {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&model.Unit{}).Where("id = ?", u.ID).Count(&exists).Error; err != nil {
		return err
	}

	if exists == 0 {
		return r.db.WithContext(ctx).Create(u).Error
	}

	res := r.db.WithContext(ctx).Model(&model.Unit{}).
		Where("id = ? AND is_category = ?", u.ID, u.IsCategory).
		Updates(map[string]interface{}{
			"name":        u.Name,
			"parent_id":   u.ParentID,
			"price":       u.Price,
			"last_update": u.LastUpdate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.Internal("unit upsert matched no row; is_category changed unexpectedly")
	}
	return nil
}

func (r *UnitRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price *int64, lastUpdate time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Unit{}).Where("id = ?", id).
		Updates(map[string]interface{}{"price": price, "last_update": lastUpdate}).Error
}

func (r *UnitRepository) UpdateDerivedPrice(ctx context.Context, id uuid.UUID, price *int64) error {
	return r.db.WithContext(ctx).Model(&model.Unit{}).Where("id = ?", id).
		Update("price", price).Error
}

func (r *UnitRepository) TouchLastUpdate(ctx context.Context, ids []uuid.UUID, lastUpdate time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Unit{}).Where("id IN ?", ids).
		Update("last_update", lastUpdate).Error
}

func (r *UnitRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Unit{}).Error
}

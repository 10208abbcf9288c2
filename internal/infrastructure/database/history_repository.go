package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopunit-catalog/internal/domain/model"
)

// HistoryRepository is the gorm-backed repository.HistoryRepository over
// the append-only price_history_events table.
type HistoryRepository struct {
	db *gorm.DB
}

func (r *HistoryRepository) Append(ctx context.Context, events []model.PriceHistoryEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

func (r *HistoryRepository) Range(ctx context.Context, unitID uuid.UUID, start, end time.Time) ([]model.PriceHistoryEvent, error) {
	var events []model.PriceHistoryEvent
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND date >= ? AND date < ?", unitID, start, end).
		Order("date ASC, seq ASC").
		Find(&events).Error
	return events, err
}

func (r *HistoryRepository) DeleteByUnitIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("unit_id IN ?", ids).Delete(&model.PriceHistoryEvent{}).Error
}

// LatestInRange returns, for every unit, its globally most recent event,
// filtered down to those whose date falls in [start, end] (spec.md §4.6
// sales). The window must apply to the unit's actual latest event, not to
// whichever in-window event happens to be newest — client-supplied dates
// need not be monotonic (spec.md §5), so an older in-window row must never
// stand in for a newer out-of-window one. The DISTINCT ON therefore runs
// over the whole table first, and the window filter is applied to that
// single latest row per unit, not the other way around.
func (r *HistoryRepository) LatestInRange(ctx context.Context, start, end time.Time) ([]model.PriceHistoryEvent, error) {
	var events []model.PriceHistoryEvent
	err := r.db.WithContext(ctx).Raw(`
		SELECT seq, unit_id, price, date FROM (
			SELECT DISTINCT ON (unit_id) seq, unit_id, price, date
			FROM price_history_events
			ORDER BY unit_id, date DESC, seq DESC
		) latest
		WHERE date >= ? AND date <= ?
	`, start, end).Scan(&events).Error
	return events, err
}

package database

import (
	"gorm.io/gorm"

	"shopunit-catalog/internal/domain/model"
)

func catalogMigrations() []Migration {
	return []Migration{
		{
			Version: "001_units",
			Name:    "create units table",
			Up:      func(tx *gorm.DB) error { return tx.AutoMigrate(&model.Unit{}) },
			Down:    func(tx *gorm.DB) error { return tx.Migrator().DropTable(&model.Unit{}) },
		},
		{
			Version: "002_category_aggregates",
			Name:    "create category_aggregates table",
			Up:      func(tx *gorm.DB) error { return tx.AutoMigrate(&model.CategoryAggregate{}) },
			Down:    func(tx *gorm.DB) error { return tx.Migrator().DropTable(&model.CategoryAggregate{}) },
		},
		{
			Version: "003_hierarchy_edges",
			Name:    "create hierarchy_edges closure table",
			Up:      func(tx *gorm.DB) error { return tx.AutoMigrate(&model.HierarchyEdge{}) },
			Down:    func(tx *gorm.DB) error { return tx.Migrator().DropTable(&model.HierarchyEdge{}) },
		},
		{
			Version: "004_price_history_events",
			Name:    "create price_history_events table",
			Up:      func(tx *gorm.DB) error { return tx.AutoMigrate(&model.PriceHistoryEvent{}) },
			Down:    func(tx *gorm.DB) error { return tx.Migrator().DropTable(&model.PriceHistoryEvent{}) },
		},
		{
			Version: "005_hierarchy_edges_descendant_index",
			Name:    "index hierarchy_edges by descendant for ancestor lookups",
			Up: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_hierarchy_edges_descendant ON hierarchy_edges (descendant_id)").Error
			},
			Down: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_hierarchy_edges_descendant").Error
			},
		},
	}
}

package database

import (
	"gorm.io/gorm"

	"shopunit-catalog/internal/domain/repository"
)

// Store is the gorm-backed repository.Store, bound to a single *gorm.DB
// (either the root connection or an in-flight transaction).
type Store struct {
	db         *gorm.DB
	units      *UnitRepository
	aggregates *AggregateRepository
	hierarchy  *HierarchyRepository
	history    *HistoryRepository
}

// NewStore constructs a Store bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		units:      &UnitRepository{db: db},
		aggregates: &AggregateRepository{db: db},
		hierarchy:  &HierarchyRepository{db: db},
		history:    &HistoryRepository{db: db},
	}
}

func (s *Store) Units() repository.UnitRepository           { return s.units }
func (s *Store) Aggregates() repository.AggregateRepository { return s.aggregates }
func (s *Store) Hierarchy() repository.HierarchyRepository  { return s.hierarchy }
func (s *Store) History() repository.HistoryRepository      { return s.history }

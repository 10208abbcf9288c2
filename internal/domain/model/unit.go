package model

import (
	"time"

	"github.com/google/uuid"
)

// UnitType discriminates the two kinds of unit that populate the catalog
// forest: a priced leaf (OFFER) or an inner node whose price is derived
// (CATEGORY).
type UnitType string

const (
	UnitTypeOffer    UnitType = "OFFER"
	UnitTypeCategory UnitType = "CATEGORY"
)

// Unit is the single-table representation of both offers and categories.
// Price is always present for an offer and is the stored floored mean for
// a category (nil while the category has zero offer-descendants).
type Unit struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"not null"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index"`
	IsCategory bool       `gorm:"not null"`
	Price      *int64     `gorm:""`
	LastUpdate time.Time  `gorm:"not null"`
}

// TableName returns the table name for Unit.
func (Unit) TableName() string {
	return "units"
}

// CategoryAggregate holds the running (sum, count) of offer prices in a
// category's transitive subtree. Exists iff the unit is a category.
type CategoryAggregate struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Sum   int64     `gorm:"not null;default:0"`
	Count int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for CategoryAggregate.
func (CategoryAggregate) TableName() string {
	return "category_aggregates"
}

// Mean returns the floored mean and whether it is defined (count > 0).
func (a CategoryAggregate) Mean() (int64, bool) {
	if a.Count <= 0 {
		return 0, false
	}
	return a.Sum / a.Count, true
}

// HierarchyEdge is one row of the closure table: descendant lies in
// ancestor's transitive subtree. Includes the direct parent/child edge.
type HierarchyEdge struct {
	AncestorID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	DescendantID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for HierarchyEdge.
func (HierarchyEdge) TableName() string {
	return "hierarchy_edges"
}

// PriceHistoryEvent is one append-only record of a unit's price at a point
// in time. Price is nil for a category that has gone to a zero-offer state.
type PriceHistoryEvent struct {
	Seq    int64     `gorm:"primaryKey;autoIncrement"`
	UnitID uuid.UUID `gorm:"type:uuid;not null;index"`
	Price  *int64    `gorm:""`
	Date   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for PriceHistoryEvent.
func (PriceHistoryEvent) TableName() string {
	return "price_history_events"
}

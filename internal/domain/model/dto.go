package model

import (
	"github.com/google/uuid"
)

// ShopUnitImport is one entry of an /imports batch.
type ShopUnitImport struct {
	ID       uuid.UUID  `json:"id" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	ParentID *uuid.UUID `json:"parentId"`
	Type     UnitType   `json:"type" validate:"required,oneof=OFFER CATEGORY"`
	Price    *int64     `json:"price"`
}

// ImportBatch is the body of POST /imports. Every entry shares UpdateDate.
type ImportBatch struct {
	Items      []ShopUnitImport `json:"items" validate:"dive"`
	UpdateDate Timestamp        `json:"updateDate"`
}

// ShopUnit is the subtree-snapshot representation returned by GET /nodes/{id}.
// Children is a pointer so the field can be genuinely absent for an offer
// (nil pointer, omitted by omitempty) while still serializing as `[]` for a
// category with no children (non-nil pointer to an empty slice,
// which omitempty never treats as empty).
type ShopUnit struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Date     Timestamp    `json:"date"`
	ParentID *uuid.UUID   `json:"parentId"`
	Type     UnitType     `json:"type"`
	Price    *int64       `json:"price"`
	Children *[]*ShopUnit `json:"children,omitempty"`
}

// StatUnit is one entry of a /node/{id}/statistic or /sales response.
type StatUnit struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId"`
	Type     UnitType   `json:"type"`
	Price    *int64     `json:"price"`
	Date     Timestamp  `json:"date"`
}

// StatUnitList wraps StatUnit collections per the {items: [...]} envelope
// used by /node/{id}/statistic and /sales.
type StatUnitList struct {
	Items []StatUnit `json:"items"`
}

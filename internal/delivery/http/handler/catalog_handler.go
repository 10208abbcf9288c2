// Package handler implements the gin handlers for the five endpoints
// spec.md §6 defines, translating HTTP requests into service.Catalog calls
// and domain errors into the {code, message} body every error path shares.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopunit-catalog/internal/domain/model"
	"shopunit-catalog/internal/service"
	pkgerrors "shopunit-catalog/pkg/errors"
)

// CatalogHandler handles /imports, /delete/{id}, /nodes/{id},
// /node/{id}/statistic and /sales.
type CatalogHandler struct {
	catalog  service.Catalog
	validate *validator.Validate
}

// NewCatalogHandler constructs the catalog handler.
func NewCatalogHandler(catalog service.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, validate: validator.New()}
}

// Imports handles POST /imports.
func (h *CatalogHandler) Imports(c *gin.Context) {
	var batch model.ImportBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		respondError(c, pkgerrors.Wrap(err, pkgerrors.ErrCodeValidation, "malformed import batch"))
		return
	}
	if err := h.validate.Struct(&batch); err != nil {
		respondError(c, pkgerrors.Wrap(err, pkgerrors.ErrCodeValidation, "invalid import batch"))
		return
	}

	if err := h.catalog.Import(c.Request.Context(), batch.Items, batch.UpdateDate.Time()); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// Delete handles DELETE /delete/{id}.
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, pkgerrors.Validation("malformed id"))
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// Node handles GET /nodes/{id}.
func (h *CatalogHandler) Node(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, pkgerrors.Validation("malformed id"))
		return
	}

	unit, err := h.catalog.Node(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, unit)
}

// Statistic handles GET /node/{id}/statistic.
func (h *CatalogHandler) Statistic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, pkgerrors.Validation("malformed id"))
		return
	}

	start, end, err := parseStatisticRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.catalog.Statistic(c.Request.Context(), id, start.Time(), end.Time())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, itemsEnvelope{Items: items})
}

// Sales handles GET /sales.
func (h *CatalogHandler) Sales(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		respondError(c, pkgerrors.Validation("date is required"))
		return
	}
	date, err := model.ParseRFC3339(raw)
	if err != nil {
		respondError(c, pkgerrors.Wrap(err, pkgerrors.ErrCodeValidation, "malformed date"))
		return
	}

	items, err := h.catalog.Sales(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, itemsEnvelope{Items: items})
}

func parseStatisticRange(c *gin.Context) (start, end model.Timestamp, err error) {
	start = model.MinTimestamp
	end = model.MaxTimestamp

	if raw := c.Query("dateStart"); raw != "" {
		t, err := model.ParseRFC3339(raw)
		if err != nil {
			return start, end, pkgerrors.Wrap(err, pkgerrors.ErrCodeValidation, "malformed dateStart")
		}
		start = model.Timestamp(t)
	}
	if raw := c.Query("dateEnd"); raw != "" {
		t, err := model.ParseRFC3339(raw)
		if err != nil {
			return start, end, pkgerrors.Wrap(err, pkgerrors.ErrCodeValidation, "malformed dateEnd")
		}
		end = model.Timestamp(t)
	}
	if !start.Time().Before(end.Time()) {
		return start, end, pkgerrors.Validation("dateStart must be before dateEnd")
	}
	return start, end, nil
}

package handler

import (
	"net/http"

	"github.com/ninjaskull/dacreation-sub001/internal/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the controlled vocabularies the registration
// form is built from.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Vocabularies godoc
// @Summary      Registration form vocabularies
// @Tags         catalog
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /v1/catalog [get]
func (h *CatalogHandler) Vocabularies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":       catalog.VendorCategories,
		"document_types":   catalog.DocumentTypes,
		"entity_types":     catalog.EntityTypes,
		"states":           catalog.IndianStates,
		"employee_counts":  catalog.EmployeeCountBuckets,
		"turnover_buckets": catalog.TurnoverBuckets,
		"pricing_tiers":    catalog.PricingTiers,
	})
}

package handlers

import (
	"net/http"

	"canteen-api/models"
	"canteen-api/services"
	"canteen-api/statemachine"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog *services.Catalog
}

func NewCatalogHandler(c *services.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// ListCanteens returns the canteens currently taking orders
func (h *CatalogHandler) ListCanteens(c *gin.Context) {
	canteens, err := h.catalog.ListActiveCanteens(c.Request.Context())
	if err != nil {
		respondError(c, "Canteen listing", err)
		return
	}
	c.JSON(http.StatusOK, canteens)
}

// GetMenu returns the orderable items of one canteen
func (h *CatalogHandler) GetMenu(c *gin.Context) {
	canteenID, ok := parseID(c, "canteenId")
	if !ok {
		return
	}
	items, err := h.catalog.ListMenu(c.Request.Context(), canteenID)
	if err != nil {
		respondError(c, "Menu listing", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []string{string(models.StatusReady)},
		"description":     "Canteen Order Lifecycle State Machine",
	})
}

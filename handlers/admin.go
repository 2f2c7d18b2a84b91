package handlers

import (
	"net/http"

	"canteen-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SetCanteenActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type AddMenuItemRequest struct {
	CanteenID uint            `json:"canteen_id" binding:"required"`
	ItemName  string          `json:"item_name" binding:"required"`
	Price     decimal.Decimal `json:"price"`
}

type UpdateMenuItemRequest struct {
	Price     decimal.Decimal `json:"price"`
	Available *bool           `json:"available" binding:"required"`
}

type AdminHandler struct {
	catalog *services.Catalog
	orders  *services.Orders
}

func NewAdminHandler(c *services.Catalog, o *services.Orders) *AdminHandler {
	return &AdminHandler{catalog: c, orders: o}
}

// SetCanteenActive opens or closes a canteen
func (h *AdminHandler) SetCanteenActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req SetCanteenActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalog.SetCanteenActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, "Canteen update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Canteen status updated"})
}

// ListCanteens returns every canteen, open or not
func (h *AdminHandler) ListCanteens(c *gin.Context) {
	canteens, err := h.catalog.ListAllCanteens(c.Request.Context())
	if err != nil {
		respondError(c, "Canteen listing", err)
		return
	}
	c.JSON(http.StatusOK, canteens)
}

// ListMenu returns every item of a canteen including unavailable ones
func (h *AdminHandler) ListMenu(c *gin.Context) {
	canteenID, ok := parseID(c, "canteenId")
	if !ok {
		return
	}
	items, err := h.catalog.ListAllMenu(c.Request.Context(), canteenID)
	if err != nil {
		respondError(c, "Menu listing", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddMenuItem creates an available menu item
func (h *AdminHandler) AddMenuItem(c *gin.Context) {
	var req AddMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.catalog.AddMenuItem(c.Request.Context(), req.CanteenID, req.ItemName, req.Price); err != nil {
		respondError(c, "Menu item creation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item added"})
}

// UpdateMenuItem replaces price and availability
func (h *AdminHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalog.UpdateMenuItem(c.Request.Context(), id, req.Price, *req.Available); err != nil {
		respondError(c, "Menu item update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated"})
}

// ListOrders returns all orders with customer and canteen names
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, "Order listing", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

package handlers

import (
	"net/http"

	"canteen-api/models"
	"canteen-api/services"
	"canteen-api/statemachine"

	"github.com/gin-gonic/gin"
)

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type StaffHandler struct {
	orders *services.Orders
}

func NewStaffHandler(o *services.Orders) *StaffHandler {
	return &StaffHandler{orders: o}
}

// ListOrders returns a canteen's orders, newest first
func (h *StaffHandler) ListOrders(c *gin.Context) {
	canteenID, ok := parseID(c, "canteenId")
	if !ok {
		return
	}
	orders, err := h.orders.ListForCanteen(c.Request.Context(), canteenID)
	if err != nil {
		respondError(c, "Order listing", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus sets the fulfillment status; READY notifies the customer
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !statemachine.IsKnown(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: PLACED, PREPARING, or READY"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status); err != nil {
		respondError(c, "Status update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

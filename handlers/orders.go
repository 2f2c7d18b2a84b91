package handlers

import (
	"net/http"

	"canteen-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	UserID    uint                `json:"userId" binding:"required"`
	CanteenID uint                `json:"canteenId" binding:"required"`
	Cart      []services.CartLine `json:"cart"`
	Total     decimal.Decimal     `json:"total"`
}

type ConfirmPaymentRequest struct {
	OrderID       uint   `json:"orderId" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
}

type OrderHandler struct {
	orders *services.Orders
}

func NewOrderHandler(o *services.Orders) *OrderHandler {
	return &OrderHandler{orders: o}
}

// CreateOrder stores a pending order for the caller's cart
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := h.orders.CreateOrder(c.Request.Context(), req.UserID, req.CanteenID, req.Cart, req.Total)
	if err != nil {
		respondError(c, "Order creation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "message": "Proceed to payment"})
}

// ConfirmPayment marks the order paid and placed, then emails the customer
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orders.ConfirmPayment(c.Request.Context(), req.OrderID, req.TransactionID); err != nil {
		respondError(c, "Payment confirmation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful! Order confirmed. Email sent to your registered email.",
	})
}

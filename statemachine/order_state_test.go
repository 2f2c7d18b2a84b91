package statemachine

import (
	"testing"

	"canteen-api/models"

	"github.com/stretchr/testify/assert"
)

func status(s models.OrderStatus) *models.OrderStatus { return &s }

func TestIsForwardStep(t *testing.T) {
	assert.True(t, IsForwardStep(status(models.StatusPlaced), models.StatusPreparing))
	assert.True(t, IsForwardStep(status(models.StatusPreparing), models.StatusReady))

	assert.False(t, IsForwardStep(status(models.StatusPlaced), models.StatusReady), "skip")
	assert.False(t, IsForwardStep(status(models.StatusReady), models.StatusPreparing), "backward")
	assert.False(t, IsForwardStep(nil, models.StatusPreparing), "unpaid order")
	assert.False(t, IsForwardStep(status(models.StatusPlaced), "COOKING"))
}

func TestNotifies(t *testing.T) {
	assert.True(t, Notifies(models.StatusReady))
	assert.False(t, Notifies(models.StatusPlaced))
	assert.False(t, Notifies(models.StatusPreparing))
	assert.False(t, Notifies("ready"))
}

func TestPaymentConfirmed(t *testing.T) {
	cols := PaymentConfirmed("TXN123")
	assert.Equal(t, "TXN123", cols["transaction_id"])
	assert.Equal(t, models.PaymentPaid, cols["payment_status"])
	assert.Equal(t, models.StatusPlaced, cols["o_status"])
}

func TestLifecycleStartsWithPayment(t *testing.T) {
	all := GetAllTransitions()
	assert.Equal(t, "payment", all[0].Axis)
	assert.Equal(t, string(models.StatusPlaced), all[1].To)
	assert.True(t, IsKnown(models.StatusReady))
	assert.False(t, IsKnown(""))
}

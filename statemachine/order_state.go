package statemachine

import (
	"canteen-api/models"
)

// Transition defines a state change on one axis and who performs it
type Transition struct {
	Axis  string `json:"axis"` // "payment" or "fulfillment"
	From  string `json:"from"`
	To    string `json:"to"`
	Actor string `json:"actor"` // "user", "staff"
}

// lifecycle is the forward path of an order. Fulfillment starts at PLACED only as a
// side effect of payment confirmation.
var lifecycle = []Transition{
	{Axis: "payment", From: string(models.PaymentPending), To: string(models.PaymentPaid), Actor: "user"},
	{Axis: "fulfillment", From: "", To: string(models.StatusPlaced), Actor: "user"},
	{Axis: "fulfillment", From: string(models.StatusPlaced), To: string(models.StatusPreparing), Actor: "staff"},
	{Axis: "fulfillment", From: string(models.StatusPreparing), To: string(models.StatusReady), Actor: "staff"},
}

// fulfillmentRank orders the fulfillment states along the forward path
var fulfillmentRank = map[models.OrderStatus]int{
	models.StatusPlaced:    1,
	models.StatusPreparing: 2,
	models.StatusReady:     3,
}

// PaymentConfirmed returns the column values written when a transaction id is accepted.
func PaymentConfirmed(transactionID string) map[string]interface{} {
	return map[string]interface{}{
		"transaction_id": transactionID,
		"payment_status": models.PaymentPaid,
		"o_status":       models.StatusPlaced,
	}
}

// IsKnown reports whether s is one of the fulfillment states.
func IsKnown(s models.OrderStatus) bool {
	_, ok := fulfillmentRank[s]
	return ok
}

// IsForwardStep reports whether moving from -> to is exactly one step along the
// fulfillment path. Staff updates are not rejected when this is false; callers use
// it to flag skipped or backward moves.
func IsForwardStep(from *models.OrderStatus, to models.OrderStatus) bool {
	if from == nil {
		return false
	}
	a, okA := fulfillmentRank[*from]
	b, okB := fulfillmentRank[to]
	return okA && okB && b == a+1
}

// Notifies reports whether entering s sends the customer an email.
// PLACED is announced by payment confirmation itself.
func Notifies(s models.OrderStatus) bool {
	return s == models.StatusReady
}

// GetAllTransitions returns the full lifecycle for documentation
func GetAllTransitions() []Transition {
	return lifecycle
}

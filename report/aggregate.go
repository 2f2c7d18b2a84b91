package report

import (
	"sort"

	"canteen-api/models"

	"github.com/shopspring/decimal"
)

// CanteenSales is one canteen's paid totals for the report window.
type CanteenSales struct {
	CanteenID uint
	Count     int
	Total     decimal.Decimal
}

// Aggregate groups orders by canteen, summing count and amount. Canteens come back
// in ascending id order.
func Aggregate(orders []models.Order) []CanteenSales {
	byCanteen := map[uint]*CanteenSales{}
	for _, o := range orders {
		s, ok := byCanteen[o.CanteenID]
		if !ok {
			s = &CanteenSales{CanteenID: o.CanteenID, Total: decimal.Zero}
			byCanteen[o.CanteenID] = s
		}
		s.Count++
		s.Total = s.Total.Add(o.TotalAmount)
	}

	out := make([]CanteenSales, 0, len(byCanteen))
	for _, s := range byCanteen {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CanteenID < out[j].CanteenID })
	return out
}

package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go to the frontend as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Canteen struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	IsActive bool   `json:"is_active" gorm:"not null"`
}

type MenuItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	CanteenID uint            `json:"canteen_id" gorm:"not null;index"`
	ItemName  string          `json:"item_name" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;check:chk_menu_items_price,price > 0"`
	Available bool            `json:"available" gorm:"not null"`
}

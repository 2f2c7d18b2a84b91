package services

import (
	"context"

	"canteen-api/models"
	"canteen-api/repository"

	"github.com/shopspring/decimal"
)

// Catalog exposes canteens and menus to users and lets admins edit them.
type Catalog struct {
	repo repository.CatalogRepository
}

func NewCatalog(repo repository.CatalogRepository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) ListActiveCanteens(ctx context.Context) ([]models.Canteen, error) {
	return c.repo.ListCanteens(ctx, true)
}

// ListMenu returns the available items of an active canteen.
func (c *Catalog) ListMenu(ctx context.Context, canteenID uint) ([]models.MenuItem, error) {
	return c.repo.ListMenu(ctx, canteenID, true)
}

func (c *Catalog) ListAllCanteens(ctx context.Context) ([]models.Canteen, error) {
	return c.repo.ListCanteens(ctx, false)
}

func (c *Catalog) ListAllMenu(ctx context.Context, canteenID uint) ([]models.MenuItem, error) {
	return c.repo.ListMenu(ctx, canteenID, false)
}

func (c *Catalog) SetCanteenActive(ctx context.Context, canteenID uint, active bool) error {
	return c.repo.SetCanteenActive(ctx, canteenID, active)
}

// AddMenuItem creates an available item; the store rejects non-positive prices.
func (c *Catalog) AddMenuItem(ctx context.Context, canteenID uint, name string, price decimal.Decimal) (*models.MenuItem, error) {
	item := &models.MenuItem{
		CanteenID: canteenID,
		ItemName:  name,
		Price:     price,
		Available: true,
	}
	if err := c.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem overwrites both price and availability.
func (c *Catalog) UpdateMenuItem(ctx context.Context, itemID uint, price decimal.Decimal, available bool) error {
	return c.repo.UpdateMenuItem(ctx, itemID, price, available)
}

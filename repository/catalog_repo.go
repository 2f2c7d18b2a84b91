package repository

import (
	"context"

	"canteen-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListCanteens(ctx context.Context, activeOnly bool) ([]models.Canteen, error)
	ListMenu(ctx context.Context, canteenID uint, availableOnly bool) ([]models.MenuItem, error)
	SetCanteenActive(ctx context.Context, id uint, active bool) error
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, id uint, price decimal.Decimal, available bool) error
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) ListCanteens(ctx context.Context, activeOnly bool) ([]models.Canteen, error) {
	canteens := []models.Canteen{}
	q := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&canteens).Error
	return canteens, err
}

// ListMenu with availableOnly also hides every item of an inactive canteen.
func (r *catalogRepo) ListMenu(ctx context.Context, canteenID uint, availableOnly bool) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	q := r.db.WithContext(ctx).Where("menu_items.canteen_id = ?", canteenID).Order("menu_items.id")
	if availableOnly {
		q = q.Joins("JOIN canteens ON canteens.id = menu_items.canteen_id AND canteens.is_active = ?", true).
			Where("menu_items.available = ?", true)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *catalogRepo) SetCanteenActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Canteen{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// UpdateMenuItem replaces price and availability together.
func (r *catalogRepo) UpdateMenuItem(ctx context.Context, id uint, price decimal.Decimal, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{"price": price, "available": available})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

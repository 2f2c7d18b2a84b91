package repository

import (
	"context"
	"time"

	"canteen-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	Update(ctx context.Context, id uint, columns map[string]interface{}) error
	ListSummaries(ctx context.Context, canteenID *uint) ([]models.OrderSummary, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Omit("Items").Create(o).Error)
}

// CreateItems inserts a cart's lines in one statement.
func (r *orderRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&items).Error)
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) Update(ctx context.Context, id uint, columns map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type summaryRow struct {
	ID            uint
	UserID        uint
	CanteenID     uint
	TotalAmount   decimal.Decimal
	PaymentStatus models.PaymentStatus
	OStatus       *models.OrderStatus
	TransactionID *string
	CreatedAt     time.Time
	UserName      string
	CanteenName   *string
}

// ListSummaries returns orders newest first joined with the ordering user's name; a nil
// canteenID lists every canteen and also carries the canteen name.
func (r *orderRepo) ListSummaries(ctx context.Context, canteenID *uint) ([]models.OrderSummary, error) {
	var rows []summaryRow
	q := r.db.WithContext(ctx).Table("orders").
		Select(`orders.id, orders.user_id, orders.canteen_id, orders.total_amount,
			orders.payment_status, orders.o_status, orders.transaction_id, orders.created_at,
			COALESCE(users.name, '') AS user_name, canteens.name AS canteen_name`).
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN canteens ON canteens.id = orders.canteen_id").
		Order("orders.created_at DESC, orders.id DESC")
	if canteenID != nil {
		q = q.Where("orders.canteen_id = ?", *canteenID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.OrderSummary, 0, len(rows))
	for _, row := range rows {
		s := models.OrderSummary{
			ID:            row.ID,
			UserID:        row.UserID,
			CanteenID:     row.CanteenID,
			TotalAmount:   row.TotalAmount,
			PaymentStatus: row.PaymentStatus,
			Status:        row.OStatus,
			TransactionID: row.TransactionID,
			CreatedAt:     row.CreatedAt,
			Users:         models.NameRef{Name: row.UserName},
		}
		if canteenID == nil && row.CanteenName != nil {
			s.Canteens = &models.NameRef{Name: *row.CanteenName}
		}
		out = append(out, s)
	}
	return out, nil
}

// ListPaidBetween returns PAID orders created in [from, to).
func (r *orderRepo) ListPaidBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", models.PaymentPaid, from, to).
		Order("id").
		Find(&orders).Error
	return orders, err
}

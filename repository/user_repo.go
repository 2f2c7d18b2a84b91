package repository

import (
	"context"

	"canteen-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindStaffForCanteen(ctx context.Context, canteenID uint) (*models.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindStaffForCanteen returns the first staff member attached to the canteen.
func (r *userRepo) FindStaffForCanteen(ctx context.Context, canteenID uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND canteen_id = ?", models.RoleStaff, canteenID).
		Order("id").
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

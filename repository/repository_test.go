package repository

import (
	"context"
	"testing"
	"time"

	"canteen-api/config"
	"canteen-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func seedCanteen(t *testing.T, db *gorm.DB, name string, active bool) models.Canteen {
	t.Helper()
	c := models.Canteen{Name: name, IsActive: active}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedItem(t *testing.T, db *gorm.DB, canteenID uint, name, price string, available bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{CanteenID: canteenID, ItemName: name, Price: decimal.RequireFromString(price), Available: available}
	require.NoError(t, db.Create(&item).Error)
	return item
}


// ── Users ────────────────────────────────────────────────────────────────────

func TestUserRepo_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Email: "asha@campus.edu", Name: "Asha", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	byEmail, err := repo.FindByEmail(ctx, "asha@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", byID.Name)
	assert.Nil(t, byID.CanteenID)

	_, err = repo.FindByEmail(ctx, "nobody@campus.edu")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "dup@campus.edu", Name: "One", Role: models.RoleUser}))
	err := repo.Create(ctx, &models.User{Email: "dup@campus.edu", Name: "Two", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepo_FindStaffForCanteen(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	c := seedCanteen(t, db, "North Block", true)

	require.NoError(t, repo.Create(ctx, &models.User{Email: "u@campus.edu", Name: "U", Role: models.RoleUser, CanteenID: &c.ID}))
	_, err := repo.FindStaffForCanteen(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Create(ctx, &models.User{Email: "s@campus.edu", Name: "S", Role: models.RoleStaff, CanteenID: &c.ID}))
	staff, err := repo.FindStaffForCanteen(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "s@campus.edu", staff.Email)
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func TestCatalogRepo_ActiveFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	open := seedCanteen(t, db, "Open", true)
	closed := seedCanteen(t, db, "Closed", false)
	dosa := seedItem(t, db, open.ID, "Dosa", "60", true)
	seedItem(t, db, open.ID, "Idli", "40", false)
	seedItem(t, db, closed.ID, "Samosa", "15", true)

	active, err := repo.ListCanteens(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	all, err := repo.ListCanteens(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	menu, err := repo.ListMenu(ctx, open.ID, true)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, dosa.ID, menu[0].ID)
	assert.True(t, decimal.NewFromInt(60).Equal(menu[0].Price))

	hidden, err := repo.ListMenu(ctx, closed.ID, true)
	require.NoError(t, err)
	assert.Empty(t, hidden, "items of an inactive canteen are never listed")

	full, err := repo.ListMenu(ctx, open.ID, false)
	require.NoError(t, err)
	assert.Len(t, full, 2)
}

func TestCatalogRepo_Mutations(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	c := seedCanteen(t, db, "Main", true)

	require.NoError(t, repo.SetCanteenActive(ctx, c.ID, false))
	require.NoError(t, repo.SetCanteenActive(ctx, c.ID, false), "toggle is idempotent")
	assert.ErrorIs(t, repo.SetCanteenActive(ctx, 999, true), ErrNotFound)

	item := &models.MenuItem{CanteenID: c.ID, ItemName: "Tea", Price: decimal.RequireFromString("12.50"), Available: true}
	require.NoError(t, repo.CreateMenuItem(ctx, item))

	require.NoError(t, repo.UpdateMenuItem(ctx, item.ID, decimal.NewFromInt(15), false))
	var got models.MenuItem
	require.NoError(t, db.First(&got, item.ID).Error)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Price))
	assert.False(t, got.Available)

	assert.ErrorIs(t, repo.UpdateMenuItem(ctx, 999, decimal.NewFromInt(1), true), ErrNotFound)
}

func TestCatalogRepo_RejectsNonPositivePrice(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepository(db)
	c := seedCanteen(t, db, "Main", true)

	err := repo.CreateMenuItem(context.Background(), &models.MenuItem{CanteenID: c.ID, ItemName: "Free", Price: decimal.Zero, Available: true})
	assert.Error(t, err)
}

// ── Orders ───────────────────────────────────────────────────────────────────

func TestOrderRepo_CreateUpdateAndList(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	c := seedCanteen(t, db, "Main", true)
	u := &models.User{Email: "asha@campus.edu", Name: "Asha", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, u))

	first := &models.Order{UserID: u.ID, CanteenID: c.ID, TotalAmount: decimal.NewFromInt(100), PaymentStatus: models.PaymentPending}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.CreateItems(ctx, []models.OrderItem{
		{OrderID: first.ID, ItemName: "Dosa", Price: decimal.NewFromInt(60), Quantity: 1},
		{OrderID: first.ID, ItemName: "Idli", Price: decimal.NewFromInt(20), Quantity: 2},
	}))
	require.NoError(t, repo.CreateItems(ctx, nil))

	second := &models.Order{UserID: u.ID, CanteenID: c.ID, TotalAmount: decimal.NewFromInt(40), PaymentStatus: models.PaymentPending,
		CreatedAt: first.CreatedAt.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, second))

	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", first.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Update(ctx, first.ID, map[string]interface{}{"o_status": models.StatusPreparing}))
	assert.ErrorIs(t, repo.Update(ctx, 999, map[string]interface{}{"o_status": models.StatusReady}), ErrNotFound)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal(t, models.StatusPreparing, *got.Status)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	forCanteen, err := repo.ListSummaries(ctx, &c.ID)
	require.NoError(t, err)
	require.Len(t, forCanteen, 2)
	assert.Equal(t, second.ID, forCanteen[0].ID, "newest first")
	assert.Equal(t, "Asha", forCanteen[0].Users.Name)
	assert.Nil(t, forCanteen[0].Canteens)
	assert.Equal(t, models.PaymentPending, forCanteen[0].PaymentStatus)

	all, err := repo.ListSummaries(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].Canteens)
	assert.Equal(t, "Main", all[0].Canteens.Name)

	other := uint(42)
	none, err := repo.ListSummaries(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderRepo_ListPaidBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	mk := func(status models.PaymentStatus, at time.Time) {
		o := &models.Order{UserID: 1, CanteenID: 1, TotalAmount: decimal.NewFromInt(10), PaymentStatus: status, CreatedAt: at}
		require.NoError(t, repo.Create(ctx, o))
	}
	mk(models.PaymentPaid, day.Add(9*time.Hour))
	mk(models.PaymentPaid, day.Add(18*time.Hour))
	mk(models.PaymentPending, day.Add(10*time.Hour))
	mk(models.PaymentPaid, day.Add(-time.Hour))
	mk(models.PaymentPaid, day.Add(25*time.Hour))

	orders, err := repo.ListPaidBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
	}
}


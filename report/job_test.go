package report

import (
	"context"
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"canteen-api/config"
	"canteen-api/models"
	"canteen-api/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentReport struct {
	to    string
	day   time.Time
	count int
	total decimal.Decimal
}

type recordingSender struct {
	sent []sentReport
	err  error
}

func (s *recordingSender) DailyReport(_ context.Context, to string, day time.Time, count int, total decimal.Decimal) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentReport{to, day, count, total})
	return nil
}

type deniedLock struct{}

func (deniedLock) Acquire(context.Context, string) (bool, error) { return false, nil }
func (deniedLock) Release(context.Context, string) error         { return nil }

// setnxLock behaves like the redis claim: first Acquire per day wins until Release.
type setnxLock struct {
	mu      sync.Mutex
	held    map[string]bool
	release int
}

func newSetnxLock() *setnxLock { return &setnxLock{held: map[string]bool{}} }

func (l *setnxLock) Acquire(_ context.Context, day string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[day] {
		return false, nil
	}
	l.held[day] = true
	return true, nil
}

func (l *setnxLock) Release(_ context.Context, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, day)
	l.release++
	return nil
}

var today = time.Date(2026, 10, 15, 23, 55, 0, 0, time.UTC)

func newTestJob(t *testing.T, sender Sender, lock Lock) (*Job, *gorm.DB) {
	t.Helper()
	db, err := config.OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	job := NewJob(repository.NewOrderRepository(db), repository.NewUserRepository(db), sender, lock)
	job.now = func() time.Time { return today }
	return job, db
}

func seedOrder(t *testing.T, db *gorm.DB, canteenID uint, total string, status models.PaymentStatus, at time.Time) {
	t.Helper()
	o := models.Order{UserID: 1, CanteenID: canteenID, TotalAmount: decimal.RequireFromString(total), PaymentStatus: status, CreatedAt: at}
	require.NoError(t, db.Create(&o).Error)
}

func seedStaff(t *testing.T, db *gorm.DB, canteenID uint, email string) {
	t.Helper()
	u := models.User{Email: email, Name: "Staff", Role: models.RoleStaff, CanteenID: &canteenID}
	require.NoError(t, db.Create(&u).Error)
}

func TestWindow(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	start, end := Window(time.Date(2026, 10, 16, 2, 0, 0, 0, ist)) // 20:30 UTC on the 15th
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestAggregate(t *testing.T) {
	got := Aggregate([]models.Order{
		{CanteenID: 2, TotalAmount: decimal.RequireFromString("0.10")},
		{CanteenID: 1, TotalAmount: decimal.RequireFromString("100")},
		{CanteenID: 2, TotalAmount: decimal.RequireFromString("0.20")},
	})
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].CanteenID)
	assert.Equal(t, 2, got[1].Count)
	assert.True(t, decimal.RequireFromString("0.30").Equal(got[1].Total), "exact decimal sum")
	assert.Empty(t, Aggregate(nil))
}

func TestRun_PendingExcludedFromTotals(t *testing.T) {
	sender := &recordingSender{}
	job, db := newTestJob(t, sender, nil)
	seedStaff(t, db, 1, "staff.c@campus.edu")

	seedOrder(t, db, 1, "100", models.PaymentPaid, today.Add(-10*time.Hour))
	seedOrder(t, db, 1, "150", models.PaymentPaid, today.Add(-2*time.Hour))
	seedOrder(t, db, 1, "80", models.PaymentPending, today.Add(-time.Hour))
	seedOrder(t, db, 1, "500", models.PaymentPaid, today.Add(-48*time.Hour)) // yesterday

	results, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "staff.c@campus.edu", sender.sent[0].to)
	assert.Equal(t, 2, sender.sent[0].count)
	assert.True(t, decimal.NewFromInt(250).Equal(sender.sent[0].total))
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), sender.sent[0].day)
}

func TestRun_SkipsCanteensWithoutStaff(t *testing.T) {
	sender := &recordingSender{}
	job, db := newTestJob(t, sender, nil)
	seedStaff(t, db, 2, "staff2@campus.edu")
	seedOrder(t, db, 1, "40", models.PaymentPaid, today.Add(-time.Hour))
	seedOrder(t, db, 2, "60", models.PaymentPaid, today.Add(-time.Hour))

	results, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "no staff user", results[0].Skipped)
	assert.NoError(t, results[0].Err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "staff2@campus.edu", sender.sent[0].to)
}

func TestRun_NoOrdersSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	job, db := newTestJob(t, sender, nil)
	seedStaff(t, db, 1, "staff@campus.edu")

	results, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, sender.sent)
}

func TestRun_SendFailureRecorded(t *testing.T) {
	sender := &recordingSender{err: errors.New("relay down")}
	job, db := newTestJob(t, sender, nil)
	seedStaff(t, db, 1, "staff@campus.edu")
	seedOrder(t, db, 1, "40", models.PaymentPaid, today.Add(-time.Hour))

	results, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.EqualError(t, results[0].Err, "relay down")
}

func TestRun_LockHeldElsewhere(t *testing.T) {
	sender := &recordingSender{}
	job, db := newTestJob(t, sender, deniedLock{})
	seedStaff(t, db, 1, "staff@campus.edu")
	seedOrder(t, db, 1, "40", models.PaymentPaid, today.Add(-time.Hour))

	results, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Empty(t, sender.sent)
}

func TestSchedule_RejectsBadSpec(t *testing.T) {
	job, _ := newTestJob(t, &recordingSender{}, nil)
	_, err := Schedule(context.Background(), "every day at noon", job)
	assert.Error(t, err)

	stop, err := Schedule(context.Background(), "55 23 * * *", job)
	require.NoError(t, err)
	stop()
}

func TestRun_FailedLoadReleasesDayClaim(t *testing.T) {
	db, err := config.OpenDB(":memory:")
	require.NoError(t, err)
	sender := &recordingSender{}
	lock := newSetnxLock()
	job := NewJob(repository.NewOrderRepository(db), repository.NewUserRepository(db), sender, lock)
	job.now = func() time.Time { return today }

	// no schema yet, so loading orders fails
	_, err = job.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, lock.release)

	require.NoError(t, config.Migrate(db))
	seedStaff(t, db, 1, "staff@campus.edu")
	seedOrder(t, db, 1, "40", models.PaymentPaid, today.Add(-time.Hour))

	results, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, sender.sent, 1)
}

func TestRun_AllSendsFailedReleasesDayClaim(t *testing.T) {
	sender := &recordingSender{err: errors.New("relay down")}
	lock := newSetnxLock()
	job, db := newTestJob(t, sender, lock)
	seedStaff(t, db, 1, "staff@campus.edu")
	seedOrder(t, db, 1, "40", models.PaymentPaid, today.Add(-time.Hour))

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, lock.release)

	sender.err = nil
	results, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Len(t, sender.sent, 1)
}

func TestRun_SentReportKeepsDayClaim(t *testing.T) {
	sender := &recordingSender{}
	lock := newSetnxLock()
	job, db := newTestJob(t, sender, lock)
	seedStaff(t, db, 1, "staff@campus.edu")
	seedOrder(t, db, 1, "40", models.PaymentPaid, today.Add(-time.Hour))

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	results, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Len(t, sender.sent, 1)
	assert.Zero(t, lock.release)
}

func TestRun_LogsUncoveredTail(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	job, _ := newTestJob(t, &recordingSender{}, nil)

	_, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "orders paid after the cutoff are not in any report")
	assert.Contains(t, buf.String(), `"cutoff":"2026-10-15T23:55:00Z"`)
}

func TestNewRedis_UnreachableServer(t *testing.T) {
	_, err := NewRedis("redis://127.0.0.1:1/0")
	assert.Error(t, err)

	_, err = NewRedis("not a url")
	assert.Error(t, err)
}

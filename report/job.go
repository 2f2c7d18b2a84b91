// Package report sends each canteen's staff a summary of the day's paid orders.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canteen-api/metrics"
	"canteen-api/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Sender is the part of notify.Dispatcher the report needs.
type Sender interface {
	DailyReport(ctx context.Context, to string, day time.Time, count int, total decimal.Decimal) error
}

// Result describes what happened for one canteen in a run.
type Result struct {
	CanteenSales
	StaffEmail string
	Skipped    string // why no email was sent, empty when sent
	Err        error
}

// Job aggregates the current UTC day's PAID orders and emails each canteen's staff.
type Job struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	sender Sender
	lock   Lock
	now    func() time.Time
}

func NewJob(orders repository.OrderRepository, users repository.UserRepository, sender Sender, lock Lock) *Job {
	if lock == nil {
		lock = NoLock{}
	}
	return &Job{orders: orders, users: users, sender: sender, lock: lock, now: time.Now}
}

// Window returns the UTC calendar day containing t as [start, end).
func Window(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Run executes one report pass. A failed send is recorded on its Result and the
// remaining canteens are still processed.
func (j *Job) Run(ctx context.Context) ([]Result, error) {
	log := zerolog.Ctx(ctx)
	now := j.now()
	start, end := Window(now)
	day := start.Format(time.DateOnly)

	ok, err := j.lock.Acquire(ctx, day)
	if err != nil {
		metrics.ReportRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("report lock: %w", err)
	}
	if !ok {
		log.Info().Str("date", day).Msg("report: already sent by another instance")
		metrics.ReportRuns.WithLabelValues("skipped").Inc()
		return nil, nil
	}

	// the window is the whole UTC day but the run fires before it ends
	log.Info().Str("date", day).Time("cutoff", now).Dur("uncovered", end.Sub(now)).
		Msg("report: orders paid after the cutoff are not in any report")

	orders, err := j.orders.ListPaidBetween(ctx, start, end)
	if err != nil {
		metrics.ReportRuns.WithLabelValues("error").Inc()
		j.release(ctx, day)
		return nil, fmt.Errorf("report orders: %w", err)
	}
	if len(orders) == 0 {
		log.Info().Str("date", day).Msg("report: no paid orders")
		metrics.ReportRuns.WithLabelValues("ok").Inc()
		return nil, nil
	}
	log.Info().Str("date", day).Int("orders", len(orders)).Msg("report: orders found")

	var results []Result
	sent, failed := 0, 0
	for _, sales := range Aggregate(orders) {
		r := Result{CanteenSales: sales}
		staff, err := j.users.FindStaffForCanteen(ctx, sales.CanteenID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			r.Skipped = "no staff user"
			log.Info().Uint("canteen_id", sales.CanteenID).Msg("report: no staff for canteen, skipping")
		case err != nil:
			r.Err = err
			failed++
			log.Error().Err(err).Uint("canteen_id", sales.CanteenID).Msg("report: staff lookup failed")
		default:
			r.StaffEmail = staff.Email
			if err := j.sender.DailyReport(ctx, staff.Email, start, sales.Count, sales.Total); err != nil {
				r.Err = err
				failed++
				log.Error().Err(err).Uint("canteen_id", sales.CanteenID).Str("to", staff.Email).Msg("report: send failed")
			} else {
				sent++
				log.Info().Uint("canteen_id", sales.CanteenID).Str("to", staff.Email).Msg("report: sent")
			}
		}
		results = append(results, r)
	}

	if sent == 0 && failed > 0 {
		// nothing went out, so a later run may try the day again
		j.release(ctx, day)
		metrics.ReportRuns.WithLabelValues("error").Inc()
	} else {
		metrics.ReportRuns.WithLabelValues("ok").Inc()
	}
	log.Info().Str("date", day).Int("canteens", len(results)).Int("sent", sent).Int("failed", failed).Msg("report: completed")
	return results, nil
}

func (j *Job) release(ctx context.Context, day string) {
	if err := j.lock.Release(ctx, day); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("date", day).Msg("report: could not release day claim")
	}
}

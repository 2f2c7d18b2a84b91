package report

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Schedule registers the job on a UTC cron and starts it. The returned function
// stops the scheduler and waits for a running report to finish.
func Schedule(ctx context.Context, spec string, job *Job) (func(), error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(spec, func() {
		runCtx := log.Logger.With().Str("component", "report").Logger().WithContext(ctx)
		if _, err := job.Run(runCtx); err != nil {
			log.Error().Err(err).Msg("report: run failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", spec).Msg("report: scheduler started")

	return func() {
		<-c.Stop().Done()
		log.Info().Msg("report: scheduler stopped")
	}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen-api/config"
	"canteen-api/identity"
	"canteen-api/middleware"
	"canteen-api/notify"
	"canteen-api/report"
	"canteen-api/repository"
	"canteen-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:           "canteen-api",
		Short:         "Campus canteen ordering API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP API and the daily report scheduler", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "Create or update the database schema", RunE: runMigrate},
		&cobra.Command{Use: "report", Short: "Send today's sales report once", RunE: runReport},
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("canteen-api failed")
	}
}

// setup loads configuration, configures logging and opens the database.
func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.DefaultContextLogger = &log.Logger

	db, err := config.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, db, nil
}

func newMailer(cfg *config.Config) (notify.Mailer, func()) {
	if cfg.SMTPUser == "" {
		log.Warn().Msg("SMTP_USER not set, emails will only be logged")
		return notify.LogMailer{}, func() {}
	}
	m, err := notify.NewSMTPMailer(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("SMTP mailer unavailable, emails will only be logged")
		return notify.LogMailer{}, func() {}
	}
	return m, m.Close
}

func newReportJob(cfg *config.Config, db *gorm.DB, mailer notify.Mailer) *report.Job {
	var lock report.Lock
	if cfg.RedisURL != "" {
		rdb, err := report.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, report runs without a replica lock")
		} else {
			lock = report.NewRedisLock(rdb)
		}
	}
	return report.NewJob(
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		notify.NewDispatcher(mailer),
		lock,
	)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	if _, _, err := setup(); err != nil {
		return err
	}
	log.Info().Msg("✅ Database migrated successfully")
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	mailer, closeMailer := newMailer(cfg)
	defer closeMailer()

	results, err := newReportJob(cfg, db, mailer).Run(log.Logger.WithContext(cmd.Context()))
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Info().Uint("canteen_id", r.CanteenID).Int("orders", r.Count).Str("total", r.Total.String()).
			Str("staff", r.StaffEmail).Str("skipped", r.Skipped).AnErr("error", r.Err).Msg("report result")
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	if cfg.GoogleClientID == "" {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, Google sign-in will reject every token")
	}

	mailer, closeMailer := newMailer(cfg)
	defer closeMailer()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopScheduler, err := report.Schedule(ctx, cfg.ReportSchedule, newReportJob(cfg, db, mailer))
	if err != nil {
		return fmt.Errorf("report schedule %q: %w", cfg.ReportSchedule, err)
	}
	defer stopScheduler()

	verifier := identity.NewGoogleVerifier(
		cfg.GoogleClientID,
		identity.NewJWKS(cfg.GoogleCertsURL, &http.Client{Timeout: 10 * time.Second}),
	)
	r := routes.NewRouter(routes.Dependencies{
		DB:       db,
		Verifier: verifier,
		Mailer:   mailer,
		Sessions: middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.AuthEnforceSessions),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("🚀 Server running on http://localhost:%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

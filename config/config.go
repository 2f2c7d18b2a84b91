package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration read from the environment (and an optional .env file).
type Config struct {
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// DatabaseURL is a postgres:// URL (Supabase) or a sqlite file path.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Google sign-in
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleCertsURL string `mapstructure:"GOOGLE_CERTS_URL"`

	// Sessions
	SessionSecret       string        `mapstructure:"SESSION_SECRET"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	AuthEnforceSessions bool          `mapstructure:"AUTH_ENFORCE_SESSIONS"`

	// SMTP relay
	SMTPHost     string        `mapstructure:"SMTP_HOST"`
	SMTPPort     int           `mapstructure:"SMTP_PORT"`
	SMTPUser     string        `mapstructure:"SMTP_USER"`
	SMTPPassword string        `mapstructure:"SMTP_PASSWORD"`
	MailFromName string        `mapstructure:"MAIL_FROM_NAME"`
	MailTimeout  time.Duration `mapstructure:"MAIL_TIMEOUT"`

	// Daily sales report
	ReportSchedule string `mapstructure:"REPORT_SCHEDULE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 3000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "canteen.db")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CERTS_URL", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("SESSION_SECRET", "canteen_dev_session_secret")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("AUTH_ENFORCE_SESSIONS", false)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM_NAME", "Canteen Management")
	v.SetDefault("MAIL_TIMEOUT", 10*time.Second)
	v.SetDefault("REPORT_SCHEDULE", "55 23 * * *")
	v.SetDefault("REDIS_URL", "")

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

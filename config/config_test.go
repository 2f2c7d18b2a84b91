package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "canteen.db", cfg.DatabaseURL)
	assert.Equal(t, 10*time.Second, cfg.MailTimeout)
	assert.Equal(t, "55 23 * * *", cfg.ReportSchedule)
	assert.False(t, cfg.AuthEnforceSessions)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GOOGLE_CLIENT_ID", "client-123.apps.googleusercontent.com")
	t.Setenv("MAIL_TIMEOUT", "3s")
	t.Setenv("AUTH_ENFORCE_SESSIONS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "client-123.apps.googleusercontent.com", cfg.GoogleClientID)
	assert.Equal(t, 3*time.Second, cfg.MailTimeout)
	assert.True(t, cfg.AuthEnforceSessions)
}

func TestOpenDB_SqliteMigrates(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "canteens", "menu_items", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn("orders", "o_status"))
}

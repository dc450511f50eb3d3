package config

import (
	"testing"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые читает Load
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "TELEGRAM_TOKEN", "STORE_DRIVER", "STORE_PATH", "DB_DSN",
		"MIGRATIONS_DIR", "CATALOG_PATH", "GEMINI_API_KEY", "GEMINI_MODEL",
		"SELECTION_POLICY", "SESSION_TTL", "BUSINESS_NAME",
		"BUSINESS_HOURS_START", "BUSINESS_HOURS_END", "SLOT_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoreJSON, cfg.StoreDriver)
	assert.Equal(t, "data/bookings.json", cfg.StorePath)
	assert.Equal(t, "data/vehicles.json", cfg.CatalogPath)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "our dealership", cfg.BusinessName)
	assert.False(t, cfg.IsProduction())
	assert.Error(t, cfg.RequireTelegram())
	assert.Equal(t, model.DefaultSettings(), cfg.BookingSettings())
}

func TestBookingSettingsFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUSINESS_HOURS_START", "10:00")
	t.Setenv("BUSINESS_HOURS_END", "16:00")
	t.Setenv("SLOT_MINUTES", "60")

	cfg, err := Load()
	require.NoError(t, err)

	settings := cfg.BookingSettings()
	assert.Equal(t, "10:00", settings.BusinessHours.Start)
	assert.Equal(t, "16:00", settings.BusinessHours.End)
	assert.Equal(t, 60, settings.BusinessHours.SlotGranularityMinutes)
	assert.Equal(t, 60, settings.BookingDurationMinutes)
	assert.Equal(t, model.DefaultMaxDailyBookings, settings.MaxDailyBookings)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("SELECTION_POLICY", "highest_price")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.NoError(t, cfg.RequireTelegram())
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "data/bookings.db", cfg.StorePath)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "highest_price", cfg.SelectionPolicy)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "postgres without dsn", env: map[string]string{"STORE_DRIVER": "postgres"}, want: "DB_DSN"},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}, want: "unknown STORE_DRIVER"},
		{name: "bad ttl", env: map[string]string{"SESSION_TTL": "soon"}, want: "SESSION_TTL"},
		{name: "negative ttl", env: map[string]string{"SESSION_TTL": "-5m"}, want: "must not be negative"},
		{name: "bad slot minutes", env: map[string]string{"SLOT_MINUTES": "half"}, want: "SLOT_MINUTES"},
		{name: "negative slot minutes", env: map[string]string{"SLOT_MINUTES": "-30"}, want: "SLOT_MINUTES must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/testdrive")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
}

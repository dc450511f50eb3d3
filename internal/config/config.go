package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/joho/godotenv"
)

// Драйверы хранилища броней
const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Environment     string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	TelegramToken   string        `mapstructure:"TELEGRAM_TOKEN"`
	StoreDriver     string        `mapstructure:"STORE_DRIVER"`
	StorePath       string        `mapstructure:"STORE_PATH"`
	DBDSN           string        `mapstructure:"DB_DSN"`
	MigrationsDir   string        `mapstructure:"MIGRATIONS_DIR"`
	CatalogPath     string        `mapstructure:"CATALOG_PATH"`
	GeminiAPIKey    string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string        `mapstructure:"GEMINI_MODEL"`
	SelectionPolicy string        `mapstructure:"SELECTION_POLICY"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	BusinessName    string        `mapstructure:"BUSINESS_NAME"`

	// Рабочие часы для нового хранилища, сохранённые настройки важнее
	BusinessHoursStart string `mapstructure:"BUSINESS_HOURS_START"`
	BusinessHoursEnd   string `mapstructure:"BUSINESS_HOURS_END"`
	SlotMinutes        int    `mapstructure:"SLOT_MINUTES"`

	// EnvFileLoaded найден ли .env, логируется после создания логгера
	EnvFileLoaded bool `mapstructure:"-"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Ошибку игнорируем: файла может не быть
	envErr := godotenv.Load(".env")

	cfg := &Config{
		Environment:     os.Getenv("ENV"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		StoreDriver:     strings.ToLower(os.Getenv("STORE_DRIVER")),
		StorePath:       os.Getenv("STORE_PATH"),
		DBDSN:           os.Getenv("DB_DSN"),
		MigrationsDir:   os.Getenv("MIGRATIONS_DIR"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		SelectionPolicy: os.Getenv("SELECTION_POLICY"),
		BusinessName:    os.Getenv("BUSINESS_NAME"),
		EnvFileLoaded:   envErr == nil,

		BusinessHoursStart: os.Getenv("BUSINESS_HOURS_START"),
		BusinessHoursEnd:   os.Getenv("BUSINESS_HOURS_END"),
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	if raw := os.Getenv("SLOT_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("SLOT_MINUTES: %w", err)
		}
		cfg.SlotMinutes = minutes
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = StoreJSON
	}
	if c.StorePath == "" {
		switch c.StoreDriver {
		case StoreSQLite:
			c.StorePath = "data/bookings.db"
		default:
			c.StorePath = "data/bookings.json"
		}
	}
	if c.CatalogPath == "" {
		c.CatalogPath = "data/vehicles.json"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-1.5-flash"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.BusinessName == "" {
		c.BusinessName = "our dealership"
	}
}

// Validate проверяет обязательные поля для выбранного хранилища
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreJSON, StoreSQLite:
	case StorePostgres:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (json, postgres or sqlite)", c.StoreDriver)
	}

	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	if c.SlotMinutes < 0 {
		return errors.New("SLOT_MINUTES must not be negative")
	}

	return nil
}

// RequireTelegram токен нужен только для запуска бота
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

// BookingSettings настройки по умолчанию с учётом BUSINESS_HOURS_* и SLOT_MINUTES
func (c *Config) BookingSettings() model.Settings {
	settings := model.DefaultSettings()
	if c.BusinessHoursStart != "" {
		settings.BusinessHours.Start = c.BusinessHoursStart
	}
	if c.BusinessHoursEnd != "" {
		settings.BusinessHours.End = c.BusinessHoursEnd
	}
	if c.SlotMinutes > 0 {
		settings.BusinessHours.SlotGranularityMinutes = c.SlotMinutes
		settings.BookingDurationMinutes = c.SlotMinutes
	}
	return settings
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

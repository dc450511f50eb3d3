package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// bookingRow строка таблицы bookings
type bookingRow struct {
	ID              string `gorm:"primaryKey;size:16"`
	Seq             int    `gorm:"not null;index"`
	ResourceID      string `gorm:"size:64;not null;index:idx_bookings_slot"`
	Vehicle         string `gorm:"size:128"`
	BookingDate     string `gorm:"size:10;not null;index:idx_bookings_slot"`
	SlotStart       string `gorm:"size:5;not null;index:idx_bookings_slot"`
	CustomerName    string `gorm:"size:128"`
	CustomerPhone   string `gorm:"size:32;not null;index"`
	CustomerEmail   string `gorm:"size:128"`
	Status          string `gorm:"size:16;not null"`
	DurationMinutes int    `gorm:"not null"`
	CreatedAt       time.Time
	CancelledAt     *time.Time
	RescheduledAt   *time.Time
}

func (bookingRow) TableName() string { return "bookings" }

// settingsRow единственная строка настроек (ID = 1)
type settingsRow struct {
	ID                     uint   `gorm:"primaryKey"`
	BusinessStart          string `gorm:"size:5;not null"`
	BusinessEnd            string `gorm:"size:5;not null"`
	SlotGranularityMinutes int    `gorm:"not null"`
	BookingDurationMinutes int    `gorm:"not null"`
	MaxDailyBookings       int    `gorm:"not null;default:0"`
}

func (settingsRow) TableName() string { return "scheduler_settings" }

// SQLiteStore хранилище снимка бронирований в SQLite через GORM
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLiteStore открывает файл базы (или ":memory:") и создаёт таблицы
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLiteStore(db)
}

// NewSQLiteStore использует уже открытое соединение
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&bookingRow{}, &settingsRow{}); err != nil {
		return nil, fmt.Errorf("sqlite auto-migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.Snapshot, error) {
	db := s.db.WithContext(ctx)

	var settings settingsRow
	if err := db.First(&settings, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scheduler settings: %w", err)
	}

	var rows []bookingRow
	if err := db.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	snapshot := &model.Snapshot{
		Bookings: make([]model.Booking, 0, len(rows)),
		Settings: model.Settings{
			BusinessHours: model.BusinessHours{
				Start:                  settings.BusinessStart,
				End:                    settings.BusinessEnd,
				SlotGranularityMinutes: settings.SlotGranularityMinutes,
			},
			BookingDurationMinutes: settings.BookingDurationMinutes,
			MaxDailyBookings:       settings.MaxDailyBookings,
		},
	}
	for _, row := range rows {
		snapshot.Bookings = append(snapshot.Bookings, row.toModel())
	}

	return snapshot, nil
}

// Save переписывает таблицы целиком в одной транзакции
func (s *SQLiteStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM bookings").Error; err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}

		if len(snapshot.Bookings) > 0 {
			rows := make([]bookingRow, 0, len(snapshot.Bookings))
			for i, b := range snapshot.Bookings {
				rows = append(rows, bookingRowFromModel(i, b))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert bookings: %w", err)
			}
		}

		hours := snapshot.Settings.BusinessHours
		settings := settingsRow{
			ID:                     1,
			BusinessStart:          hours.Start,
			BusinessEnd:            hours.End,
			SlotGranularityMinutes: hours.SlotGranularityMinutes,
			BookingDurationMinutes: snapshot.Settings.BookingDurationMinutes,
			MaxDailyBookings:       snapshot.Settings.MaxDailyBookings,
		}
		if err := tx.Save(&settings).Error; err != nil {
			return fmt.Errorf("save scheduler settings: %w", err)
		}
		return nil
	})
}

// Close закрывает соединение с базой
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func bookingRowFromModel(seq int, b model.Booking) bookingRow {
	return bookingRow{
		ID:              b.ID,
		Seq:             seq,
		ResourceID:      b.ResourceID,
		Vehicle:         b.Vehicle,
		BookingDate:     b.Date,
		SlotStart:       b.SlotStart,
		CustomerName:    b.Customer.Name,
		CustomerPhone:   b.Customer.Phone,
		CustomerEmail:   b.Customer.Email,
		Status:          string(b.Status),
		DurationMinutes: b.DurationMinutes,
		CreatedAt:       b.CreatedAt,
		CancelledAt:     b.CancelledAt,
		RescheduledAt:   b.RescheduledAt,
	}
}

func (r bookingRow) toModel() model.Booking {
	return model.Booking{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		Vehicle:    r.Vehicle,
		Date:       r.BookingDate,
		SlotStart:  r.SlotStart,
		Customer: model.Customer{
			Name:  r.CustomerName,
			Phone: r.CustomerPhone,
			Email: r.CustomerEmail,
		},
		Status:          model.BookingStatus(r.Status),
		DurationMinutes: r.DurationMinutes,
		CreatedAt:       r.CreatedAt,
		CancelledAt:     r.CancelledAt,
		RescheduledAt:   r.RescheduledAt,
	}
}

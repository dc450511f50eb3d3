package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository хранилище снимка бронирований в PostgreSQL.
// Схема создаётся миграциями из каталога migrations.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Load читает настройки и все брони в порядке создания.
// Отсутствие строки настроек означает неинициализированное хранилище.
func (r *BookingRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	query := `
		SELECT business_start, business_end, slot_granularity_minutes,
		       booking_duration_minutes, max_daily_bookings
		FROM scheduler_settings
		WHERE id = 1
	`

	var settings model.Settings
	err := r.pool.QueryRow(ctx, query).Scan(
		&settings.BusinessHours.Start,
		&settings.BusinessHours.End,
		&settings.BusinessHours.SlotGranularityMinutes,
		&settings.BookingDurationMinutes,
		&settings.MaxDailyBookings,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get scheduler settings: %w", err)
	}

	bookings, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{Bookings: bookings, Settings: settings}, nil
}

func (r *BookingRepository) getAll(ctx context.Context) ([]model.Booking, error) {
	query := `
		SELECT id, resource_id, vehicle, booking_date, slot_start,
		       customer_name, customer_phone, customer_email,
		       status, duration_minutes, created_at, cancelled_at, rescheduled_at
		FROM bookings
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.ResourceID,
			&booking.Vehicle,
			&booking.Date,
			&booking.SlotStart,
			&booking.Customer.Name,
			&booking.Customer.Phone,
			&booking.Customer.Email,
			&booking.Status,
			&booking.DurationMinutes,
			&booking.CreatedAt,
			&booking.CancelledAt,
			&booking.RescheduledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// Save переписывает таблицы целиком в одной транзакции
func (r *BookingRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("clear bookings: %w", err)
	}

	if len(snapshot.Bookings) > 0 {
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"bookings"},
			[]string{
				"id", "seq", "resource_id", "vehicle", "booking_date", "slot_start",
				"customer_name", "customer_phone", "customer_email",
				"status", "duration_minutes", "created_at", "cancelled_at", "rescheduled_at",
			},
			pgx.CopyFromSlice(len(snapshot.Bookings), func(i int) ([]any, error) {
				b := snapshot.Bookings[i]
				return []any{
					b.ID, i, b.ResourceID, b.Vehicle, b.Date, b.SlotStart,
					b.Customer.Name, b.Customer.Phone, b.Customer.Email,
					string(b.Status), b.DurationMinutes, b.CreatedAt, b.CancelledAt, b.RescheduledAt,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy bookings: %w", err)
		}
	}

	settingsQuery := `
		INSERT INTO scheduler_settings (id, business_start, business_end, slot_granularity_minutes,
		                                booking_duration_minutes, max_daily_bookings)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			business_start = EXCLUDED.business_start,
			business_end = EXCLUDED.business_end,
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			booking_duration_minutes = EXCLUDED.booking_duration_minutes,
			max_daily_bookings = EXCLUDED.max_daily_bookings
	`
	s := snapshot.Settings
	_, err = tx.Exec(ctx, settingsQuery,
		s.BusinessHours.Start,
		s.BusinessHours.End,
		s.BusinessHours.SlotGranularityMinutes,
		s.BookingDurationMinutes,
		s.MaxDailyBookings,
	)
	if err != nil {
		return fmt.Errorf("save scheduler settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

package model

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено, хранится для истории
)

// Customer контактные данные клиента
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type Booking struct {
	ID              string        `json:"booking_id"`
	ResourceID      string        `json:"resource_id"`
	Vehicle         string        `json:"vehicle,omitempty"` // отображаемое имя на момент брони
	Date            string        `json:"date"`              // YYYY-MM-DD
	SlotStart       string        `json:"time"`              // HH:MM
	Customer        Customer      `json:"customer"`
	Status          BookingStatus `json:"status"`
	DurationMinutes int           `json:"duration_minutes"`
	CreatedAt       time.Time     `json:"created_at"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	RescheduledAt   *time.Time    `json:"rescheduled_at,omitempty"`
}

// IsConfirmed учитывается ли бронь в конфликтах и доступности
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// Clone возвращает копию без общих указателей
func (b *Booking) Clone() Booking {
	c := *b
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		c.CancelledAt = &t
	}
	if b.RescheduledAt != nil {
		t := *b.RescheduledAt
		c.RescheduledAt = &t
	}
	return c
}

package model

const (
	DefaultBusinessStart          = "09:00"
	DefaultBusinessEnd            = "18:00"
	DefaultSlotGranularityMinutes = 30
	DefaultMaxDailyBookings       = 20
)

// BusinessHours рабочее окно автосалона, только чтение после старта
type BusinessHours struct {
	Start                  string `json:"start"`
	End                    string `json:"end"`
	SlotGranularityMinutes int    `json:"slot_granularity_minutes"`
}

type Settings struct {
	BusinessHours          BusinessHours `json:"business_hours"`
	BookingDurationMinutes int           `json:"booking_duration_minutes"`
	MaxDailyBookings       int           `json:"max_daily_bookings"` // только хранится, при бронировании не проверяется
}

// Snapshot полное сохраняемое состояние планировщика
type Snapshot struct {
	Bookings []Booking `json:"bookings"`
	Settings Settings  `json:"settings"`
}

// DefaultSettings настройки для пустого хранилища
func DefaultSettings() Settings {
	return Settings{
		BusinessHours: BusinessHours{
			Start:                  DefaultBusinessStart,
			End:                    DefaultBusinessEnd,
			SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		},
		BookingDurationMinutes: DefaultSlotGranularityMinutes,
		MaxDailyBookings:       DefaultMaxDailyBookings,
	}
}

// WithDefaults дополняет незаполненные поля значениями по умолчанию
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.BusinessHours.Start == "" {
		s.BusinessHours.Start = d.BusinessHours.Start
	}
	if s.BusinessHours.End == "" {
		s.BusinessHours.End = d.BusinessHours.End
	}
	if s.BusinessHours.SlotGranularityMinutes <= 0 {
		s.BusinessHours.SlotGranularityMinutes = d.BusinessHours.SlotGranularityMinutes
	}
	if s.BookingDurationMinutes <= 0 {
		s.BookingDurationMinutes = s.BusinessHours.SlotGranularityMinutes
	}
	if s.MaxDailyBookings < 0 {
		s.MaxDailyBookings = 0
	}
	return s
}

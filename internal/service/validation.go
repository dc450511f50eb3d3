package service

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate разбирает дату строго в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("date %q is not in %s format", s, DateLayout)
	}
	return t, nil
}

// ParseClock разбирает время HH:MM (24 часа) в минуты от полуночи
func ParseClock(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, err
	}
	if t.Format(TimeLayout) != s {
		return 0, fmt.Errorf("time %q is not in HH:MM format", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock форматирует минуты от полуночи в HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// window разобранные рабочие часы
type window struct {
	start, end, step int
	hours            model.BusinessHours
}

func parseWindow(hours model.BusinessHours) (window, error) {
	start, err := ParseClock(hours.Start)
	if err != nil {
		return window{}, fmt.Errorf("business hours start: %w", err)
	}
	end, err := ParseClock(hours.End)
	if err != nil {
		return window{}, fmt.Errorf("business hours end: %w", err)
	}
	if end <= start {
		return window{}, fmt.Errorf("business hours: end %s must be after start %s", hours.End, hours.Start)
	}
	if hours.SlotGranularityMinutes <= 0 {
		return window{}, fmt.Errorf("business hours: slot granularity must be positive")
	}
	return window{start: start, end: end, step: hours.SlotGranularityMinutes, hours: hours}, nil
}

// grid все слоты в [start, end) по возрастанию
func (w window) grid() []string {
	slots := make([]string, 0, (w.end-w.start)/w.step)
	for m := w.start; m < w.end; m += w.step {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// validate проверяет дату и время относительно today
func (w window) validate(today time.Time, date, clock string) error {
	day, err := ParseDate(date)
	if err != nil {
		return newValidationError(ErrMalformedInput, fmt.Sprintf("Invalid date format %q, expected YYYY-MM-DD.", date))
	}
	minutes, err := ParseClock(clock)
	if err != nil {
		return newValidationError(ErrMalformedInput, fmt.Sprintf("Invalid time format %q, expected HH:MM.", clock))
	}

	y, m, d := today.Date()
	if day.Before(time.Date(y, m, d, 0, 0, 0, 0, time.Local)) {
		return newValidationError(ErrPastDate, "Cannot book test drives for past dates.")
	}

	// Конец окна включительно
	if minutes < w.start || minutes > w.end {
		return newValidationError(ErrOutOfHours,
			fmt.Sprintf("Bookings are only available between %s and %s.", w.hours.Start, w.hours.End))
	}

	if (minutes-w.start)%w.step != 0 {
		return newValidationError(ErrMalformedInput,
			fmt.Sprintf("Test drives start every %d minutes, e.g. %s or %s.",
				w.step, FormatClock(w.start), FormatClock(w.start+w.step)))
	}

	return nil
}

package service

import "errors"

// Ошибки валидации окна бронирования
var (
	ErrPastDate       = errors.New("past date")
	ErrOutOfHours     = errors.New("outside business hours")
	ErrMalformedInput = errors.New("malformed input")
)

// Ошибки операций планировщика
var (
	ErrInvalidTime      = errors.New("invalid booking time")
	ErrSlotTaken        = errors.New("slot already booked")
	ErrNotFound         = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrPersist          = errors.New("persist bookings")
)

// ValidationError ошибка валидации с текстом для клиента.
// Kind - одна из ErrPastDate, ErrOutOfHours, ErrMalformedInput.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func newValidationError(kind error, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

// Reason возвращает пользовательское сообщение для ошибки планировщика
func Reason(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrSlotTaken):
		return "This time slot is already booked. Please choose a different time."
	case errors.Is(err, ErrNotFound):
		return "Booking not found."
	case errors.Is(err, ErrAlreadyCancelled):
		return "Booking is already cancelled."
	case errors.Is(err, ErrPersist):
		return "We could not record the booking right now. Please try again in a moment."
	default:
		return "Something went wrong with the booking."
	}
}

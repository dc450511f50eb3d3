package dialogue

import (
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

// State этап диалога, вычисляется из полей сессии
type State string

const (
	StateIdle                 State = "idle"
	StateCollectingVehicle    State = "collecting_vehicle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateCollectingDateTime   State = "collecting_date_time"
)

// Slots собранные из реплик данные
type Slots struct {
	VehicleType      string
	SelectedResource string
	SelectedName     string
	Date             string
	Time             string
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
}

// Session состояние одного разговора.
// Обрабатывается строго последовательно, одна реплика за раз.
type Session struct {
	ID                   string
	PendingIntent        model.IntentKind
	Slots                Slots
	Candidates           []string // ID предложенных автомобилей, не больше MaxCandidates
	AwaitingConfirmation bool
	UpdatedAt            time.Time

	// Contact известные каналу данные клиента, переживают Reset
	Contact model.Customer
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// State текущий этап диалога
func (s *Session) State() State {
	switch {
	case s.AwaitingConfirmation:
		return StateAwaitingConfirmation
	case s.Slots.SelectedResource != "":
		return StateCollectingDateTime
	case s.PendingIntent == model.IntentTestDriveBooking:
		return StateCollectingVehicle
	default:
		return StateIdle
	}
}

// Reset возвращает сессию в Idle, контакт канала сохраняется
func (s *Session) Reset() {
	s.PendingIntent = ""
	s.Slots = Slots{}
	s.Candidates = nil
	s.AwaitingConfirmation = false
}

// phone телефон для брони: из диалога или от канала
func (s *Session) phone() string {
	if s.Slots.CustomerPhone != "" {
		return s.Slots.CustomerPhone
	}
	return s.Contact.Phone
}

func (s *Session) customer() model.Customer {
	c := model.Customer{
		Name:  s.Slots.CustomerName,
		Phone: s.phone(),
		Email: s.Slots.CustomerEmail,
	}
	if c.Name == "" {
		c.Name = s.Contact.Name
	}
	if c.Name == "" {
		c.Name = "Customer"
	}
	if c.Email == "" {
		c.Email = s.Contact.Email
	}
	return c
}

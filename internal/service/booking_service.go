package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store хранилище полного снимка бронирований.
// Load возвращает nil, nil если хранилище ещё не создано.
type Store interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snapshot *model.Snapshot) error
}

// BookingRequest параметры новой брони
type BookingRequest struct {
	ResourceID string
	Vehicle    string // отображаемое имя, необязательно
	Date       string
	Time       string
	Customer   model.Customer
}

type slotKey struct {
	resourceID string
	date       string
	slot       string
}

// BookingService единственный владелец и писатель коллекции бронирований
type BookingService struct {
	mu       sync.RWMutex
	store    Store
	settings model.Settings
	window   window

	bookings []*model.Booking             // в порядке создания
	byID     map[string]*model.Booking
	active   map[slotKey]*model.Booking // только confirmed

	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

type Option func(*BookingService)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(newID func() string) Option {
	return func(s *BookingService) { s.newID = newID }
}

// WithDefaultSettings настройки для ещё не созданного хранилища
func WithDefaultSettings(settings model.Settings) Option {
	return func(s *BookingService) { s.settings = settings }
}

// NewBookingService загружает снимок из store и строит индексы
func NewBookingService(ctx context.Context, store Store, logger *zap.Logger, opts ...Option) (*BookingService, error) {
	s := &BookingService{
		store:    store,
		settings: model.DefaultSettings(),
		byID:     make(map[string]*model.Booking),
		active:   make(map[slotKey]*model.Booking),
		now:      time.Now,
		newID:    newBookingID,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	created := snapshot == nil
	if created {
		snapshot = &model.Snapshot{Settings: s.settings}
	}

	s.settings = snapshot.Settings.WithDefaults()
	s.window, err = parseWindow(s.settings.BusinessHours)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	for i := range snapshot.Bookings {
		b := snapshot.Bookings[i].Clone()
		if _, exists := s.byID[b.ID]; exists {
			return nil, fmt.Errorf("load bookings: duplicate booking id %s", b.ID)
		}
		if b.IsConfirmed() {
			key := keyOf(&b)
			if other, taken := s.active[key]; taken {
				return nil, fmt.Errorf("load bookings: bookings %s and %s share slot %s %s %s",
					other.ID, b.ID, b.ResourceID, b.Date, b.SlotStart)
			}
		}
		s.appendLocked(&b)
	}

	// Пустое хранилище сразу инициализируем значениями по умолчанию
	if created {
		if err := s.persistLocked(ctx); err != nil {
			return nil, fmt.Errorf("init bookings store: %w", err)
		}
	}

	s.logger.Info("Booking service initialized",
		zap.Int("bookings", len(s.bookings)),
		zap.String("hours_start", s.settings.BusinessHours.Start),
		zap.String("hours_end", s.settings.BusinessHours.End),
	)

	return s, nil
}

func newBookingID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func keyOf(b *model.Booking) slotKey {
	return slotKey{resourceID: b.ResourceID, date: b.Date, slot: b.SlotStart}
}

// Settings возвращает текущие настройки
func (s *BookingService) Settings() model.Settings {
	return s.settings
}

// ValidateTimeWindow проверяет дату и время относительно текущей даты и рабочих часов
func (s *BookingService) ValidateTimeWindow(date, clock string) error {
	return s.window.validate(s.now(), date, clock)
}

// HasConflict есть ли подтверждённая бронь на этот автомобиль и слот
func (s *BookingService) HasConflict(date, clock, resourceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.active[slotKey{resourceID: resourceID, date: date, slot: clock}]
	return taken
}

// CreateBooking создаёт подтверждённую бронь.
// Проверка конфликта, добавление и запись в хранилище выполняются под одной блокировкой.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (model.Booking, error) {
	if strings.TrimSpace(req.ResourceID) == "" {
		return model.Booking{}, newValidationError(ErrMalformedInput, "Please choose a vehicle before booking.")
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		return model.Booking{}, newValidationError(ErrMalformedInput, "A contact phone number is required to book a test drive.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.window.validate(s.now(), req.Date, req.Time); err != nil {
		return model.Booking{}, fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}

	key := slotKey{resourceID: req.ResourceID, date: req.Date, slot: req.Time}
	if _, taken := s.active[key]; taken {
		return model.Booking{}, ErrSlotTaken
	}

	booking := &model.Booking{
		ID:              s.nextIDLocked(),
		ResourceID:      req.ResourceID,
		Vehicle:         req.Vehicle,
		Date:            req.Date,
		SlotStart:       req.Time,
		Customer:        req.Customer,
		Status:          model.BookingStatusConfirmed,
		DurationMinutes: s.settings.BookingDurationMinutes,
		CreatedAt:       s.now(),
	}
	s.appendLocked(booking)

	if err := s.persistLocked(ctx); err != nil {
		s.dropLastLocked(booking)
		s.logger.Error("Failed to persist new booking",
			zap.String("resource_id", req.ResourceID),
			zap.String("date", req.Date),
			zap.String("time", req.Time),
			zap.Error(err),
		)
		return model.Booking{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("resource_id", booking.ResourceID),
		zap.String("date", booking.Date),
		zap.String("time", booking.SlotStart),
		zap.String("customer", booking.Customer.Name),
	)

	return booking.Clone(), nil
}

// CancelBooking отменяет бронь. Повторная отмена - ошибка ErrAlreadyCancelled.
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if booking.Status == model.BookingStatusCancelled {
		return ErrAlreadyCancelled
	}

	prevCancelledAt := booking.CancelledAt
	now := s.now()
	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &now
	delete(s.active, keyOf(booking))

	if err := s.persistLocked(ctx); err != nil {
		booking.Status = model.BookingStatusConfirmed
		booking.CancelledAt = prevCancelledAt
		s.active[keyOf(booking)] = booking
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.logger.Info("Booking cancelled", zap.String("booking_id", id))
	return nil
}

// RescheduleBooking переносит бронь на новый слот, старый слот в конфликте не учитывается
func (s *BookingService) RescheduleBooking(ctx context.Context, id, newDate, newTime string) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.byID[id]
	if !ok {
		return model.Booking{}, ErrNotFound
	}
	if booking.Status == model.BookingStatusCancelled {
		return model.Booking{}, ErrAlreadyCancelled
	}

	if err := s.window.validate(s.now(), newDate, newTime); err != nil {
		return model.Booking{}, fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}

	newKey := slotKey{resourceID: booking.ResourceID, date: newDate, slot: newTime}
	if holder, taken := s.active[newKey]; taken && holder != booking {
		return model.Booking{}, ErrSlotTaken
	}

	prev := booking.Clone()
	now := s.now()
	delete(s.active, keyOf(booking))
	booking.Date = newDate
	booking.SlotStart = newTime
	booking.RescheduledAt = &now
	s.active[newKey] = booking

	if err := s.persistLocked(ctx); err != nil {
		delete(s.active, newKey)
		*booking = prev
		s.active[keyOf(booking)] = booking
		return model.Booking{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.logger.Info("Booking rescheduled",
		zap.String("booking_id", id),
		zap.String("date", newDate),
		zap.String("time", newTime),
	)

	return booking.Clone(), nil
}

// AvailableSlots свободные слоты на дату по возрастанию.
// Если resourceID пустой, слот занят любой бронью на эту дату.
func (s *BookingService) AvailableSlots(date, resourceID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocked := make(map[string]struct{})
	for key := range s.active {
		if key.date != date {
			continue
		}
		if resourceID == "" || key.resourceID == resourceID {
			blocked[key.slot] = struct{}{}
		}
	}

	grid := s.window.grid()
	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if _, ok := blocked[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

// BookingsByDate подтверждённые брони на дату
func (s *BookingService) BookingsByDate(date string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.Date == date && b.IsConfirmed() {
			result = append(result, b.Clone())
		}
	}
	return result
}

// BookingsByCustomer все брони клиента, включая отменённые
func (s *BookingService) BookingsByCustomer(phone string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.Customer.Phone == phone {
			result = append(result, b.Clone())
		}
	}
	return result
}

// Booking получает бронь по ID
func (s *BookingService) Booking(id string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return model.Booking{}, ErrNotFound
	}
	return b.Clone(), nil
}

func (s *BookingService) appendLocked(b *model.Booking) {
	s.bookings = append(s.bookings, b)
	s.byID[b.ID] = b
	if b.IsConfirmed() {
		s.active[keyOf(b)] = b
	}
}

func (s *BookingService) dropLastLocked(b *model.Booking) {
	s.bookings = s.bookings[:len(s.bookings)-1]
	delete(s.byID, b.ID)
	delete(s.active, keyOf(b))
}

func (s *BookingService) nextIDLocked() string {
	for {
		id := s.newID()
		if _, exists := s.byID[id]; !exists {
			return id
		}
	}
}

// persistLocked переписывает хранилище целиком, вызывается под s.mu
func (s *BookingService) persistLocked(ctx context.Context) error {
	snapshot := &model.Snapshot{
		Bookings: make([]model.Booking, 0, len(s.bookings)),
		Settings: s.settings,
	}
	for _, b := range s.bookings {
		snapshot.Bookings = append(snapshot.Bookings, b.Clone())
	}
	return s.store.Save(ctx, snapshot)
}

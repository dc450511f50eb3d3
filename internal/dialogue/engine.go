// Package dialogue ведёт разговор о бронировании тест-драйва:
// собирает данные из реплик, предлагает автомобили и подтверждает бронь.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/intent"
	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"go.uber.org/zap"
)

// MaxCandidates сколько автомобилей предлагается за раз
const MaxCandidates = 3

// Catalog каталог автомобилей, только чтение
type Catalog interface {
	Search(filter model.VehicleFilter) []model.Vehicle
	ByID(id string) (model.Vehicle, bool)
	ByModel(name string) (model.Vehicle, bool)
	Types() []string
	Featured(count int) []model.Vehicle
}

// Scheduler операции планировщика, доступные диалогу
type Scheduler interface {
	CreateBooking(ctx context.Context, req service.BookingRequest) (model.Booking, error)
	AvailableSlots(date, resourceID string) []string
}

type Engine struct {
	catalog    Catalog
	scheduler  Scheduler
	classifier intent.Classifier
	fallback   intent.Fallback
	policy     SelectionPolicy
	now        func() time.Time
	logger     *zap.Logger
}

type Option func(*Engine)

// WithPolicy политика выбора автомобиля при простом согласии
func WithPolicy(policy SelectionPolicy) Option {
	return func(e *Engine) { e.policy = policy }
}

// WithClock источник текущего времени для today/tomorrow
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(catalog Catalog, scheduler Scheduler, classifier intent.Classifier, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:    catalog,
		scheduler:  scheduler,
		classifier: classifier,
		fallback:   intent.NewKeyword(),
		policy:     FirstMatch,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Greeting первая реплика ассистента
func (e *Engine) Greeting() string {
	return replyGreeting
}

// Handle обрабатывает одну реплику клиента и возвращает ответ.
// Ошибка возвращается только если бронь не удалось надёжно сохранить,
// ответ при этом всё равно пригоден для отправки.
func (e *Engine) Handle(ctx context.Context, sess *Session, utterance string) (string, error) {
	in := e.classify(ctx, utterance)
	sess.UpdatedAt = e.now()

	e.logger.Debug("Intent classified",
		zap.String("session_id", sess.ID),
		zap.String("intent", string(in.Kind)),
		zap.String("vehicle_type", in.VehicleType),
		zap.String("date", in.Date),
		zap.String("time", in.Time),
		zap.String("state", string(sess.State())),
	)

	var (
		reply string
		err   error
	)
	switch in.Kind {
	case model.IntentCancellation:
		sess.Reset()
		reply = replyCancelled
	case model.IntentTestDriveBooking:
		reply, err = e.handleBooking(ctx, sess, in)
	case model.IntentConfirmation:
		reply, err = e.handleConfirmation(ctx, sess, in, utterance)
	case model.IntentInformationRequest:
		reply = e.handleInformation(in)
	default:
		reply, err = e.handleGeneral(ctx, sess, in, utterance)
	}

	e.logger.Info("Turn handled",
		zap.String("session_id", sess.ID),
		zap.String("intent", string(in.Kind)),
		zap.String("state", string(sess.State())),
	)

	return reply, err
}

// classify никогда не падает: ошибка классификатора уходит в резервный
func (e *Engine) classify(ctx context.Context, utterance string) model.Intent {
	var in model.Intent
	var err error
	if e.classifier != nil {
		in, err = e.classifier.Classify(ctx, utterance)
	}
	if e.classifier == nil || err != nil || !in.Kind.Valid() {
		if err != nil {
			e.logger.Warn("Classifier error, using keyword fallback", zap.Error(err))
		}
		in = e.fallback.Classify(utterance)
	}

	now := e.now()
	in.Date = NormalizeDate(in.Date, now)
	in.Time = NormalizeTime(in.Time)
	return in
}

func (e *Engine) handleBooking(ctx context.Context, sess *Session, in model.Intent) (string, error) {
	sess.PendingIntent = model.IntentTestDriveBooking
	mergeSlots(sess, in)

	// Другой тип кузова начинает выбор заново
	if in.VehicleType != "" && !strings.EqualFold(in.VehicleType, sess.Slots.VehicleType) {
		sess.Slots.VehicleType = in.VehicleType
		clearSelection(sess)
	}

	if sess.Slots.SelectedResource != "" {
		return e.tryCommit(ctx, sess)
	}

	if sess.Slots.VehicleType == "" {
		return fmt.Sprintf(replyAskVehicleType, e.typesList()), nil
	}

	return e.presentOptions(sess), nil
}

func (e *Engine) presentOptions(sess *Session) string {
	vehicleType := sess.Slots.VehicleType
	vehicles := e.catalog.Search(model.VehicleFilter{Type: vehicleType})

	if len(vehicles) == 0 {
		sess.Slots.VehicleType = ""
		clearSelection(sess)
		return fmt.Sprintf(replyNoVehicles, pluralType(vehicleType), e.typesList())
	}

	if len(vehicles) > MaxCandidates {
		vehicles = vehicles[:MaxCandidates]
	}

	sess.Candidates = sess.Candidates[:0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "Great! We have several %s available:\n\n", pluralType(vehicleType))
	for i, v := range vehicles {
		sess.Candidates = append(sess.Candidates, v.ID)
		sb.WriteString(FormatVehicleOption(i+1, v))
		sb.WriteString("\n")
	}
	sb.WriteString("Which model would you like to test drive?")

	sess.AwaitingConfirmation = true
	return sb.String()
}

func (e *Engine) handleConfirmation(ctx context.Context, sess *Session, in model.Intent, utterance string) (string, error) {
	// Подтверждать нечего: сессию не трогаем
	if !sess.AwaitingConfirmation {
		return replyNothingToConfirm, nil
	}

	mergeSlots(sess, in)

	candidates := e.candidates(sess)
	chosen, ok := pickExplicit(utterance, candidates)
	if !ok {
		chosen, ok = e.policy(candidates)
	}
	if !ok {
		// Предложенные автомобили больше недоступны
		sess.Slots.VehicleType = ""
		clearSelection(sess)
		return fmt.Sprintf(replyAskVehicleType, e.typesList()), nil
	}

	return e.selectVehicle(ctx, sess, chosen)
}

func (e *Engine) selectVehicle(ctx context.Context, sess *Session, chosen model.Vehicle) (string, error) {
	sess.Slots.SelectedResource = chosen.ID
	sess.Slots.SelectedName = chosen.DisplayName()
	sess.AwaitingConfirmation = false
	sess.Candidates = nil

	e.logger.Info("Vehicle selected",
		zap.String("session_id", sess.ID),
		zap.String("vehicle_id", chosen.ID),
	)

	if sess.Slots.Date == "" || sess.Slots.Time == "" {
		return fmt.Sprintf(replyAskDateTime, chosen.DisplayName()) + e.freeTimesHint(sess), nil
	}
	return e.tryCommit(ctx, sess)
}

// tryCommit создаёт бронь, если собраны дата, время и телефон
func (e *Engine) tryCommit(ctx context.Context, sess *Session) (string, error) {
	if sess.Slots.Date == "" || sess.Slots.Time == "" {
		return fmt.Sprintf(replyAskDateTime, sess.Slots.SelectedName) + e.freeTimesHint(sess), nil
	}
	if sess.phone() == "" {
		return replyAskPhone, nil
	}

	req := service.BookingRequest{
		ResourceID: sess.Slots.SelectedResource,
		Vehicle:    sess.Slots.SelectedName,
		Date:       sess.Slots.Date,
		Time:       sess.Slots.Time,
		Customer:   sess.customer(),
	}

	booking, err := e.scheduler.CreateBooking(ctx, req)
	if err == nil {
		sess.Reset()
		return fmt.Sprintf(replyConfirmed, req.Vehicle, FormatDate(booking.Date), booking.SlotStart, booking.ID), nil
	}

	if errors.Is(err, service.ErrPersist) {
		e.logger.Error("Booking could not be persisted",
			zap.String("session_id", sess.ID),
			zap.String("vehicle_id", req.ResourceID),
			zap.Error(err),
		)
		return replyPersistFailed, fmt.Errorf("create booking: %w", err)
	}

	e.logger.Info("Booking rejected",
		zap.String("session_id", sess.ID),
		zap.String("vehicle_id", req.ResourceID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("reason", err.Error()),
	)

	sess.Slots.Date = ""
	sess.Slots.Time = ""

	reply := fmt.Sprintf(replyBookingFailed, service.Reason(err))
	// Для занятого слота и времени вне часов работы подсказываем свободное время
	if errors.Is(err, service.ErrSlotTaken) || errors.Is(err, service.ErrOutOfHours) {
		if free := e.scheduler.AvailableSlots(req.Date, req.ResourceID); len(free) > 0 {
			reply += fmt.Sprintf(" Free times on %s: %s.", FormatDate(req.Date), FormatSlots(free, 6))
		}
	}
	return reply + " Would you like to try a different time?", nil
}

func (e *Engine) handleInformation(in model.Intent) string {
	if in.Model != "" {
		if v, ok := e.catalog.ByModel(in.Model); ok {
			return FormatVehicleDetails(v)
		}
	}

	if in.VehicleType != "" {
		vehicles := e.catalog.Search(model.VehicleFilter{Type: in.VehicleType})
		if len(vehicles) > 0 {
			return fmt.Sprintf("Here are our %s:\n%s", pluralType(in.VehicleType), FormatVehicleList(vehicles))
		}
	}

	return fmt.Sprintf(replyInformation, e.typesList()) + e.featuredHint()
}

func (e *Engine) handleGeneral(ctx context.Context, sess *Session, in model.Intent, utterance string) (string, error) {
	switch sess.State() {
	case StateAwaitingConfirmation:
		if chosen, ok := pickExplicit(utterance, e.candidates(sess)); ok {
			mergeSlots(sess, in)
			return e.selectVehicle(ctx, sess, chosen)
		}
		if in.VehicleType != "" {
			return e.handleBooking(ctx, sess, in)
		}
	case StateCollectingDateTime:
		mergeSlots(sess, in)
		return e.tryCommit(ctx, sess)
	case StateCollectingVehicle:
		if in.VehicleType != "" {
			return e.handleBooking(ctx, sess, in)
		}
	case StateIdle:
		return replyGeneral + e.featuredHint(), nil
	}
	return replyGeneral, nil
}

func (e *Engine) candidates(sess *Session) []model.Vehicle {
	vehicles := make([]model.Vehicle, 0, len(sess.Candidates))
	for _, id := range sess.Candidates {
		if v, ok := e.catalog.ByID(id); ok && v.Available {
			vehicles = append(vehicles, v)
		}
	}
	return vehicles
}

// freeTimesHint подсказка со свободным временем, если дата уже известна
func (e *Engine) freeTimesHint(sess *Session) string {
	if sess.Slots.Date == "" || sess.Slots.SelectedResource == "" {
		return ""
	}
	if _, err := service.ParseDate(sess.Slots.Date); err != nil {
		return ""
	}
	free := e.scheduler.AvailableSlots(sess.Slots.Date, sess.Slots.SelectedResource)
	if len(free) == 0 {
		return fmt.Sprintf(" There are no free times left on %s.", FormatDate(sess.Slots.Date))
	}
	return fmt.Sprintf(" Free times on %s: %s.", FormatDate(sess.Slots.Date), FormatSlots(free, 6))
}

// featuredHint самые дорогие доступные модели для открытых вопросов
func (e *Engine) featuredHint() string {
	featured := e.catalog.Featured(MaxCandidates)
	if len(featured) == 0 {
		return ""
	}
	return "\n\nPopular right now:\n" + FormatVehicleList(featured)
}

func (e *Engine) typesList() string {
	types := e.catalog.Types()
	if len(types) == 0 {
		return "several vehicle types"
	}
	plural := make([]string, 0, len(types))
	for _, t := range types {
		plural = append(plural, pluralType(t))
	}
	return strings.Join(plural, ", ")
}

func mergeSlots(sess *Session, in model.Intent) {
	if in.Date != "" {
		sess.Slots.Date = in.Date
	}
	if in.Time != "" {
		sess.Slots.Time = in.Time
	}
	if in.CustomerName != "" {
		sess.Slots.CustomerName = in.CustomerName
	}
	if in.CustomerPhone != "" {
		sess.Slots.CustomerPhone = in.CustomerPhone
	}
}

func clearSelection(sess *Session) {
	sess.Slots.SelectedResource = ""
	sess.Slots.SelectedName = ""
	sess.Candidates = nil
	sess.AwaitingConfirmation = false
}

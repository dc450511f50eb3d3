package dialogue

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/intent"
	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/Freeeeeet/testdrive_bot/internal/repository"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var engineNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

const tomorrow = "2025-06-03"

// flakyStore хранилище в памяти, запись которого можно сломать
type flakyStore struct {
	mu       sync.Mutex
	snapshot *model.Snapshot
	fail     bool
}

func (s *flakyStore) Load(ctx context.Context) (*model.Snapshot, error) {
	return nil, nil
}

func (s *flakyStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("storage unavailable")
	}
	s.snapshot = snapshot
	return nil
}

func (s *flakyStore) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// stubClassifier возвращает заранее заданное намерение или ошибку
type stubClassifier struct {
	result model.Intent
	err    error
}

func (s stubClassifier) Classify(ctx context.Context, utterance string) (model.Intent, error) {
	return s.result, s.err
}

type fixture struct {
	engine   *Engine
	bookings *service.BookingService
	store    *flakyStore
}

func newFixture(t *testing.T, classifier intent.Classifier, opts ...Option) *fixture {
	t.Helper()
	logger := zap.NewNop()

	store := &flakyStore{}
	bookings, err := service.NewBookingService(context.Background(), store, logger,
		service.WithClock(func() time.Time { return engineNow }),
	)
	require.NoError(t, err)

	catalog, err := service.NewCatalogService(
		repository.NewVehicleRepository(filepath.Join(t.TempDir(), "vehicles.json")), logger)
	require.NoError(t, err)

	if classifier == nil {
		classifier = intent.WithFallback(nil, logger)
	}

	opts = append([]Option{WithClock(func() time.Time { return engineNow })}, opts...)
	return &fixture{
		engine:   NewEngine(catalog, bookings, classifier, logger, opts...),
		bookings: bookings,
		store:    store,
	}
}

func newContactSession() *Session {
	sess := NewSession("test")
	sess.Contact = model.Customer{Name: "Alice", Phone: "555-0100"}
	return sess
}

// say один ход диалога без ошибки
func (f *fixture) say(t *testing.T, sess *Session, utterance string) string {
	t.Helper()
	reply, err := f.engine.Handle(context.Background(), sess, utterance)
	require.NoError(t, err)
	return reply
}

func TestEngineStepByStepBooking(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	reply := f.say(t, sess, "I'd like to book a test drive for an SUV")
	assert.Contains(t, reply, "Toyota RAV4")
	assert.Contains(t, reply, "Honda CR-V")
	assert.Contains(t, reply, "Ford Explorer")
	assert.Equal(t, StateAwaitingConfirmation, sess.State())
	assert.Equal(t, []string{"v001", "v002", "v003"}, sess.Candidates)

	reply = f.say(t, sess, "yes")
	assert.Contains(t, reply, "When would you like to test drive the Toyota RAV4?")
	assert.Equal(t, StateCollectingDateTime, sess.State())
	assert.Equal(t, "v001", sess.Slots.SelectedResource)

	reply = f.say(t, sess, "tomorrow at 2pm")
	assert.Contains(t, reply, "Booking ID:")
	assert.Contains(t, reply, "Toyota RAV4")
	assert.Contains(t, reply, "14:00")
	assert.Equal(t, StateIdle, sess.State())
	assert.Equal(t, "555-0100", sess.Contact.Phone, "contact survives reset")

	booked := f.bookings.BookingsByDate(tomorrow)
	require.Len(t, booked, 1)
	assert.Equal(t, "v001", booked[0].ResourceID)
	assert.Equal(t, "14:00", booked[0].SlotStart)
	assert.Equal(t, "Alice", booked[0].Customer.Name)
	assert.Contains(t, reply, booked[0].ID)
}

func TestEngineOneShotBooking(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv tomorrow at 2pm")
	assert.Equal(t, StateAwaitingConfirmation, sess.State())
	assert.Equal(t, tomorrow, sess.Slots.Date)
	assert.Equal(t, "14:00", sess.Slots.Time)

	reply := f.say(t, sess, "yes")
	assert.Contains(t, reply, "Booking ID:")
	assert.Equal(t, StateIdle, sess.State())
	assert.True(t, f.bookings.HasConflict(tomorrow, "14:00", "v001"))
}

func TestEngineOneDigitHour(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv tomorrow at 9:30")
	assert.Equal(t, "09:30", sess.Slots.Time)

	reply := f.say(t, sess, "yes")
	assert.Contains(t, reply, "Booking ID:")
	assert.True(t, f.bookings.HasConflict(tomorrow, "09:30", "v001"))
}

func TestEngineExplicitChoiceOverridesPolicy(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv tomorrow at 2pm")
	reply := f.say(t, sess, "yes, the second one")
	assert.Contains(t, reply, "Honda CR-V")
	assert.True(t, f.bookings.HasConflict(tomorrow, "14:00", "v002"))
}

func TestEngineChoiceByModelName(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv")
	reply := f.say(t, sess, "the explorer please")
	assert.Contains(t, reply, "Ford Explorer")
	assert.Equal(t, "v003", sess.Slots.SelectedResource)
	assert.Equal(t, StateCollectingDateTime, sess.State())
}

func TestEngineHighestPricePolicy(t *testing.T) {
	f := newFixture(t, nil, WithPolicy(HighestPrice))
	sess := newContactSession()

	f.say(t, sess, "book a suv")
	f.say(t, sess, "sure")
	assert.Equal(t, "v003", sess.Slots.SelectedResource)
}

func TestEngineSlotTaken(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.bookings.CreateBooking(context.Background(), service.BookingRequest{
		ResourceID: "v001", Date: tomorrow, Time: "14:00",
		Customer: model.Customer{Name: "Bob", Phone: "555-0199"},
	})
	require.NoError(t, err)

	sess := newContactSession()
	f.say(t, sess, "book a suv tomorrow at 2pm")
	reply := f.say(t, sess, "yes")

	assert.Contains(t, reply, "This time slot is already booked. Please choose a different time.")
	assert.Contains(t, reply, "Free times on")
	assert.Contains(t, reply, "Would you like to try a different time?")
	assert.Equal(t, StateCollectingDateTime, sess.State())
	assert.Empty(t, sess.Slots.Date)
	assert.Empty(t, sess.Slots.Time)
	assert.Equal(t, "v001", sess.Slots.SelectedResource)

	reply = f.say(t, sess, "tomorrow at 3pm")
	assert.Contains(t, reply, "Booking ID:")
	assert.True(t, f.bookings.HasConflict(tomorrow, "15:00", "v001"))
}

func TestEngineRejectsInvalidTimes(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{name: "past date", utterance: "2025-06-01 at 10:00", want: "Cannot book test drives for past dates."},
		{name: "before opening", utterance: "tomorrow at 8:30am", want: "Bookings are only available between 09:00 and 18:00."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			sess := newContactSession()

			f.say(t, sess, "book a sedan")
			f.say(t, sess, "the camry")
			require.Equal(t, "v005", sess.Slots.SelectedResource)

			reply := f.say(t, sess, tt.utterance)
			assert.Contains(t, reply, "I apologize, but there was an issue with the booking: "+tt.want)
			assert.Equal(t, StateCollectingDateTime, sess.State())
			assert.Empty(t, f.bookings.BookingsByCustomer("555-0100"))
		})
	}
}

func TestEngineNoVehiclesOfType(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	reply := f.say(t, sess, "book a coupe")
	assert.Contains(t, reply, "we don't have any COUPEs available")
	assert.Equal(t, StateCollectingVehicle, sess.State())
	assert.Empty(t, sess.Slots.VehicleType)

	reply = f.say(t, sess, "an suv then")
	assert.Contains(t, reply, "Toyota RAV4")
	assert.Equal(t, StateAwaitingConfirmation, sess.State())
}

func TestEngineBookingWithoutType(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	reply := f.say(t, sess, "I want to book a test drive")
	assert.Contains(t, reply, "What type of vehicle are you interested in?")
	assert.Contains(t, reply, "SUVs")
	assert.Equal(t, StateCollectingVehicle, sess.State())
}

func TestEngineChangingTypeRestartsSelection(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv")
	f.say(t, sess, "yes")
	require.Equal(t, "v001", sess.Slots.SelectedResource)

	reply := f.say(t, sess, "actually book a truck")
	assert.Contains(t, reply, "Ford F-150")
	assert.Empty(t, sess.Slots.SelectedResource)
	assert.Equal(t, StateAwaitingConfirmation, sess.State())
}

func TestEngineConfirmationWithNothingPending(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	reply := f.say(t, sess, "yes")
	assert.Equal(t, "I'm not sure what you're confirming. Could you please clarify?", reply)
	assert.Equal(t, StateIdle, sess.State())
}

func TestEngineConfirmationAfterSelectionChangesNothing(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv")
	f.say(t, sess, "yes")
	require.Equal(t, StateCollectingDateTime, sess.State())
	require.False(t, sess.AwaitingConfirmation)

	before := *sess
	reply := f.say(t, sess, "yes, tomorrow at 2pm")

	assert.Equal(t, "I'm not sure what you're confirming. Could you please clarify?", reply)
	assert.Equal(t, before, *sess)
	assert.Empty(t, f.bookings.BookingsByDate(tomorrow))

	// Та же информация без согласия заполняет слоты и бронирует
	reply = f.say(t, sess, "tomorrow at 2pm")
	assert.Contains(t, reply, "Booking ID:")
}

func TestEngineCancellationResets(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a truck tomorrow at 10am")
	reply := f.say(t, sess, "never mind")

	assert.Contains(t, reply, "No problem!")
	assert.Equal(t, StateIdle, sess.State())
	assert.Empty(t, sess.Slots)
	assert.Empty(t, sess.Candidates)
}

func TestEngineAsksForPhone(t *testing.T) {
	f := newFixture(t, nil)
	sess := NewSession("no-contact")

	f.say(t, sess, "book a sedan tomorrow at 11:30 am")
	reply := f.say(t, sess, "ok")
	assert.Contains(t, reply, "phone number")
	assert.Equal(t, StateCollectingDateTime, sess.State())

	reply = f.say(t, sess, "my name is Carol and my number is 555-123-4567")
	assert.Contains(t, reply, "Booking ID:")

	booked := f.bookings.BookingsByCustomer("555-123-4567")
	require.Len(t, booked, 1)
	assert.Equal(t, "Carol", booked[0].Customer.Name)
	assert.Equal(t, "11:30", booked[0].SlotStart)
}

func TestEngineInformationRequest(t *testing.T) {
	classifier := stubClassifier{result: model.Intent{Kind: model.IntentInformationRequest, Model: "Camry"}}
	f := newFixture(t, classifier)
	sess := newContactSession()

	reply := f.say(t, sess, "tell me about the camry")
	assert.Contains(t, reply, "Toyota Camry (2024)")
	assert.Contains(t, reply, "$27,000")
	assert.Equal(t, StateIdle, sess.State())
}

func TestEngineInformationByType(t *testing.T) {
	classifier := stubClassifier{result: model.Intent{Kind: model.IntentInformationRequest, VehicleType: "TRUCK"}}
	f := newFixture(t, classifier)

	reply := f.say(t, newContactSession(), "what trucks do you have")
	assert.Contains(t, reply, "Here are our TRUCKs")
	assert.Contains(t, reply, "Chevrolet Silverado")
}

func TestEngineOpenInformationRequestShowsFeatured(t *testing.T) {
	classifier := stubClassifier{result: model.Intent{Kind: model.IntentInformationRequest}}
	f := newFixture(t, classifier)

	reply := f.say(t, newContactSession(), "what do you sell")
	assert.Contains(t, reply, "TRUCKs")
	assert.Contains(t, reply, "Popular right now:\n- BMW 3 Series (2024), $45,000\n- Ford F-150 (2024), $42,000\n- Chevrolet Silverado (2024), $40,000")
}

func TestEngineFallsBackWhenClassifierFails(t *testing.T) {
	f := newFixture(t, stubClassifier{err: errors.New("timeout")})
	sess := newContactSession()

	reply := f.say(t, sess, "book a suv")
	assert.Contains(t, reply, "Toyota RAV4")
	assert.Equal(t, StateAwaitingConfirmation, sess.State())
}

func TestEnginePersistFailureKeepsSlots(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	f.say(t, sess, "book a suv tomorrow at 2pm")

	f.store.setFail(true)
	reply, err := f.engine.Handle(context.Background(), sess, "yes")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrPersist)
	assert.Contains(t, reply, "could not record your booking")
	assert.Equal(t, "v001", sess.Slots.SelectedResource)
	assert.Equal(t, tomorrow, sess.Slots.Date)
	assert.Equal(t, "14:00", sess.Slots.Time)
	assert.False(t, f.bookings.HasConflict(tomorrow, "14:00", "v001"))

	f.store.setFail(false)
	reply = f.say(t, sess, "try again")
	assert.Contains(t, reply, "Booking ID:")
	assert.True(t, f.bookings.HasConflict(tomorrow, "14:00", "v001"))
}

func TestEngineGeneralInquiry(t *testing.T) {
	f := newFixture(t, nil)
	sess := newContactSession()

	reply := f.say(t, sess, "hello there")
	assert.Contains(t, reply, "book a test drive")
	assert.Contains(t, reply, "BMW 3 Series")
	assert.Equal(t, StateIdle, sess.State())
	assert.NotEmpty(t, f.engine.Greeting())
}

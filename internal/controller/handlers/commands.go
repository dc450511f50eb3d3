package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands:\n\n" +
	"/start - Start the conversation\n" +
	"/slots [YYYY-MM-DD] - Free test-drive times for a day\n" +
	"/mybookings - Your test drives\n" +
	"/cancelbooking <ID> - Cancel a test drive\n" +
	"/reset - Start the conversation over\n" +
	"/help - Show this help\n\n" +
	"Or just write, for example: \"I'd like to test drive an SUV tomorrow at 2pm\""

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	_ = h.sessions.Do(sessionID(chatID), func(sess *dialogue.Session) error {
		sess.Reset()
		if update.Message.From != nil && sess.Contact.Name == "" {
			sess.Contact.Name = strings.TrimSpace(update.Message.From.FirstName + " " + update.Message.From.LastName)
		}
		return nil
	})

	h.logger.Info("Conversation started", zap.Int64("chat_id", chatID))

	welcomeText := fmt.Sprintf("👋 Welcome to %s!\n\n%s\n\n%s\n\n"+
		"Share your phone number so we can confirm your test drive.",
		h.businessName, h.engine.Greeting(), helpText)

	h.sendWithMarkup(ctx, b, chatID, welcomeText, contactKeyboard())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleReset обрабатывает команду /reset - сброс текущего диалога
func (h *Handlers) HandleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	var wasIdle bool
	_ = h.sessions.Do(sessionID(chatID), func(sess *dialogue.Session) error {
		wasIdle = sess.State() == dialogue.StateIdle
		sess.Reset()
		return nil
	})

	if wasIdle {
		h.sendMessage(ctx, b, chatID, "Nothing to reset. How can I help you?")
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Let's start over. What would you like to test drive?")
}

// HandleSlots обрабатывает команду /slots [YYYY-MM-DD]
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	date := commandArg(update.Message.Text)
	if date == "" {
		date = time.Now().Format(service.DateLayout)
	}

	if err := h.bookings.ValidateTimeWindow(date, h.bookings.Settings().BusinessHours.Start); err != nil &&
		(errors.Is(err, service.ErrPastDate) || errors.Is(err, service.ErrMalformedInput)) {
		h.sendError(ctx, b, chatID, "❌ "+service.Reason(err)+"\n\nUsage: /slots 2025-01-31")
		return
	}

	free := h.bookings.AvailableSlots(date, "")
	if len(free) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("😔 No free times on %s.", dialogue.FormatDate(date)))
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🗓 Free times on %s:\n%s",
		dialogue.FormatDate(date), dialogue.FormatSlots(free, 0)))
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	phone, ok := h.requireContact(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	bookings := h.bookings.BookingsByCustomer(phone)
	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 You have no test drives yet.")
		return
	}

	for _, booking := range bookings {
		if booking.IsConfirmed() {
			h.sendWithMarkup(ctx, b, chatID, formatBooking(booking), bookingKeyboard(booking))
			continue
		}
		h.sendMessage(ctx, b, chatID, formatBooking(booking))
	}
}

// HandleCancelBooking обрабатывает команду /cancelbooking <ID>
func (h *Handlers) HandleCancelBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	phone, ok := h.requireContact(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	bookingID := strings.ToUpper(commandArg(update.Message.Text))
	if bookingID == "" {
		h.sendError(ctx, b, chatID, "❌ Usage: /cancelbooking <ID>")
		return
	}

	h.sendMessage(ctx, b, chatID, h.cancelOwnBooking(ctx, chatID, phone, bookingID))
}

// cancelOwnBooking отменяет бронь, если она принадлежит клиенту с этим телефоном
func (h *Handlers) cancelOwnBooking(ctx context.Context, chatID int64, phone, bookingID string) string {
	booking, err := h.bookings.Booking(bookingID)
	if err != nil || booking.Customer.Phone != phone {
		return "❌ Booking not found."
	}

	err = h.bookings.CancelBooking(ctx, bookingID)
	switch {
	case err == nil:
		h.logger.Info("Booking cancelled by customer",
			zap.Int64("chat_id", chatID),
			zap.String("booking_id", bookingID),
		)
		return fmt.Sprintf("✅ Your test drive %s on %s at %s is cancelled.",
			bookingID, dialogue.FormatDate(booking.Date), booking.SlotStart)
	case errors.Is(err, service.ErrAlreadyCancelled):
		return "ℹ️ This booking is already cancelled."
	default:
		h.logger.Error("Failed to cancel booking",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
		return "❌ Could not cancel the booking. Please try again later."
	}
}

// HandleTextMessage передаёт реплику клиента движку диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if update.Message.Contact != nil {
		h.handleContact(ctx, b, update)
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if update.Message.Text == "" || strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	h.converse(ctx, b, update.Message.Chat.ID, update.Message.Text)
}

// converse один ход диалога и ответ в чат
func (h *Handlers) converse(ctx context.Context, b *bot.Bot, chatID int64, utterance string) {
	var (
		reply      string
		candidates []model.Vehicle
	)

	err := h.sessions.Do(sessionID(chatID), func(sess *dialogue.Session) error {
		var err error
		reply, err = h.engine.Handle(ctx, sess, utterance)

		if sess.AwaitingConfirmation {
			for _, id := range sess.Candidates {
				if v, ok := h.catalog.ByID(id); ok {
					candidates = append(candidates, v)
				}
			}
		}
		return err
	})
	if err != nil {
		h.logger.Error("Dialogue turn failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	if len(candidates) > 0 {
		h.sendWithMarkup(ctx, b, chatID, reply, candidatesKeyboard(candidates))
		return
	}
	h.sendMessage(ctx, b, chatID, reply)
}

// handleContact сохраняет телефон, которым поделился клиент
func (h *Handlers) handleContact(ctx context.Context, b *bot.Bot, update *models.Update) {
	contact := update.Message.Contact
	chatID := update.Message.Chat.ID

	// Принимаем только собственный контакт
	if update.Message.From == nil || contact.UserID != update.Message.From.ID {
		h.sendError(ctx, b, chatID, "❌ Please share your own phone number.")
		return
	}

	_ = h.sessions.Do(sessionID(chatID), func(sess *dialogue.Session) error {
		sess.Contact.Phone = contact.PhoneNumber
		if name := strings.TrimSpace(contact.FirstName + " " + contact.LastName); name != "" {
			sess.Contact.Name = name
		}
		return nil
	})

	h.logger.Info("Contact received", zap.Int64("chat_id", chatID))

	h.sendWithMarkup(ctx, b, chatID, "✅ Thanks! We'll use this number for your bookings.",
		&models.ReplyKeyboardRemove{RemoveKeyboard: true})
}

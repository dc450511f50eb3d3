package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// bookingStatusDisplay emoji и текст для статуса брони
type bookingStatusDisplay struct {
	Emoji string
	Text  string
}

func getBookingStatusDisplay(status model.BookingStatus) bookingStatusDisplay {
	switch status {
	case model.BookingStatusConfirmed:
		return bookingStatusDisplay{"✅", "Confirmed"}
	case model.BookingStatusCancelled:
		return bookingStatusDisplay{"❌", "Cancelled"}
	default:
		return bookingStatusDisplay{"❓", "Unknown"}
	}
}

// formatBooking форматирует бронь для списка
func formatBooking(booking model.Booking) string {
	display := getBookingStatusDisplay(booking.Status)

	return fmt.Sprintf(
		"%s Booking %s\n"+
			"🚗 %s\n"+
			"📅 %s at %s\n"+
			"📊 Status: %s",
		display.Emoji,
		booking.ID,
		booking.Vehicle,
		dialogue.FormatDate(booking.Date),
		booking.SlotStart,
		display.Text,
	)
}

// sessionID ID разговора для чата Telegram
func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// commandArg аргумент команды: "/slots 2025-01-02" -> "2025-01-02"
func commandArg(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithMarkup(ctx, b, chatID, text, nil)
}

// sendWithMarkup отправляет сообщение с клавиатурой
func (h *Handlers) sendWithMarkup(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

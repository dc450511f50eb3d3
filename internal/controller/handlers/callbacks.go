package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Форматы callback data
const (
	PickVehicle   = "pick_vehicle:"   // pick_vehicle:2 (номер в списке предложений)
	CancelBooking = "cancel_booking:" // cancel_booking:AB12CD34
	ConfirmCancel = "confirm_cancel:" // confirm_cancel:AB12CD34
	KeepBooking   = "keep_booking"
)

// HandleCallbackQuery распределяет нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	message := callback.Message.Message
	if message == nil {
		answerCallbackAlert(ctx, b, callback.ID, "❌ This message is too old.")
		return
	}
	chatID := message.Chat.ID
	data := callback.Data

	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
	)

	switch {
	case strings.HasPrefix(data, PickVehicle):
		n, err := strconv.Atoi(strings.TrimPrefix(data, PickVehicle))
		if err != nil || n < 1 || n > dialogue.MaxCandidates {
			answerCallbackAlert(ctx, b, callback.ID, "❌ Invalid option")
			return
		}
		answerCallback(ctx, b, callback.ID, "")
		h.converse(ctx, b, chatID, fmt.Sprintf("yes, option %d", n))

	case strings.HasPrefix(data, CancelBooking):
		bookingID := strings.TrimPrefix(data, CancelBooking)
		answerCallback(ctx, b, callback.ID, "")
		h.sendWithMarkup(ctx, b, chatID,
			fmt.Sprintf("Cancel test drive %s?", bookingID),
			confirmCancelKeyboard(bookingID))

	case strings.HasPrefix(data, ConfirmCancel):
		bookingID := strings.TrimPrefix(data, ConfirmCancel)
		var phone string
		_ = h.sessions.Do(sessionID(chatID), func(sess *dialogue.Session) error {
			phone = sess.Contact.Phone
			return nil
		})
		if phone == "" {
			answerCallbackAlert(ctx, b, callback.ID, "📱 Please share your phone number first.")
			return
		}
		answerCallback(ctx, b, callback.ID, "")
		h.editMessage(ctx, b, chatID, message.ID, h.cancelOwnBooking(ctx, chatID, phone, bookingID))

	case data == KeepBooking:
		answerCallback(ctx, b, callback.ID, "👍")
		h.editMessage(ctx, b, chatID, message.ID, "👍 Your booking is kept.")

	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		answerCallback(ctx, b, callback.ID, "")
	}
}

// editMessage заменяет текст сообщения с кнопками
func (h *Handlers) editMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		h.logger.Error("Failed to edit message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

// answerCallback отвечает на callback query (без alert)
func answerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

// answerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func answerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

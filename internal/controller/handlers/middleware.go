package handlers

import (
	"context"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// requireContact проверяет что клиент поделился телефоном.
// Возвращает телефон и true если OK, иначе просит поделиться номером.
func (h *Handlers) requireContact(ctx context.Context, b *bot.Bot, update *models.Update) (string, bool) {
	if update.Message == nil {
		return "", false
	}

	chatID := update.Message.Chat.ID
	var phone string
	_ = h.sessions.Do(sessionID(chatID), func(sess *dialogue.Session) error {
		phone = sess.Contact.Phone
		return nil
	})

	if phone == "" {
		h.sendWithMarkup(ctx, b, chatID, "📱 Please share your phone number first.", contactKeyboard())
		return "", false
	}

	return phone, true
}

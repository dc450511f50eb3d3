package handlers

import (
	"fmt"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// keyboardBuilder упрощает создание inline клавиатур
type keyboardBuilder struct {
	rows [][]models.InlineKeyboardButton
}

func newKeyboard() *keyboardBuilder {
	return &keyboardBuilder{rows: make([][]models.InlineKeyboardButton, 0)}
}

// Row добавляет новый ряд кнопок
func (k *keyboardBuilder) Row(buttons ...models.InlineKeyboardButton) *keyboardBuilder {
	if len(buttons) > 0 {
		k.rows = append(k.rows, buttons)
	}
	return k
}

func (k *keyboardBuilder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: k.rows}
}

func button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

// candidatesKeyboard кнопка на каждый предложенный автомобиль
func candidatesKeyboard(vehicles []model.Vehicle) *models.InlineKeyboardMarkup {
	kb := newKeyboard()
	for i, v := range vehicles {
		kb.Row(button(fmt.Sprintf("%d. %s", i+1, v.DisplayName()), fmt.Sprintf("%s%d", PickVehicle, i+1)))
	}
	return kb.Build()
}

// bookingKeyboard кнопка отмены подтверждённой брони
func bookingKeyboard(booking model.Booking) *models.InlineKeyboardMarkup {
	return newKeyboard().
		Row(button("❌ Cancel "+booking.ID, CancelBooking+booking.ID)).
		Build()
}

// confirmCancelKeyboard подтверждение отмены
func confirmCancelKeyboard(bookingID string) *models.InlineKeyboardMarkup {
	return newKeyboard().
		Row(
			button("✅ Yes, cancel", ConfirmCancel+bookingID),
			button("↩️ Keep it", KeepBooking),
		).
		Build()
}

// contactKeyboard просит поделиться номером телефона
func contactKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "📱 Share my phone number", RequestContact: true}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

package handlers

import (
	"github.com/Freeeeeet/testdrive_bot/internal/controller/state"
	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	engine       *dialogue.Engine
	bookings     *service.BookingService
	catalog      *service.CatalogService
	sessions     *state.Manager
	businessName string
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	engine *dialogue.Engine,
	bookings *service.BookingService,
	catalog *service.CatalogService,
	sessions *state.Manager,
	businessName string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		engine:       engine,
		bookings:     bookings,
		catalog:      catalog,
		sessions:     sessions,
		businessName: businessName,
		logger:       logger,
	}
}

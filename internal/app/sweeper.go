package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/controller/state"
	"go.uber.org/zap"
)

// Sweeper периодически удаляет простаивающие сессии диалогов
type Sweeper struct {
	sessions *state.Manager
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewSweeper(sessions *state.Manager, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую очистку
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting session sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает фоновую очистку
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping session sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("Session sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep() {
	if removed := s.sessions.Sweep(); removed > 0 {
		s.logger.Info("Expired sessions removed",
			zap.Int("removed", removed),
			zap.Int("active", s.sessions.Len()),
		)
	}
}

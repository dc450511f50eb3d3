package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/controller/state"
	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSweeperRemovesIdleSessions(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	sessions := state.NewManager(time.Minute).WithClock(clock)
	require.NoError(t, sessions.Do("chat:1", func(*dialogue.Session) error { return nil }))

	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()

	core, logs := observer.New(zap.InfoLevel)
	sweeper := NewSweeper(sessions, 10*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)
	defer sweeper.Stop()

	assert.Eventually(t, func() bool { return sessions.Len() == 0 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Expired sessions removed").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sweeper := NewSweeper(state.NewManager(time.Minute), time.Hour, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Session sweeper cancelled").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(true, "warn")
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	logger = NewLogger(false, "bogus")
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

package state

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDoCreatesAndKeepsSession(t *testing.T) {
	m := NewManager(time.Hour)

	err := m.Do("chat:1", func(sess *dialogue.Session) error {
		assert.Equal(t, "chat:1", sess.ID)
		assert.Equal(t, dialogue.StateIdle, sess.State())
		sess.Contact.Phone = "555-0100"
		return nil
	})
	require.NoError(t, err)

	err = m.Do("chat:1", func(sess *dialogue.Session) error {
		assert.Equal(t, "555-0100", sess.Contact.Phone)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestManagerDoReturnsCallbackError(t *testing.T) {
	m := NewManager(0)
	boom := errors.New("boom")

	err := m.Do("chat:1", func(*dialogue.Session) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestManagerSerializesTurns(t *testing.T) {
	m := NewManager(0)

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		overlap atomic.Bool
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do("chat:1", func(sess *dialogue.Session) error {
				if inside.Add(1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(time.Millisecond)
				sess.Candidates = append(sess.Candidates, "x")
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load(), "turns of one session must not overlap")
	_ = m.Do("chat:1", func(sess *dialogue.Session) error {
		assert.Len(t, sess.Candidates, 20)
		return nil
	})
}

func TestManagerClear(t *testing.T) {
	m := NewManager(0)
	_ = m.Do("chat:1", func(sess *dialogue.Session) error {
		sess.Contact.Phone = "555-0100"
		return nil
	})

	m.Clear("chat:1")
	assert.Equal(t, 0, m.Len())

	_ = m.Do("chat:1", func(sess *dialogue.Session) error {
		assert.Empty(t, sess.Contact.Phone)
		return nil
	})
}

func TestManagerSweep(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	m := NewManager(30 * time.Minute).WithClock(func() time.Time { return now })

	noop := func(*dialogue.Session) error { return nil }
	_ = m.Do("old", noop)

	now = now.Add(20 * time.Minute)
	_ = m.Do("fresh", noop)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	now = now.Add(time.Hour)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Len())
}

func TestManagerSweepSkipsBusySession(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}
	m := NewManager(time.Minute).WithClock(clock)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Do("busy", func(*dialogue.Session) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	clockMu.Lock()
	now = now.Add(time.Hour)
	clockMu.Unlock()

	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 1, m.Len())

	close(release)
	<-done
	assert.Equal(t, 1, m.Sweep())
}

func TestManagerSweepDisabled(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	m := NewManager(0).WithClock(func() time.Time { return now })
	_ = m.Do("chat:1", func(*dialogue.Session) error { return nil })

	now = now.Add(24 * time.Hour)
	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

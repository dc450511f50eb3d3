package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
)

// Manager хранит сессии диалогов по ID разговора
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewManager создаёт менеджер сессий, ttl <= 0 отключает истечение
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Do выполняет fn над сессией разговора id, создавая её при необходимости.
// Вызовы для одной сессии выполняются строго по очереди.
func (m *Manager) Do(id string, fn func(sess *dialogue.Session) error) error {
	e := m.acquire(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.session)
}

func (m *Manager) acquire(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.sessions[id]
	if !exists {
		e = &entry{session: dialogue.NewSession(id)}
		m.sessions[id] = e
	}
	e.lastSeen = m.now()
	return e
}

// Clear удаляет сессию разговора
func (m *Manager) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

// Len количество активных сессий
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// Sweep удаляет сессии, к которым не обращались дольше ttl.
// Сессия, занятая обработкой реплики, не трогается.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, e := range m.sessions {
		if !e.lastSeen.Before(cutoff) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(m.sessions, id)
		e.mu.Unlock()
		removed++
	}
	return removed
}

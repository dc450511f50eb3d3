package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
)

// entry сессия одного разговора и время последнего обращения
type entry struct {
	mu       sync.Mutex // одна реплика за раз
	session  *dialogue.Session
	lastSeen time.Time
}

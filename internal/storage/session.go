package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

// SessionEntry is the per-chat quiz state kept in memory.
// Callers must hold the entry lock while touching its fields.
type SessionEntry struct {
	mu sync.Mutex

	ChatID    int64
	UserID    int64
	Session   *entities.QuizSession
	AttemptID uuid.UUID // regenerated on every mode run
	Composing bool      // answer is being built with the symbol keyboard

	timer    *time.Timer
	lastSeen time.Time
}

func (e *SessionEntry) Lock()   { e.mu.Lock() }
func (e *SessionEntry) Unlock() { e.mu.Unlock() }

// Schedule runs fn after d, replacing any pending callback.
func (e *SessionEntry) Schedule(d time.Duration, fn func()) {
	e.CancelPending()
	e.timer = time.AfterFunc(d, fn)
}

// CancelPending stops a scheduled callback. It reports whether one was stopped
// before firing.
func (e *SessionEntry) CancelPending() bool {
	if e.timer == nil {
		return false
	}
	stopped := e.timer.Stop()
	e.timer = nil
	return stopped
}

// Touch records activity on the entry.
func (e *SessionEntry) Touch(now time.Time) {
	e.lastSeen = now
}

// NewAttempt starts a new attempt ID for the current mode run.
func (e *SessionEntry) NewAttempt() {
	e.AttemptID = uuid.New()
}

// SessionStorage provides in-memory quiz sessions by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*SessionEntry
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*SessionEntry),
	}
}

// GetOrCreate returns the chat's entry, creating it with newSession if absent.
// The second result is true when the entry was created.
func (s *SessionStorage) GetOrCreate(chatID, userID int64, newSession func() *entities.QuizSession) (*SessionEntry, bool) {
	s.mu.RLock()
	e, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return e, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok = s.sessions[chatID]; ok {
		return e, false
	}

	e = &SessionEntry{
		ChatID:    chatID,
		UserID:    userID,
		Session:   newSession(),
		AttemptID: uuid.New(),
		lastSeen:  time.Now(),
	}
	s.sessions[chatID] = e
	return e, true
}

// Get retrieves the entry for a chat.
func (s *SessionStorage) Get(chatID int64) (*SessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[chatID]
	return e, ok
}

// Delete removes the chat's entry and cancels its pending callback.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	e, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	s.mu.Unlock()

	if ok {
		e.Lock()
		e.CancelPending()
		e.Unlock()
	}
}

// EvictIdle drops entries without activity since cutoff and returns how many
// were removed.
func (s *SessionStorage) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for chatID, e := range s.sessions {
		e.Lock()
		idle := e.lastSeen.Before(cutoff)
		if idle {
			e.CancelPending()
		}
		e.Unlock()

		if idle {
			delete(s.sessions, chatID)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

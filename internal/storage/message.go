package storage

import (
	"sync"
	"time"
)

// TrackedMessage is a bot message that may still carry an inline keyboard.
type TrackedMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers the last interactive message per chat.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]TrackedMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]TrackedMessage),
	}
}

func (s *MessageStorage) Get(chatID int64) (TrackedMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

// UpsertAndGetPrev stores messageID as the chat's latest message and returns
// the one it replaced.
func (s *MessageStorage) UpsertAndGetPrev(chatID int64, messageID int) (prev TrackedMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]

	s.messages[chatID] = TrackedMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}

	return prev, hadPrev
}

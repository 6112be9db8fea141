// Package message owns the append-only chat log. Messages are immutable
// once stored and replayed in insertion order to newly connected clients.
package message

import (
	"errors"
	"sync"
	"time"

	"github.com/simplechat/backend/internal/model/chat"
)

var ErrMessageNotFound = errors.New("message not found")

// Service is the in-memory message log.
type Service struct {
	mu       sync.RWMutex
	messages []chat.Message
	lastID   int64
}

// NewService bootstraps the log with the supplied seed messages.
func NewService(seed []chat.Message) *Service {
	s := &Service{}
	for _, msg := range seed {
		s.append(msg)
	}
	return s
}

// Seed provides the default greeting shown to every fresh client.
func Seed() []chat.Message {
	return []chat.Message{
		{
			Text:   "Welcome to SimpleChat! How can I help you today?",
			Sender: chat.SenderBot,
			UserID: chat.BotUserID,
		},
	}
}

// Append assigns the next identifier and stores the message, returning the
// stored copy. Ids are wall-clock milliseconds bumped past the previous id
// under the lock, so they stay unique and strictly increasing even when
// appends race within the same millisecond.
func (s *Service) Append(msg chat.Message) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(msg)
}

func (s *Service) append(msg chat.Message) chat.Message {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	msg.ID = id
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.messages = append(s.messages, msg)
	return msg
}

// All returns the full log in insertion order.
func (s *Service) All() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// ByID retrieves a single message.
func (s *Service) ByID(id int64) (chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msg := range s.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return chat.Message{}, ErrMessageNotFound
}

// Clear replaces the log with an empty sequence. Test isolation only.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Package memory keeps a bounded per-identity conversation history for the
// reply engine. Oldest turns are evicted first once the cap is reached.
package memory

import (
	"sync"

	"github.com/simplechat/backend/internal/model/chat"
)

// maxTurns bounds how many turns are retained per identity.
const maxTurns = 10

// Service holds conversation histories for the lifetime of the process.
type Service struct {
	mu        sync.Mutex
	histories map[string][]chat.Turn
}

// NewService returns an empty conversation memory.
func NewService() *Service {
	return &Service{histories: make(map[string][]chat.Turn)}
}

// Record appends a turn to the identity's history, evicting the oldest turn
// when the history exceeds the cap.
func (s *Service) Record(identity string, turn chat.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.histories[identity], turn)
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}
	s.histories[identity] = history
}

// History returns the identity's turns in chronological order.
func (s *Service) History(identity string) []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Turn(nil), s.histories[identity]...)
}

// Reset empties the identity's history.
func (s *Service) Reset(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, identity)
}

// Package data stores authenticated form submissions outside the realtime
// channel.
package data

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrMissingFields = errors.New("title and content are required")
	ErrEntryNotFound = errors.New("entry not found")
)

// Entry is a processed form submission.
type Entry struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int       `json:"userId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service is the in-memory submission store.
type Service struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int
}

// NewService returns an empty submission store.
func NewService() *Service {
	return &Service{nextID: 1}
}

// Submit validates and stores a form submission for the user.
func (s *Service) Submit(userID int, title, content string) (Entry, error) {
	if title == "" || content == "" {
		return Entry{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ID:        s.nextID,
		Title:     title,
		Content:   content,
		UserID:    userID,
		Status:    "processed",
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.entries = append(s.entries, entry)
	return entry, nil
}

// ForUser returns every entry submitted by the user.
func (s *Service) ForUser(userID int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0)
	for _, entry := range s.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out
}

// ByID retrieves a single entry.
func (s *Service) ByID(id int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

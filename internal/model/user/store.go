package user

import (
	"errors"
	"sync"
	"time"
)

var ErrEmailTaken = errors.New("user with this email already exists")

// Store exposes account lookup for the auth service and HTTP handlers.
type Store interface {
	Create(email, password string) (User, error)
	FindByEmail(email string) (User, bool)
	FindByID(id int) (User, bool)
	All() []User
}

// MemoryStore implements Store with an in-memory slice, suitable for a
// single-process deployment.
type MemoryStore struct {
	mu     sync.RWMutex
	users  []User
	nextID int
}

// NewMemoryStore returns an empty account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Create registers a new account. Email uniqueness is enforced here.
func (s *MemoryStore) Create(email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return User{}, ErrEmailTaken
		}
	}

	u := User{
		ID:        s.nextID,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.users = append(s.users, u)
	return u, nil
}

// FindByEmail looks up an account by email.
func (s *MemoryStore) FindByEmail(email string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// FindByID looks up an account by identifier.
func (s *MemoryStore) FindByID(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// All returns a copy of every registered account.
func (s *MemoryStore) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]User(nil), s.users...)
}

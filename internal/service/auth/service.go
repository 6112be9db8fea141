// Package auth mints and redeems bearer tokens for the account store.
package auth

import (
	"errors"

	"github.com/simplechat/backend/internal/model/user"
	"github.com/simplechat/backend/internal/service/token"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service gates signup/login and resolves tokens back to accounts.
type Service struct {
	users user.Store
	codec *token.Codec
}

// NewService wires the account store to the token codec.
func NewService(users user.Store, codec *token.Codec) *Service {
	return &Service{users: users, codec: codec}
}

// Register creates an account and mints its first token.
func (s *Service) Register(email, password string) (user.User, string, error) {
	u, err := s.users.Create(email, password)
	if err != nil {
		return user.User{}, "", err
	}

	tok, err := s.issueFor(u)
	if err != nil {
		return user.User{}, "", err
	}
	return u, tok, nil
}

// Login checks credentials and mints a fresh token.
func (s *Service) Login(email, password string) (user.User, string, error) {
	u, ok := s.users.FindByEmail(email)
	if !ok || u.Password != password {
		return user.User{}, "", ErrInvalidCredentials
	}

	tok, err := s.issueFor(u)
	if err != nil {
		return user.User{}, "", err
	}
	return u, tok, nil
}

// UserFromToken verifies the token and resolves the embedded account.
// Any verification or lookup failure yields ErrInvalidCredentials.
func (s *Service) UserFromToken(tok string) (user.User, error) {
	claims, err := s.codec.Verify(tok)
	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	// JSON numbers decode as float64.
	id, ok := claims["userId"].(float64)
	if !ok {
		return user.User{}, ErrInvalidCredentials
	}

	u, found := s.users.FindByID(int(id))
	if !found {
		return user.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) issueFor(u user.User) (string, error) {
	return s.codec.Issue(map[string]any{"userId": u.ID, "email": u.Email})
}

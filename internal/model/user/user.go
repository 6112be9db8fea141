package user

import "time"

// User is an account that can mint bearer tokens. Passwords are kept
// verbatim (demo scale) and never serialized.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

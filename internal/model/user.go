package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users. User records are
// immutable after creation and are never deleted.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, email, password, name string) (User, error)
}

// User represents a stored user. Email is the identity key. Password holds
// whatever the configured PasswordScheme produced; with the default plain
// scheme that is the raw password.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the caller-facing view of a user. It never carries the
// password.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Identity strips the credential material from a user record.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

// PasswordScheme hashes passwords at registration and compares them at
// login. Compare returns ErrInvalidCredentials on mismatch.
type PasswordScheme interface {
	Hash(password string) (string, error)
	Compare(stored, presented string) error
}

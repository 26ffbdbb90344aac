package model

import "context"

// SessionStore persists the current session so it survives restarts.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	// Load returns ErrNoSnapshot when no session was ever saved.
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
}

// Session pairs the authenticated identity with its token. Tokens are not
// revocable; a session ends by client-side discard or token expiry.
type Session struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

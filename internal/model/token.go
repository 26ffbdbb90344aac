package model

// TokenManager issues and validates session tokens.
type TokenManager interface {
	// Issue creates a self-contained signed token for the identity.
	Issue(identity Identity) (string, error)
	// Verify checks the signature and expiry and returns the claims.
	Verify(token string) (Claims, error)
	// Decode extracts the claims without verifying the signature. Expiry
	// is not checked either; callers inspect Claims.ExpiresAt themselves.
	Decode(token string) (Claims, error)
}

// Claims is the payload of a session token. Timestamps are epoch seconds.
type Claims struct {
	UserID    int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Identity converts token claims back to an identity.
func (c Claims) Identity() Identity {
	return Identity{ID: c.UserID, Email: c.Email, Name: c.Name}
}

// Package password provides the pluggable password schemes. The plain
// scheme stores and compares raw passwords and exists to keep the demo
// data model (seeded user, predictable credentials) intact; bcrypt is the
// opt-in hardening.
package password

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/avoronin/inkpost/internal/model"
)

var _ model.PasswordScheme = (*Plain)(nil)

// Plain stores the password as-is and compares for exact equality.
type Plain struct{}

func NewPlain() *Plain {
	return &Plain{}
}

func (Plain) Hash(password string) (string, error) {
	return password, nil
}

func (Plain) Compare(stored, presented string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return model.ErrInvalidCredentials
	}
	return nil
}

var _ model.PasswordScheme = (*Bcrypt)(nil)

// Bcrypt stores a bcrypt hash. Note the seeded demo user is stored by
// whatever scheme is active at first run; switching schemes later leaves
// existing records uncheckable.
type Bcrypt struct {
	cost int
}

func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

func (b Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (Bcrypt) Compare(stored, presented string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)); err != nil {
		return model.ErrInvalidCredentials
	}
	return nil
}

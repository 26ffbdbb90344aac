package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avoronin/inkpost/internal/model"
)

// jwtClaims mirrors model.Claims on the golang-jwt claim surface.
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager with real HMAC-SHA256 signatures. Same claim
// set and lifetime as the legacy scheme, different signature construction,
// so the two are not wire compatible.
type JWT struct {
	secret string
}

// NewJWT creates an HS256 token manager with the provided secret.
func NewJWT(secret string) *JWT {
	return &JWT{secret: secret}
}

func (j *JWT) Issue(identity model.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
	})

	tokenString, err := token.SignedString([]byte(j.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (j *JWT) Verify(tokenString string) (model.Claims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.Claims{}, model.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return model.Claims{}, model.ErrTokenSignature
		default:
			return model.Claims{}, model.ErrTokenMalformed
		}
	}
	if !token.Valid {
		return model.Claims{}, model.ErrTokenMalformed
	}

	return claims.toModel(), nil
}

func (j *JWT) Decode(tokenString string) (model.Claims, error) {
	claims := &jwtClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return model.Claims{}, model.ErrTokenMalformed
	}
	return claims.toModel(), nil
}

func (c *jwtClaims) toModel() model.Claims {
	m := model.Claims{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
	}
	if c.IssuedAt != nil {
		m.IssuedAt = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		m.ExpiresAt = c.ExpiresAt.Unix()
	}
	return m
}

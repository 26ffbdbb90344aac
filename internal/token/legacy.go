package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avoronin/inkpost/internal/model"
)

// SessionTTL is the fixed lifetime of a session token.
const SessionTTL = 24 * time.Hour

// legacyHeader is the static token header. It advertises HS256 but the
// legacy scheme is NOT an HMAC: the signature is just the base64 encoding
// of the two encoded segments concatenated with the shared secret. Anyone
// holding the secret (which ships with the binary) can forge tokens. This
// matches the demo-only threat model; use the HS256 manager for anything
// beyond a demo.
const legacyHeader = `{"alg":"HS256","typ":"JWT"}`

var _ model.TokenManager = (*Legacy)(nil)

// Legacy implements TokenManager with the demo signing scheme. Wire
// format: three dot-separated segments, header and payload as std-base64
// JSON, signature as std-base64 text.
type Legacy struct {
	secret string
}

// NewLegacy creates a legacy token manager with the shared secret.
func NewLegacy(secret string) *Legacy {
	return &Legacy{secret: secret}
}

func (l *Legacy) Issue(identity model.Identity) (string, error) {
	now := time.Now().Unix()
	claims := model.Claims{
		UserID:    identity.ID,
		Email:     identity.Email,
		Name:      identity.Name,
		IssuedAt:  now,
		ExpiresAt: now + int64(SessionTTL/time.Second),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	headerEnc := base64.StdEncoding.EncodeToString([]byte(legacyHeader))
	payloadEnc := base64.StdEncoding.EncodeToString(payload)
	signature := l.sign(headerEnc, payloadEnc)

	return headerEnc + "." + payloadEnc + "." + signature, nil
}

func (l *Legacy) Verify(token string) (model.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return model.Claims{}, model.ErrTokenMalformed
	}

	if l.sign(parts[0], parts[1]) != parts[2] {
		return model.Claims{}, model.ErrTokenSignature
	}

	claims, err := decodePayload(parts[1])
	if err != nil {
		return model.Claims{}, err
	}

	if time.Now().Unix() >= claims.ExpiresAt {
		return model.Claims{}, model.ErrTokenExpired
	}

	return claims, nil
}

func (l *Legacy) Decode(token string) (model.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return model.Claims{}, model.ErrTokenMalformed
	}
	return decodePayload(parts[1])
}

func (l *Legacy) sign(headerEnc, payloadEnc string) string {
	return base64.StdEncoding.EncodeToString([]byte(headerEnc + "." + payloadEnc + "." + l.secret))
}

func decodePayload(payloadEnc string) (model.Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(payloadEnc)
	if err != nil {
		return model.Claims{}, model.ErrTokenMalformed
	}

	var claims model.Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return model.Claims{}, model.ErrTokenMalformed
	}

	return claims, nil
}

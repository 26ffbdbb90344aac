package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avoronin/inkpost/internal/appctx"
	"github.com/avoronin/inkpost/internal/latency"
	"github.com/avoronin/inkpost/internal/logger"
	"github.com/avoronin/inkpost/internal/model"
)

// authDelay is the simulated backend round trip for credential calls.
const authDelay = 500 * time.Millisecond

// Auth is the credential store: it owns user registration, login, the
// current session, and session restore at startup. Tokens are not
// revocable; logging out just discards the client-side copy.
type Auth struct {
	users     model.UserStore
	sessions  model.SessionStore
	tokens    model.TokenManager
	passwords model.PasswordScheme
	delay     *latency.Simulator
	logger    *logger.Logger

	mu      sync.Mutex
	current *model.Session
}

func NewAuth(
	users model.UserStore,
	sessions model.SessionStore,
	tokens model.TokenManager,
	passwords model.PasswordScheme,
	delay *latency.Simulator,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		passwords: passwords,
		delay:     delay,
		logger:    logger,
	}
}

// Register creates a user, issues a token, and persists the new session.
// The user table is persisted before Register returns.
func (a *Auth) Register(ctx context.Context, email, password, name string) (model.Session, error) {
	a.logger.Debug("auth: starting registration",
		"email", email,
		"request_id", appctx.RequestID(ctx))

	if email == "" || password == "" || name == "" {
		return model.Session{}, model.ErrValidation
	}

	if err := a.delay.Wait(ctx, authDelay); err != nil {
		return model.Session{}, err
	}

	stored, err := a.passwords.Hash(password)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.users.Create(ctx, email, stored, name)
	if errors.Is(err, model.ErrDuplicateUser) {
		a.logger.Info("auth: email already taken",
			"email", email,
			"request_id", appctx.RequestID(ctx))
		return model.Session{}, err
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := a.openSession(ctx, user.Identity())
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("auth: registration completed",
		"email", email,
		"user_id", user.ID,
		"request_id", appctx.RequestID(ctx))

	return session, nil
}

// Login checks the credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	a.logger.Debug("auth: starting login",
		"email", email,
		"request_id", appctx.RequestID(ctx))

	if err := a.delay.Wait(ctx, authDelay); err != nil {
		return model.Session{}, err
	}

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.passwords.Compare(user.Password, password); err != nil {
		return model.Session{}, err
	}

	session, err := a.openSession(ctx, user.Identity())
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("auth: login completed",
		"email", email,
		"user_id", user.ID,
		"request_id", appctx.RequestID(ctx))

	return session, nil
}

// Logout discards the current session and clears its persisted copy. The
// token itself stays valid until it expires.
func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()

	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	a.logger.Info("auth: logged out", "request_id", appctx.RequestID(ctx))
	return nil
}

// IsAuthenticated reports whether a session is held and its token still
// verifies. Pure query, no side effects.
func (a *Auth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return false
	}

	_, err := a.tokens.Verify(a.current.Token)
	return err == nil
}

// Current returns the identity of the held session, if any.
func (a *Auth) Current() (model.Identity, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return model.Identity{}, false
	}
	return a.current.User, true
}

// Restore loads the persisted session at startup. A session whose token no
// longer decodes or has expired is discarded together with its user.
func (a *Auth) Restore(ctx context.Context) error {
	session, err := a.sessions.Load(ctx)
	if errors.Is(err, model.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	claims, err := a.tokens.Decode(session.Token)
	if err != nil || time.Now().Unix() >= claims.ExpiresAt {
		a.logger.Info("auth: discarding stale session",
			"email", session.User.Email)
		if err := a.sessions.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear stale session: %w", err)
		}
		return nil
	}

	a.mu.Lock()
	a.current = &session
	a.mu.Unlock()

	a.logger.Info("auth: session restored",
		"email", session.User.Email,
		"user_id", session.User.ID)

	return nil
}

func (a *Auth) openSession(ctx context.Context, identity model.Identity) (model.Session, error) {
	token, err := a.tokens.Issue(identity)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	session := model.Session{User: identity, Token: token}

	if err := a.sessions.Save(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	a.mu.Lock()
	a.current = &session
	a.mu.Unlock()

	return session, nil
}

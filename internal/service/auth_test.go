package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/inkpost/internal/latency"
	"github.com/avoronin/inkpost/internal/mocks"
	"github.com/avoronin/inkpost/internal/model"
	"github.com/avoronin/inkpost/internal/password"
	"github.com/avoronin/inkpost/internal/repository/snapshot"
	"github.com/avoronin/inkpost/internal/storage/memory"
	"github.com/avoronin/inkpost/internal/testutil"
	"github.com/avoronin/inkpost/internal/token"
)

func newMockedAuth(users *mocks.UserStore, sessions *mocks.SessionStore, tokens *mocks.TokenManager) *Auth {
	return NewAuth(users, sessions, tokens, password.NewPlain(), latency.New(0), testutil.MakeNoopLogger())
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	tokens := &mocks.TokenManager{}

	created := model.User{ID: 2, Email: "a@b.c", Name: "A", Password: "pw"}
	users.On("Create", mock.Anything, "a@b.c", "pw", "A").Return(created, nil)
	tokens.On("Issue", created.Identity()).Return("tok", nil)
	sessions.On("Save", mock.Anything, model.Session{User: created.Identity(), Token: "tok"}).Return(nil)

	a := newMockedAuth(users, sessions, tokens)

	session, err := a.Register(ctx, "a@b.c", "pw", "A")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, created.Identity(), session.User)

	identity, ok := a.Current()
	require.True(t, ok)
	assert.Equal(t, created.Identity(), identity)

	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestAuth_Register_EmptyField(t *testing.T) {
	a := newMockedAuth(&mocks.UserStore{}, &mocks.SessionStore{}, &mocks.TokenManager{})

	for _, tc := range []struct{ email, pass, name string }{
		{"", "pw", "A"},
		{"a@b.c", "", "A"},
		{"a@b.c", "pw", ""},
	} {
		_, err := a.Register(context.Background(), tc.email, tc.pass, tc.name)
		require.ErrorIs(t, err, model.ErrValidation)
	}
}

func TestAuth_Register_Duplicate(t *testing.T) {
	users := &mocks.UserStore{}
	users.On("Create", mock.Anything, "a@b.c", "pw", "A").Return(model.User{}, model.ErrDuplicateUser)

	a := newMockedAuth(users, &mocks.SessionStore{}, &mocks.TokenManager{})

	_, err := a.Register(context.Background(), "a@b.c", "pw", "A")
	require.ErrorIs(t, err, model.ErrDuplicateUser)

	_, ok := a.Current()
	assert.False(t, ok)
}

func TestAuth_Login_Success(t *testing.T) {
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	tokens := &mocks.TokenManager{}

	user := model.User{ID: 1, Email: "a@b.c", Name: "A", Password: "pw"}
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	tokens.On("Issue", user.Identity()).Return("tok", nil)
	sessions.On("Save", mock.Anything, mock.Anything).Return(nil)

	a := newMockedAuth(users, sessions, tokens)

	session, err := a.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.Identity(), session.User)
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	users := &mocks.UserStore{}
	users.On("GetByEmail", mock.Anything, "x@y.z").Return(model.User{}, model.ErrNotFound)

	a := newMockedAuth(users, &mocks.SessionStore{}, &mocks.TokenManager{})

	_, err := a.Login(context.Background(), "x@y.z", "pw")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	users := &mocks.UserStore{}
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{ID: 1, Email: "a@b.c", Password: "pw"}, nil)

	a := newMockedAuth(users, &mocks.SessionStore{}, &mocks.TokenManager{})

	_, err := a.Login(context.Background(), "a@b.c", "wrong")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Logout_ClearsSession(t *testing.T) {
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	tokens := &mocks.TokenManager{}

	user := model.User{ID: 1, Email: "a@b.c", Password: "pw"}
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	tokens.On("Issue", mock.Anything).Return("tok", nil)
	sessions.On("Save", mock.Anything, mock.Anything).Return(nil)
	sessions.On("Clear", mock.Anything).Return(nil)

	a := newMockedAuth(users, sessions, tokens)

	_, err := a.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	require.NoError(t, a.Logout(context.Background()))

	_, ok := a.Current()
	assert.False(t, ok)
	assert.False(t, a.IsAuthenticated())
	sessions.AssertCalled(t, "Clear", mock.Anything)
}

func TestAuth_IsAuthenticated_ExpiredToken(t *testing.T) {
	users := &mocks.UserStore{}
	sessions := &mocks.SessionStore{}
	tokens := &mocks.TokenManager{}

	user := model.User{ID: 1, Email: "a@b.c", Password: "pw"}
	users.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	tokens.On("Issue", mock.Anything).Return("tok", nil)
	sessions.On("Save", mock.Anything, mock.Anything).Return(nil)
	tokens.On("Verify", "tok").Return(model.Claims{}, model.ErrTokenExpired)

	a := newMockedAuth(users, sessions, tokens)

	_, err := a.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	assert.False(t, a.IsAuthenticated())
}

func TestAuth_Restore_NoSession(t *testing.T) {
	sessions := &mocks.SessionStore{}
	sessions.On("Load", mock.Anything).Return(model.Session{}, model.ErrNoSnapshot)

	a := newMockedAuth(&mocks.UserStore{}, sessions, &mocks.TokenManager{})

	require.NoError(t, a.Restore(context.Background()))
	_, ok := a.Current()
	assert.False(t, ok)
}

func TestAuth_Restore_DiscardsExpired(t *testing.T) {
	sessions := &mocks.SessionStore{}
	tokens := &mocks.TokenManager{}

	stale := model.Session{User: model.Identity{ID: 1, Email: "a@b.c"}, Token: "old"}
	sessions.On("Load", mock.Anything).Return(stale, nil)
	tokens.On("Decode", "old").Return(model.Claims{ExpiresAt: time.Now().Add(-time.Hour).Unix()}, nil)
	sessions.On("Clear", mock.Anything).Return(nil)

	a := newMockedAuth(&mocks.UserStore{}, sessions, tokens)

	require.NoError(t, a.Restore(context.Background()))

	_, ok := a.Current()
	assert.False(t, ok)
	sessions.AssertCalled(t, "Clear", mock.Anything)
}

func TestAuth_Restore_KeepsLiveSession(t *testing.T) {
	sessions := &mocks.SessionStore{}
	tokens := &mocks.TokenManager{}

	live := model.Session{User: model.Identity{ID: 1, Email: "a@b.c", Name: "A"}, Token: "tok"}
	sessions.On("Load", mock.Anything).Return(live, nil)
	tokens.On("Decode", "tok").Return(model.Claims{ExpiresAt: time.Now().Add(time.Hour).Unix()}, nil)

	a := newMockedAuth(&mocks.UserStore{}, sessions, tokens)

	require.NoError(t, a.Restore(context.Background()))

	identity, ok := a.Current()
	require.True(t, ok)
	assert.Equal(t, live.User, identity)
}

// The assembled stack: real repositories over an in-memory snapshot store,
// real legacy tokens, plain passwords.
func newRealAuth(t *testing.T) (*Auth, *token.Legacy) {
	t.Helper()
	store := memory.New()
	scheme := password.NewPlain()
	tokens := token.NewLegacy("secret")
	return NewAuth(
		snapshot.NewUsers(store, scheme),
		snapshot.NewSessions(store),
		tokens,
		scheme,
		latency.New(0),
		testutil.MakeNoopLogger(),
	), tokens
}

func TestAuth_SeededDemoLogin(t *testing.T) {
	a, tokens := newRealAuth(t)

	session, err := a.Login(context.Background(), "demo@example.com", "password123")
	require.NoError(t, err)

	claims, err := tokens.Decode(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", claims.Email)
	assert.True(t, a.IsAuthenticated())
}

func TestAuth_RegisterThenDuplicate(t *testing.T) {
	ctx := context.Background()
	a, _ := newRealAuth(t)

	_, err := a.Register(ctx, "a@b.c", "pw", "A")
	require.NoError(t, err)

	_, err = a.Register(ctx, "a@b.c", "pw2", "B")
	require.ErrorIs(t, err, model.ErrDuplicateUser)

	// First registration still logs in.
	_, err = a.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
}

func TestAuth_CancelledBeforeMutation(t *testing.T) {
	a, _ := newRealAuth(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a real (non-zero) delay the wait notices cancellation before
	// any state is touched.
	a.delay = latency.New(1)
	_, err := a.Login(ctx, "demo@example.com", "password123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

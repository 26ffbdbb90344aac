// Package mocks contains testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/avoronin/inkpost/internal/model"
)

type SnapshotStore struct {
	mock.Mock
}

func (m *SnapshotStore) Load(ctx context.Context, slot string) ([]byte, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *SnapshotStore) Save(ctx context.Context, slot string, data []byte) error {
	args := m.Called(ctx, slot, data)
	return args.Error(0)
}

func (m *SnapshotStore) Delete(ctx context.Context, slot string) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(identity model.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Verify(token string) (model.Claims, error) {
	args := m.Called(token)
	return args.Get(0).(model.Claims), args.Error(1)
}

func (m *TokenManager) Decode(token string) (model.Claims, error) {
	args := m.Called(token)
	return args.Get(0).(model.Claims), args.Error(1)
}

type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, email, password, name string) (model.User, error) {
	args := m.Called(ctx, email, password, name)
	return args.Get(0).(model.User), args.Error(1)
}

type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Save(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) Load(ctx context.Context) (model.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type PostStore struct {
	mock.Mock
}

func (m *PostStore) List(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *PostStore) GetByID(ctx context.Context, id int64) (model.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *PostStore) Create(ctx context.Context, params model.CreatePostParams) (model.Post, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *PostStore) Update(ctx context.Context, id int64, patch model.PostPatch) (model.Post, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *PostStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

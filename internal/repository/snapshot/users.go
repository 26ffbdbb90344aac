// Package snapshot implements the stores on top of a SnapshotStore: each
// repository owns one named slot, keeps its decoded state in memory, and
// rewrites the whole slot after every mutation. There is one logical
// writer, so the wholesale overwrite is safe.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avoronin/inkpost/internal/model"
)

// Seed credentials for the demo user created when the user slot has never
// been written.
const (
	SeedEmail    = "demo@example.com"
	SeedPassword = "password123"
	SeedName     = "Demo User"
)

// userState is the serialized form of the user table.
type userState struct {
	Users      map[string]model.User `json:"users"`
	NextUserID int64                 `json:"nextUserId"`
}

var _ model.UserStore = (*Users)(nil)

// Users is the snapshot-backed user table, keyed by email.
type Users struct {
	store  model.SnapshotStore
	scheme model.PasswordScheme

	mu    sync.Mutex
	state *userState
	now   func() time.Time
}

// NewUsers creates the user repository. The password scheme is used only
// to store the seeded demo user; registration passwords arrive already
// hashed by the caller.
func NewUsers(store model.SnapshotStore, scheme model.PasswordScheme) *Users {
	return &Users{
		store:  store,
		scheme: scheme,
		now:    time.Now,
	}
}

func (r *Users) GetByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return model.User{}, err
	}

	user, ok := r.state.Users[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	return user, nil
}

// Create assigns the next user id and persists the grown table before
// returning. The password is stored as given.
func (r *Users) Create(ctx context.Context, email, password, name string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return model.User{}, err
	}

	if _, ok := r.state.Users[email]; ok {
		return model.User{}, model.ErrDuplicateUser
	}

	user := model.User{
		ID:        r.state.NextUserID,
		Email:     email,
		Name:      name,
		Password:  password,
		CreatedAt: r.now(),
	}

	r.state.Users[email] = user
	r.state.NextUserID++

	if err := r.persist(ctx); err != nil {
		// Roll back so a failed write does not leave a phantom user.
		delete(r.state.Users, email)
		r.state.NextUserID--
		return model.User{}, err
	}

	return user, nil
}

func (r *Users) load(ctx context.Context) error {
	if r.state != nil {
		return nil
	}

	data, err := r.store.Load(ctx, model.SlotUsers)
	if errors.Is(err, model.ErrNoSnapshot) {
		return r.seed()
	}
	if err != nil {
		return fmt.Errorf("failed to load user snapshot: %w", err)
	}

	state := &userState{}
	if err := json.Unmarshal(data, state); err != nil {
		return fmt.Errorf("failed to decode user snapshot: %w", err)
	}
	if state.Users == nil {
		state.Users = map[string]model.User{}
	}

	r.state = state
	return nil
}

func (r *Users) seed() error {
	stored, err := r.scheme.Hash(SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	r.state = &userState{
		Users: map[string]model.User{
			SeedEmail: {
				ID:        1,
				Email:     SeedEmail,
				Name:      SeedName,
				Password:  stored,
				CreatedAt: r.now(),
			},
		},
		NextUserID: 2,
	}
	return nil
}

func (r *Users) persist(ctx context.Context) error {
	data, err := json.Marshal(r.state)
	if err != nil {
		return fmt.Errorf("failed to encode user snapshot: %w", err)
	}
	if err := r.store.Save(ctx, model.SlotUsers, data); err != nil {
		return fmt.Errorf("failed to save user snapshot: %w", err)
	}
	return nil
}

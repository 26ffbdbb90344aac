package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avoronin/inkpost/internal/model"
)

var _ model.SessionStore = (*Sessions)(nil)

// Sessions persists the current session in its own slot. Unlike the other
// repositories it holds no in-memory state: the auth service owns the live
// session, this is just the durable copy.
type Sessions struct {
	store model.SnapshotStore
}

// NewSessions creates the session repository.
func NewSessions(store model.SnapshotStore) *Sessions {
	return &Sessions{store: store}
}

func (r *Sessions) Save(ctx context.Context, session model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.store.Save(ctx, model.SlotSession, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *Sessions) Load(ctx context.Context) (model.Session, error) {
	data, err := r.store.Load(ctx, model.SlotSession)
	if err != nil {
		return model.Session{}, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return model.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	return session, nil
}

func (r *Sessions) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, model.SlotSession)
}

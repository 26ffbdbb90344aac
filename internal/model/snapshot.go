package model

import "context"

// Slot names for persisted snapshots. Each store serializes its whole
// state into one slot and rewrites it after every mutation.
const (
	SlotSession = "auth-storage"
	SlotUsers   = "user-storage"
	SlotPosts   = "posts-storage"
)

// SnapshotStore persists opaque snapshot blobs under named slots. Load
// returns ErrNoSnapshot when the slot has never been written. Save
// overwrites the slot wholesale; there is exactly one logical writer, so
// last-writer-wins is acceptable.
type SnapshotStore interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/avoronin/inkpost/internal/model"
)

// postState is the serialized form of the post collection. Posts are kept
// most-recent-first; the id counter is persisted so ids stay monotonic
// across restarts.
type postState struct {
	Posts      []model.Post `json:"posts"`
	NextPostID int64        `json:"nextPostId"`
}

var _ model.PostStore = (*Posts)(nil)

// Posts is the snapshot-backed post collection. Lookups are linear scans,
// which is fine at this scale.
type Posts struct {
	store model.SnapshotStore

	mu    sync.Mutex
	state *postState
	now   func() time.Time
}

// NewPosts creates the post repository.
func NewPosts(store model.SnapshotStore) *Posts {
	return &Posts{
		store: store,
		now:   time.Now,
	}
}

// List returns a copy of the collection, most recent first.
func (r *Posts) List(ctx context.Context) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}

	return slices.Clone(r.state.Posts), nil
}

func (r *Posts) GetByID(ctx context.Context, id int64) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return model.Post{}, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return model.Post{}, model.ErrNotFound
	}

	return r.state.Posts[idx], nil
}

// Create assigns the next post id, stamps CreatedAt and UpdatedAt with the
// same instant, prepends the post, and persists before returning.
func (r *Posts) Create(ctx context.Context, params model.CreatePostParams) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return model.Post{}, err
	}

	now := r.now()
	post := model.Post{
		ID:        r.state.NextPostID,
		UserID:    params.UserID,
		Title:     params.Title,
		Excerpt:   params.Excerpt,
		Content:   params.Content,
		Category:  params.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	prev := r.state.Posts
	r.state.Posts = append([]model.Post{post}, prev...)
	r.state.NextPostID++

	if err := r.persist(ctx); err != nil {
		r.state.Posts = prev
		r.state.NextPostID--
		return model.Post{}, err
	}

	return post, nil
}

// Update merges the patch over the stored post and bumps UpdatedAt.
// Returns ErrNotFound when no post has the id.
func (r *Posts) Update(ctx context.Context, id int64, patch model.PostPatch) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return model.Post{}, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return model.Post{}, model.ErrNotFound
	}

	prev := r.state.Posts[idx]
	merged := prev
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		merged.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		merged.Content = *patch.Content
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	merged.UpdatedAt = r.now()

	r.state.Posts[idx] = merged

	if err := r.persist(ctx); err != nil {
		r.state.Posts[idx] = prev
		return model.Post{}, err
	}

	return merged, nil
}

// Delete removes the post with the id. Deleting an absent id is a no-op,
// not an error.
func (r *Posts) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	prev := r.state.Posts
	r.state.Posts = slices.Delete(slices.Clone(prev), idx, idx+1)

	if err := r.persist(ctx); err != nil {
		r.state.Posts = prev
		return err
	}

	return nil
}

func (r *Posts) indexOf(id int64) int {
	return slices.IndexFunc(r.state.Posts, func(p model.Post) bool { return p.ID == id })
}

func (r *Posts) load(ctx context.Context) error {
	if r.state != nil {
		return nil
	}

	data, err := r.store.Load(ctx, model.SlotPosts)
	if errors.Is(err, model.ErrNoSnapshot) {
		r.state = seedPosts()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load post snapshot: %w", err)
	}

	state := &postState{}
	if err := json.Unmarshal(data, state); err != nil {
		return fmt.Errorf("failed to decode post snapshot: %w", err)
	}

	r.state = state
	return nil
}

// seedPosts is the starter collection shown before anyone has written
// anything.
func seedPosts() *postState {
	return &postState{
		Posts: []model.Post{
			{
				ID:        2,
				UserID:    1,
				Title:     "Next.js Best Practices",
				Excerpt:   "Master Next.js with these proven best practices and patterns.",
				Content:   "Next.js is a React framework that enables production applications...",
				Category:  "Next.js",
				CreatedAt: time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC),
			},
			{
				ID:        1,
				UserID:    1,
				Title:     "Getting Started with React",
				Excerpt:   "Learn the basics of React and start building amazing web applications.",
				Content:   "React is a JavaScript library for building user interfaces...",
				Category:  "React",
				CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			},
		},
		NextPostID: 3,
	}
}

func (r *Posts) persist(ctx context.Context) error {
	data, err := json.Marshal(r.state)
	if err != nil {
		return fmt.Errorf("failed to encode post snapshot: %w", err)
	}
	if err := r.store.Save(ctx, model.SlotPosts, data); err != nil {
		return fmt.Errorf("failed to save post snapshot: %w", err)
	}
	return nil
}

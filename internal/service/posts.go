package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avoronin/inkpost/internal/appctx"
	"github.com/avoronin/inkpost/internal/latency"
	"github.com/avoronin/inkpost/internal/logger"
	"github.com/avoronin/inkpost/internal/model"
)

// Simulated backend round trips per operation, matching the feel of the
// future real API: reads and deletes are a bit cheaper than writes.
const (
	fetchDelay  = 300 * time.Millisecond
	writeDelay  = 400 * time.Millisecond
	deleteDelay = 300 * time.Millisecond
)

// Posts is the content repository: CRUD over the shared post collection.
// Ownership is enforced by the view layer; this service trusts its caller.
type Posts struct {
	posts  model.PostStore
	delay  *latency.Simulator
	logger *logger.Logger
}

func NewPosts(posts model.PostStore, delay *latency.Simulator, logger *logger.Logger) *Posts {
	return &Posts{
		posts:  posts,
		delay:  delay,
		logger: logger,
	}
}

// Fetch simulates a remote refresh and returns the collection, most recent
// first. The local collection is already authoritative, so there is never
// new data; the call exists as the suspension point the view layer awaits.
func (s *Posts) Fetch(ctx context.Context) ([]model.Post, error) {
	if err := s.delay.Wait(ctx, fetchDelay); err != nil {
		return nil, err
	}

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// Create validates the required fields and stores a new post at the head
// of the collection.
func (s *Posts) Create(ctx context.Context, params model.CreatePostParams) (model.Post, error) {
	if strings.TrimSpace(params.Title) == "" ||
		strings.TrimSpace(params.Excerpt) == "" ||
		strings.TrimSpace(params.Content) == "" {
		return model.Post{}, model.ErrValidation
	}

	if err := s.delay.Wait(ctx, writeDelay); err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.Create(ctx, params)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("posts: created",
		"post_id", post.ID,
		"user_id", post.UserID,
		"request_id", appctx.RequestID(ctx))

	return post, nil
}

// Update merges the patch over an existing post. Field constraints are the
// caller's responsibility; only existence is checked here.
func (s *Posts) Update(ctx context.Context, id int64, patch model.PostPatch) (model.Post, error) {
	if err := s.delay.Wait(ctx, writeDelay); err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.Update(ctx, id, patch)
	if err != nil {
		return model.Post{}, err
	}

	s.logger.Info("posts: updated",
		"post_id", post.ID,
		"request_id", appctx.RequestID(ctx))

	return post, nil
}

// Delete removes a post. Deleting an absent id succeeds: the desired end
// state is already true.
func (s *Posts) Delete(ctx context.Context, id int64) error {
	if err := s.delay.Wait(ctx, deleteDelay); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("posts: deleted",
		"post_id", id,
		"request_id", appctx.RequestID(ctx))

	return nil
}

// Get looks a post up by id without the simulated latency. Never mutates,
// never persists.
func (s *Posts) Get(ctx context.Context, id int64) (model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

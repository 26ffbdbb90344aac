package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/inkpost/internal/latency"
	"github.com/avoronin/inkpost/internal/mocks"
	"github.com/avoronin/inkpost/internal/model"
	"github.com/avoronin/inkpost/internal/repository/snapshot"
	"github.com/avoronin/inkpost/internal/storage/memory"
	"github.com/avoronin/inkpost/internal/testutil"
)

func newRealPosts(t *testing.T) *Posts {
	t.Helper()
	return NewPosts(snapshot.NewPosts(memory.New()), latency.New(0), testutil.MakeNoopLogger())
}

func TestPosts_Fetch_ReturnsSeededCollection(t *testing.T) {
	s := newRealPosts(t)

	posts, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), posts[0].ID)
}

func TestPosts_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	s := newRealPosts(t)

	created, err := s.Create(ctx, model.CreatePostParams{
		UserID: 1, Title: "T", Excerpt: "E", Content: "C",
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestPosts_Create_BlankFields(t *testing.T) {
	ctx := context.Background()
	s := newRealPosts(t)

	for _, params := range []model.CreatePostParams{
		{UserID: 1, Title: " ", Excerpt: "E", Content: "C"},
		{UserID: 1, Title: "T", Excerpt: "", Content: "C"},
		{UserID: 1, Title: "T", Excerpt: "E", Content: "\t\n"},
	} {
		_, err := s.Create(ctx, params)
		require.ErrorIs(t, err, model.ErrValidation)
	}

	// Category stays optional.
	_, err := s.Create(ctx, model.CreatePostParams{UserID: 1, Title: "T", Excerpt: "E", Content: "C"})
	require.NoError(t, err)
}

func TestPosts_Update_NotFound(t *testing.T) {
	s := newRealPosts(t)

	title := "X"
	_, err := s.Update(context.Background(), 999, model.PostPatch{Title: &title})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPosts_Delete_AbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	s := newRealPosts(t)

	before, err := s.Fetch(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, 999))

	after, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPosts_Get_HasNoDelay(t *testing.T) {
	// Even with real latency configured, Get must return immediately.
	s := NewPosts(snapshot.NewPosts(memory.New()), latency.New(1), testutil.MakeNoopLogger())

	start := time.Now()
	_, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPosts_Update_PropagatesStoreError(t *testing.T) {
	store := &mocks.PostStore{}
	store.On("Update", mock.Anything, int64(1), mock.Anything).Return(model.Post{}, model.ErrNotFound)

	s := NewPosts(store, latency.New(0), testutil.MakeNoopLogger())

	title := "X"
	_, err := s.Update(context.Background(), 1, model.PostPatch{Title: &title})
	require.ErrorIs(t, err, model.ErrNotFound)
	store.AssertExpectations(t)
}

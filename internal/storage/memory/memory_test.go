package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/inkpost/internal/model"
)

func TestStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Load(ctx, "slot")
	require.ErrorIs(t, err, model.ErrNoSnapshot)

	require.NoError(t, s.Save(ctx, "slot", []byte(`{"a":1}`)))

	data, err := s.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), data)

	require.NoError(t, s.Save(ctx, "slot", []byte(`{"a":2}`)))
	data, err = s.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), data)

	require.NoError(t, s.Delete(ctx, "slot"))
	_, err = s.Load(ctx, "slot")
	require.ErrorIs(t, err, model.ErrNoSnapshot)
}

func TestStore_LoadCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Save(ctx, "slot", []byte("abc")))

	data, err := s.Load(ctx, "slot")
	require.NoError(t, err)
	data[0] = 'x'

	again, err := s.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

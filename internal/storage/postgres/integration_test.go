//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/avoronin/inkpost/internal/model"
	"github.com/avoronin/inkpost/internal/storage/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "inkpost_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/inkpost_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	store, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(ctx))

	_, err = store.Load(ctx, "posts-storage")
	require.ErrorIs(t, err, model.ErrNoSnapshot)

	require.NoError(t, store.Save(ctx, "posts-storage", []byte(`{"posts":[],"nextPostId":3}`)))

	data, err := store.Load(ctx, "posts-storage")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"posts":[],"nextPostId":3}`), data)

	require.NoError(t, store.Save(ctx, "posts-storage", []byte(`{"posts":[],"nextPostId":4}`)))
	data, err = store.Load(ctx, "posts-storage")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"posts":[],"nextPostId":4}`), data)

	require.NoError(t, store.Delete(ctx, "posts-storage"))
	_, err = store.Load(ctx, "posts-storage")
	require.ErrorIs(t, err, model.ErrNoSnapshot)

	// Absent slot deletes cleanly.
	require.NoError(t, store.Delete(ctx, "posts-storage"))
}

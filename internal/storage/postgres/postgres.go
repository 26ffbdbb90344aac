// Package postgres is the SnapshotStore backed by PostgreSQL, for running
// several app instances against one shared state.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/avoronin/inkpost/internal/model"
	"github.com/avoronin/inkpost/internal/storage/postgres/migrations"
)

var _ model.SnapshotStore = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database, runs migrations, and returns the store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Migrate applies the embedded goose migrations over a database/sql
// connection; goose does not speak pgx's native interface.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Load(ctx context.Context, slot string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM snapshots WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", slot, err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, slot string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (slot, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		slot, data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", slot, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, slot string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM snapshots WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", slot, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.pool.Ping(ctx)
}

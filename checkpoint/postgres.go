package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/randalmurphal/resumeflow/graph"
)

// Schema is the DDL for the checkpoints table.
const Schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
    thread_id TEXT PRIMARY KEY,
    next_node TEXT NOT NULL,
    step      INTEGER NOT NULL,
    state     JSONB NOT NULL,
    saved_at  TIMESTAMPTZ NOT NULL
)`

// PostgresSaver stores checkpoints in a PostgreSQL table keyed by thread ID.
type PostgresSaver[S any] struct {
	pool *pgxpool.Pool
}

// NewPostgresSaver connects a pool and verifies the connection.
func NewPostgresSaver[S any](ctx context.Context, databaseURL string) (*PostgresSaver[S], error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresSaver[S]{pool: pool}, nil
}

// Init creates the checkpoints table if it does not exist.
func (p *PostgresSaver[S]) Init(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create checkpoints table: %w", err)
	}
	return nil
}

// Put upserts the thread's checkpoint row.
func (p *PostgresSaver[S]) Put(ctx context.Context, cp graph.Checkpoint[S]) error {
	state, err := json.Marshal(cp.State)
	if err != nil {
		return fmt.Errorf("encode checkpoint state %s: %w", cp.Thread, err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO checkpoints (thread_id, next_node, step, state, saved_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (thread_id) DO UPDATE SET next_node = $2, step = $3, state = $4, saved_at = $5`,
		cp.Thread, cp.Next, cp.Step, state, cp.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.Thread, err)
	}
	return nil
}

// Get reads the thread's checkpoint, or graph.ErrNotFound.
func (p *PostgresSaver[S]) Get(ctx context.Context, threadID string) (graph.Checkpoint[S], error) {
	cp := graph.Checkpoint[S]{Thread: threadID}
	var state []byte

	err := p.pool.QueryRow(ctx,
		`SELECT next_node, step, state, saved_at FROM checkpoints WHERE thread_id = $1`,
		threadID,
	).Scan(&cp.Next, &cp.Step, &state, &cp.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return graph.Checkpoint[S]{}, graph.ErrNotFound
		}
		return graph.Checkpoint[S]{}, fmt.Errorf("load checkpoint %s: %w", threadID, err)
	}

	if err := json.Unmarshal(state, &cp.State); err != nil {
		return graph.Checkpoint[S]{}, fmt.Errorf("decode checkpoint state %s: %w", threadID, err)
	}
	return cp, nil
}

// Delete removes the thread's row. Deleting a missing thread is not an
// error.
func (p *PostgresSaver[S]) Delete(ctx context.Context, threadID string) error {
	if _, err := p.pool.Exec(ctx,
		`DELETE FROM checkpoints WHERE thread_id = $1`, threadID,
	); err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", threadID, err)
	}
	return nil
}

// List returns the thread IDs with stored checkpoints, sorted.
func (p *PostgresSaver[S]) List(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT thread_id FROM checkpoints ORDER BY thread_id`)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan thread id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the connection pool.
func (p *PostgresSaver[S]) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Package history is an optional Postgres audit log of tool
// invocations. The core never touches it; the server middleware
// records one row per call when a store is configured.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects and runs the migration.
func Open(ctx context.Context, dbURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("history: connect: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	sql := `
CREATE TABLE IF NOT EXISTS tool_invocations (
  id UUID PRIMARY KEY,
  session_id TEXT,
  tool_name TEXT NOT NULL,
  args JSONB,
  result_bytes INT NOT NULL DEFAULT 0,
  duration_ms INT NOT NULL DEFAULT 0,
  error TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tool_invocations_created ON tool_invocations(created_at);
`
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	return nil
}

// Invocation is one recorded tool call.
type Invocation struct {
	SessionID   string
	ToolName    string
	Args        any
	ResultBytes int
	Duration    time.Duration
	Err         string
}

// Save inserts one invocation row. Marshal failures on Args are
// tolerated; the row is written with null args.
func (s *Store) Save(ctx context.Context, inv Invocation) error {
	id := uuid.New()
	var argsJSON []byte
	if inv.Args != nil {
		argsJSON, _ = json.Marshal(inv.Args)
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO tool_invocations(id, session_id, tool_name, args, result_bytes, duration_ms, error)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, inv.SessionID, inv.ToolName, argsJSON, inv.ResultBytes, inv.Duration.Milliseconds(), inv.Err)
	if err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	return nil
}

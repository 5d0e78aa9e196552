package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"token-rewards-dashboard/internal/model"
)

// PostgresPersister stores the dashboard state as a single JSONB row.
// The state is small (one device's accounts and catalog) and every mutation
// rewrites it whole, mirroring the Store's load/save contract.
type PostgresPersister struct {
	pool *pgxpool.Pool
}

// NewPostgresPersister creates a new PostgresPersister instance.
func NewPostgresPersister(pool *pgxpool.Pool) *PostgresPersister {
	return &PostgresPersister{pool: pool}
}

// EnsureSchema creates the state table if it does not exist.
func (p *PostgresPersister) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_state (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			state JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create dashboard_state table: %w", err)
	}
	return nil
}

// Load reads and decodes the state row.
// Returns ErrStateNotFound if nothing has been saved yet.
func (p *PostgresPersister) Load(ctx context.Context) (*model.State, error) {
	const query = `SELECT state FROM dashboard_state WHERE id = 1`

	var raw []byte
	err := p.pool.QueryRow(ctx, query).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	var state model.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	if state.Accounts == nil {
		state.Accounts = make(map[string]*model.Account)
	}

	return &state, nil
}

// Save encodes and upserts the state row.
func (p *PostgresPersister) Save(ctx context.Context, state *model.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	const query = `
		INSERT INTO dashboard_state (id, state, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`
	if _, err := p.pool.Exec(ctx, query, raw); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

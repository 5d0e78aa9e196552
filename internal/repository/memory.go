package repository

import (
	"context"
	"sync"

	"token-rewards-dashboard/internal/model"
)

// MemoryPersister keeps the state in process memory. It backs tests and
// ephemeral runs without a database.
type MemoryPersister struct {
	mu    sync.Mutex
	state *model.State
}

// NewMemoryPersister creates an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Load returns a deep copy of the persisted state, or ErrStateNotFound if
// nothing has been saved yet.
func (p *MemoryPersister) Load(_ context.Context) (*model.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == nil {
		return nil, ErrStateNotFound
	}
	return p.state.Clone(), nil
}

// Save stores a deep copy of the state.
func (p *MemoryPersister) Save(_ context.Context, state *model.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = state.Clone()
	return nil
}

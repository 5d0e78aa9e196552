package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
)

// Store is the single owner of the dashboard state. Reads hand out deep
// copies; every mutation runs through Update against the latest state under
// one mutex, then persists. A failed mutation or a failed save restores the
// pre-mutation snapshot so actions are all-or-nothing.
type Store struct {
	mu        sync.Mutex
	persister Persister
	state     *model.State
}

// NewStore loads the persisted state, seeding a fresh state with the
// default task catalog when nothing has been saved yet.
func NewStore(ctx context.Context, persister Persister, defaultTasks []*model.Task) (*Store, error) {
	state, err := persister.Load(ctx)
	if err != nil {
		if err != ErrStateNotFound {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
		state = model.NewState()
		for _, task := range defaultTasks {
			state.Tasks = append(state.Tasks, task.Clone())
		}
		if err := persister.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to save initial state: %w", err)
		}
		log.Info().Int("tasks", len(state.Tasks)).Msg("Initialized fresh dashboard state")
	}

	return &Store{persister: persister, state: state}, nil
}

// Update applies fn to the latest state and persists the result.
// If fn returns an error nothing is saved; if saving fails the in-memory
// state is rolled back to the snapshot taken before fn ran.
func (s *Store) Update(ctx context.Context, fn func(*model.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.Clone()
	if err := fn(s.state); err != nil {
		s.state = snapshot
		return err
	}
	if err := s.persister.Save(ctx, s.state); err != nil {
		s.state = snapshot
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// Account returns a copy of the account with the given uid.
func (s *Store) Account(uid string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.state.Accounts[uid]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// Accounts returns copies of all accounts.
func (s *Store) Accounts() []*model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Account, 0, len(s.state.Accounts))
	for _, acct := range s.state.Accounts {
		out = append(out, acct.Clone())
	}
	return out
}

// BoundUID returns the device-bound account id, or empty when unbound.
func (s *Store) BoundUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.BoundUID
}

// Tasks returns copies of the task catalog in order.
func (s *Store) Tasks() []*model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Task, len(s.state.Tasks))
	for i, task := range s.state.Tasks {
		out[i] = task.Clone()
	}
	return out
}

// Task returns a copy of the task with the given id.
func (s *Store) Task(taskID string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range s.state.Tasks {
		if task.ID == taskID {
			return task.Clone(), nil
		}
	}
	return nil, ErrTaskNotFound
}

// PendingTransactions returns copies of every pending transaction across
// all accounts, for the admin review view. Each copy carries its owning uid.
func (s *Store) PendingTransactions() []*model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.Transaction
	for uid, acct := range s.state.Accounts {
		for _, tx := range acct.Transactions {
			if tx.Status != model.TxStatusPending {
				continue
			}
			cp := *tx
			cp.UID = uid
			out = append(out, &cp)
		}
	}
	return out
}

// Settings returns the current site settings.
func (s *Store) Settings() model.SiteSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

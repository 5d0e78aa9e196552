// Package repository provides persistence for the dashboard state.
//
// The whole state is loaded and saved as one unit through the Persister
// interface; the Store serializes every mutation as a read-modify-write of
// the latest state so a scheduler tick racing a user action can never lose
// an update.
package repository

import (
	"context"
	"errors"

	"token-rewards-dashboard/internal/model"
)

// Common errors for persistence operations.
var (
	// ErrStateNotFound is returned by Load when nothing has been persisted yet.
	ErrStateNotFound = errors.New("state not found")

	// ErrAccountNotFound is returned when an account id is unknown.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTaskNotFound is returned when a task id is unknown.
	ErrTaskNotFound = errors.New("task not found")
)

// Persister loads and saves the full dashboard state.
type Persister interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, state *model.State) error
}

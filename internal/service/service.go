// Package service implements the reward engine: the state transitions for
// account lifecycle, staking, admin approval, task claims, referral
// milestones and periodic payouts. Services are the only writers of the
// account store; callers get copies back for rendering.
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"token-rewards-dashboard/internal/model"
)

// Errors shared across services.
var (
	// ErrNotAdmin is returned when a non-admin session invokes an admin
	// operation.
	ErrNotAdmin = errors.New("operation requires an admin session")
)

// newTransaction builds a ledger entry with a fresh id.
func newTransaction(uid, txType string, amount float64, description, status string, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:          uuid.NewString(),
		UID:         uid,
		Type:        txType,
		Amount:      amount,
		Date:        date,
		Description: description,
		Status:      status,
	}
}

// requireAdmin verifies that uid names an admin account in the state.
func requireAdmin(st *model.State, uid string) error {
	acct, ok := st.Accounts[uid]
	if !ok || !acct.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}

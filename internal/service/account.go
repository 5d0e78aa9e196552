package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

// Common errors for account operations.
var (
	ErrEmptyUID    = errors.New("account id must not be empty")
	ErrDeviceBound = errors.New("device is already bound to another account")
)

// AdminChecker decides whether an identifier carries the admin role.
// The role is resolved once, at account creation, and stored on the record.
type AdminChecker interface {
	IsAdmin(uid string) bool
}

// AccountService handles login, logout and the device binding rule.
type AccountService struct {
	store       *repository.Store
	locks       *lock.AccountLock
	admins      AdminChecker
	signupBonus float64

	mu        sync.Mutex
	activeUID string

	now func() time.Time
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(store *repository.Store, locks *lock.AccountLock, admins AdminChecker, signupBonus float64) *AccountService {
	return &AccountService{
		store:       store,
		locks:       locks,
		admins:      admins,
		signupBonus: signupBonus,
		now:         time.Now,
	}
}

// Login loads an existing account or creates a new one, and makes it the
// active session. A new account receives the signup bonus as a completed
// login_bonus transaction and captures referrerID once, at creation only.
//
// One non-admin account may be bound to the device at a time; logging in as
// a second non-admin identifier fails with ErrDeviceBound and changes
// nothing. Admin identifiers bypass the binding.
//
// Returns the account and whether it was newly created.
func (s *AccountService) Login(ctx context.Context, uid, referrerID string) (*model.Account, bool, error) {
	if uid == "" {
		return nil, false, ErrEmptyUID
	}

	isAdmin := s.admins.IsAdmin(uid)
	created := false

	err := s.locks.WithLock(uid, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			if !isAdmin && st.BoundUID != "" && st.BoundUID != uid {
				return ErrDeviceBound
			}

			if _, ok := st.Accounts[uid]; ok {
				// Existing account: no new bonus, referrer never overwritten.
				return nil
			}

			now := s.now()
			acct := &model.Account{
				UID:               uid,
				IsAdmin:           isAdmin,
				TokenBalance:      s.signupBonus,
				TasksCompleted:    make(map[string]time.Time),
				ClaimedMilestones: make(map[string]bool),
				LastPayoutTime:    now,
				CreatedAt:         now,
			}
			if referrerID != "" && referrerID != uid {
				acct.ReferrerID = referrerID
			}
			acct.AppendTransaction(newTransaction(
				uid, model.TxTypeLoginBonus, s.signupBonus,
				"Welcome bonus for signing up", model.TxStatusCompleted, now,
			))
			st.Accounts[uid] = acct
			if !isAdmin {
				st.BoundUID = uid
			}
			created = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.activeUID = uid
	s.mu.Unlock()

	acct, err := s.store.Account(uid)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load account after login: %w", err)
	}

	if created {
		log.Info().Str("uid", uid).Bool("admin", isAdmin).Msg("Account created")
	}
	return acct, created, nil
}

// Logout clears the active session pointer. Account data is untouched and
// the device binding remains.
func (s *AccountService) Logout() {
	s.mu.Lock()
	s.activeUID = ""
	s.mu.Unlock()
}

// ActiveUID returns the account id of the active session, or empty.
func (s *AccountService) ActiveUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeUID
}

// Account returns a copy of the account with the given uid.
func (s *AccountService) Account(uid string) (*model.Account, error) {
	return s.store.Account(uid)
}

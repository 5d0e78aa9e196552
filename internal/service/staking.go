package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

// Common errors for staking operations.
var (
	ErrMissingOrderID     = errors.New("order id is required")
	ErrMaxStakesReached   = errors.New("maximum stake count reached")
	ErrInsufficientFunds  = errors.New("insufficient token balance")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrWithdrawalsOff     = errors.New("withdrawals are currently disabled")
	ErrBelowMinWithdrawal = errors.New("amount is below the minimum withdrawal")
)

// StakingService handles stake and withdrawal requests. Both debit the
// liquid balance immediately and append a pending transaction; the funds sit
// in escrow until an admin approves or rejects.
type StakingService struct {
	store         *repository.Store
	locks         *lock.AccountLock
	stakeAmount   float64
	maxStakeCount int
	minWithdrawal float64

	now func() time.Time
}

// NewStakingService creates a new StakingService instance.
func NewStakingService(store *repository.Store, locks *lock.AccountLock, stakeAmount float64, maxStakeCount int, minWithdrawal float64) *StakingService {
	return &StakingService{
		store:         store,
		locks:         locks,
		stakeAmount:   stakeAmount,
		maxStakeCount: maxStakeCount,
		minWithdrawal: minWithdrawal,
		now:           time.Now,
	}
}

// Stake places a stake request for the fixed per-stake amount. The balance
// is debited now; StakedBalance and StakeCount move only on admin approval.
func (s *StakingService) Stake(ctx context.Context, uid, orderID string) error {
	if orderID == "" {
		return ErrMissingOrderID
	}

	return s.locks.WithLock(uid, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			acct, ok := st.Accounts[uid]
			if !ok {
				return repository.ErrAccountNotFound
			}
			// Pending requests count against the limit, so queued stakes
			// can never push StakeCount past the maximum at approval time.
			if acct.StakeCount+pendingStakeCount(acct) >= s.maxStakeCount {
				return ErrMaxStakesReached
			}
			if acct.TokenBalance < s.stakeAmount {
				return ErrInsufficientFunds
			}

			acct.TokenBalance -= s.stakeAmount
			seq := stakeRequestCount(acct) + 1
			desc := fmt.Sprintf("Stake #%d request with Order ID: %s", seq, orderID)
			acct.AppendTransaction(newTransaction(
				uid, model.TxTypeStake, s.stakeAmount, desc, model.TxStatusPending, s.now(),
			))

			log.Info().Str("uid", uid).Int("stake_seq", seq).Msg("Stake requested")
			return nil
		})
	})
}

// Withdraw places a withdrawal request. Fails when withdrawals are globally
// disabled, the amount is below the minimum, or the balance is short.
func (s *StakingService) Withdraw(ctx context.Context, uid string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.locks.WithLock(uid, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			if !st.Settings.WithdrawalsEnabled {
				return ErrWithdrawalsOff
			}
			if amount < s.minWithdrawal {
				return ErrBelowMinWithdrawal
			}

			acct, ok := st.Accounts[uid]
			if !ok {
				return repository.ErrAccountNotFound
			}
			if acct.TokenBalance < amount {
				return ErrInsufficientFunds
			}

			acct.TokenBalance -= amount
			acct.AppendTransaction(newTransaction(
				uid, model.TxTypeWithdraw, amount, "Withdrawal request", model.TxStatusPending, s.now(),
			))

			log.Info().Str("uid", uid).Float64("amount", amount).Msg("Withdrawal requested")
			return nil
		})
	})
}

// pendingStakeCount counts stake requests still awaiting a decision.
func pendingStakeCount(acct *model.Account) int {
	n := 0
	for _, tx := range acct.Transactions {
		if tx.Type == model.TxTypeStake && tx.Status == model.TxStatusPending {
			n++
		}
	}
	return n
}

// stakeRequestCount counts stake requests ever made, any status.
func stakeRequestCount(acct *model.Account) int {
	n := 0
	for _, tx := range acct.Transactions {
		if tx.Type == model.TxTypeStake {
			n++
		}
	}
	return n
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

// ErrTransactionNotFound is returned when a transaction id is unknown on
// the target account.
var ErrTransactionNotFound = errors.New("transaction not found")

// ApprovalService is the admin decision state machine for pending
// transactions: pending -> approved or pending -> rejected, one-way.
// Acting on a transaction that is no longer pending is a silent no-op, so a
// double-submitted decision cannot corrupt the ledger.
type ApprovalService struct {
	store         *repository.Store
	locks         *lock.AccountLock
	referralBonus float64

	now func() time.Time
}

// NewApprovalService creates a new ApprovalService instance.
func NewApprovalService(store *repository.Store, locks *lock.AccountLock, referralBonus float64) *ApprovalService {
	return &ApprovalService{
		store:         store,
		locks:         locks,
		referralBonus: referralBonus,
		now:           time.Now,
	}
}

// PendingTransactions returns every pending transaction across accounts for
// the admin review view.
func (s *ApprovalService) PendingTransactions(adminUID string) ([]*model.Transaction, error) {
	acct, err := s.store.Account(adminUID)
	if err != nil || !acct.IsAdmin {
		return nil, ErrNotAdmin
	}
	return s.store.PendingTransactions(), nil
}

// Approve applies the admin approval to a pending transaction on the target
// account.
//
// For a stake: credits StakedBalance, increments StakeCount and resets the
// payout clock. If this is the account's first approved stake and a referrer
// was captured at signup, the referrer is credited the referral bonus and
// the referee appended to their referral list in the same state write.
// For a withdrawal: the funds were debited at request time, approval only
// finalizes. For a task submission: credits the task reward.
func (s *ApprovalService) Approve(ctx context.Context, adminUID, targetUID, txID string) error {
	return s.locks.WithLock(targetUID, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			if err := requireAdmin(st, adminUID); err != nil {
				return err
			}
			target, ok := st.Accounts[targetUID]
			if !ok {
				return repository.ErrAccountNotFound
			}
			tx := target.FindTransaction(txID)
			if tx == nil {
				return ErrTransactionNotFound
			}
			if tx.Status != model.TxStatusPending {
				log.Debug().Str("tx", txID).Str("status", tx.Status).Msg("Approve on non-pending transaction ignored")
				return nil
			}

			switch tx.Type {
			case model.TxTypeStake:
				firstStake := !target.HasApprovedStake()
				target.StakedBalance += tx.Amount
				target.StakeCount++
				target.LastPayoutTime = s.now()
				if firstStake && target.ReferrerID != "" {
					s.creditReferrer(st, target.ReferrerID, targetUID)
				}
			case model.TxTypeWithdraw:
				// Debited at request time; nothing further to move.
			case model.TxTypeTaskSubmission:
				target.TokenBalance += tx.Amount
			}

			tx.Status = model.TxStatusApproved
			tx.Description = rewriteDecision(tx.Description, "approved")

			log.Info().Str("admin", adminUID).Str("uid", targetUID).
				Str("tx", txID).Str("type", tx.Type).Msg("Transaction approved")
			return nil
		})
	})
}

// Reject applies the admin rejection to a pending transaction. Stake and
// withdrawal rejections refund the escrowed debit; a task submission had
// nothing debited, so nothing moves.
func (s *ApprovalService) Reject(ctx context.Context, adminUID, targetUID, txID string) error {
	return s.locks.WithLock(targetUID, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			if err := requireAdmin(st, adminUID); err != nil {
				return err
			}
			target, ok := st.Accounts[targetUID]
			if !ok {
				return repository.ErrAccountNotFound
			}
			tx := target.FindTransaction(txID)
			if tx == nil {
				return ErrTransactionNotFound
			}
			if tx.Status != model.TxStatusPending {
				log.Debug().Str("tx", txID).Str("status", tx.Status).Msg("Reject on non-pending transaction ignored")
				return nil
			}

			switch tx.Type {
			case model.TxTypeStake, model.TxTypeWithdraw:
				target.TokenBalance += tx.Amount
			}

			tx.Status = model.TxStatusRejected
			tx.Description = rewriteDecision(tx.Description, "rejected")

			log.Info().Str("admin", adminUID).Str("uid", targetUID).
				Str("tx", txID).Str("type", tx.Type).Msg("Transaction rejected")
			return nil
		})
	})
}

// creditReferrer pays the one-time referral bonus for a referee's first
// approved stake. Both records live in the same state, so the write out of
// the enclosing Update commits them together.
func (s *ApprovalService) creditReferrer(st *model.State, referrerUID, refereeUID string) {
	referrer, ok := st.Accounts[referrerUID]
	if !ok {
		log.Warn().Str("referrer", referrerUID).Str("referee", refereeUID).Msg("Referrer account missing, bonus skipped")
		return
	}
	referrer.TokenBalance += s.referralBonus
	referrer.Referrals = append(referrer.Referrals, refereeUID)
	referrer.AppendTransaction(newTransaction(
		referrerUID, model.TxTypeReferralBonus, s.referralBonus,
		fmt.Sprintf("Referral bonus: %s made their first stake", refereeUID),
		model.TxStatusCompleted, s.now(),
	))
}

// rewriteDecision reflects the admin decision in the description.
func rewriteDecision(description, decision string) string {
	if strings.Contains(description, "request") {
		return strings.Replace(description, "request", decision, 1)
	}
	return description + " (" + decision + ")"
}

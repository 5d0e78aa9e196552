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

// Common errors for referral milestone operations.
var (
	ErrMilestoneNotFound       = errors.New("milestone not found")
	ErrMilestoneNotReached     = errors.New("referral count below milestone threshold")
	ErrMilestoneAlreadyClaimed = errors.New("milestone already claimed")
)

// ReferralService handles one-time referral milestone claims against the
// configured threshold table.
type ReferralService struct {
	store      *repository.Store
	locks      *lock.AccountLock
	milestones []model.ReferralMilestone

	now func() time.Time
}

// NewReferralService creates a new ReferralService instance.
func NewReferralService(store *repository.Store, locks *lock.AccountLock, milestones []model.ReferralMilestone) *ReferralService {
	return &ReferralService{
		store:      store,
		locks:      locks,
		milestones: milestones,
		now:        time.Now,
	}
}

// Milestones returns the milestone table.
func (s *ReferralService) Milestones() []model.ReferralMilestone {
	out := make([]model.ReferralMilestone, len(s.milestones))
	copy(out, s.milestones)
	return out
}

// ClaimMilestone credits the milestone reward once the account's referral
// count meets the threshold. Each milestone is claimable once per account.
func (s *ReferralService) ClaimMilestone(ctx context.Context, uid, milestoneID string) error {
	var milestone *model.ReferralMilestone
	for i := range s.milestones {
		if s.milestones[i].ID == milestoneID {
			milestone = &s.milestones[i]
			break
		}
	}
	if milestone == nil {
		return ErrMilestoneNotFound
	}

	return s.locks.WithLock(uid, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			acct, ok := st.Accounts[uid]
			if !ok {
				return repository.ErrAccountNotFound
			}
			if acct.ClaimedMilestones[milestone.ID] {
				return ErrMilestoneAlreadyClaimed
			}
			if len(acct.Referrals) < milestone.Threshold {
				return ErrMilestoneNotReached
			}

			acct.TokenBalance += milestone.Reward
			acct.ClaimedMilestones[milestone.ID] = true
			acct.AppendTransaction(newTransaction(
				uid, model.TxTypeReferralMilestone, milestone.Reward,
				fmt.Sprintf("Milestone reward for %d referrals", milestone.Threshold),
				model.TxStatusCompleted, s.now(),
			))

			log.Info().Str("uid", uid).Str("milestone", milestone.ID).Msg("Referral milestone claimed")
			return nil
		})
	})
}

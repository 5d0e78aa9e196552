package service

import (
	"token-rewards-dashboard/internal/config"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

// Engine bundles the full in-process operation set. Presentation
// collaborators call these services and render the records they get back;
// they never mutate state directly.
type Engine struct {
	Accounts  *AccountService
	Staking   *StakingService
	Approvals *ApprovalService
	Tasks     *TaskService
	Referrals *ReferralService
	Payouts   *PayoutService
	Ranking   *RankingService
	Settings  *SettingsService
}

// NewEngine wires every service onto one store and one lock set.
func NewEngine(store *repository.Store, locks *lock.AccountLock, cfg *config.Config) *Engine {
	return &Engine{
		Accounts:  NewAccountService(store, locks, cfg, cfg.Rewards.SignupBonus),
		Staking:   NewStakingService(store, locks, cfg.Rewards.StakeAmount, cfg.Rewards.MaxStakeCount, cfg.Rewards.MinWithdrawal),
		Approvals: NewApprovalService(store, locks, cfg.Rewards.ReferralBonus),
		Tasks:     NewTaskService(store, locks),
		Referrals: NewReferralService(store, locks, cfg.MilestoneTable()),
		Payouts:   NewPayoutService(store, locks, cfg.Rewards.PerStakeRate, cfg.Rewards.PayoutInterval),
		Ranking:   NewRankingService(store, cfg.Rewards.LeaderboardSize),
		Settings:  NewSettingsService(store),
	}
}

// Package model defines the data models for the token rewards dashboard.
package model

import "time"

// Account represents a user account in the rewards system.
// TokenBalance and StakedBalance are never negative: stake and withdrawal
// requests debit TokenBalance immediately and hold the funds in escrow until
// an admin decision.
type Account struct {
	UID               string               `json:"uid"`
	IsAdmin           bool                 `json:"is_admin"`
	TokenBalance      float64              `json:"token_balance"`
	StakedBalance     float64              `json:"staked_balance"`
	StakeCount        int                  `json:"stake_count"`
	TasksCompleted    map[string]time.Time `json:"tasks_completed"`
	ClaimedMilestones map[string]bool      `json:"claimed_milestones"`
	Referrals         []string             `json:"referrals"`
	ReferrerID        string               `json:"referrer_id,omitempty"`
	LastPayoutTime    time.Time            `json:"last_payout_time"`
	Transactions      []*Transaction       `json:"transactions"`
	CreatedAt         time.Time            `json:"created_at"`
}

// Transaction represents one balance-affecting ledger entry.
// The ledger is append-only and ordered newest first.
type Transaction struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	TaskID      string    `json:"task_id,omitempty"`
}

// Task represents a reward-granting action in the catalog.
// Claim policy is carried entirely by these fields; nothing in the engine
// dispatches on task ids.
type Task struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Reward           float64       `json:"reward"`
	Cooldown         time.Duration `json:"cooldown"`
	OneTime          bool          `json:"one_time"`
	RequiresApproval bool          `json:"requires_approval"`
	RequiresStake    bool          `json:"requires_stake"`
	URL              string        `json:"url,omitempty"`
	HTMLContent      string        `json:"html_content,omitempty"`
	Icon             string        `json:"icon,omitempty"`
}

// ReferralMilestone is a one-time reward for reaching a referral count.
type ReferralMilestone struct {
	ID        string  `json:"id"`
	Threshold int     `json:"threshold"`
	Reward    float64 `json:"reward"`
}

// SiteSettings holds the admin-editable appearance and policy toggles.
type SiteSettings struct {
	IconURL            string `json:"icon_url"`
	BackgroundURL      string `json:"background_url"`
	AdminNotes         string `json:"admin_notes"`
	WithdrawalsEnabled bool   `json:"withdrawals_enabled"`
}

// State is the full persisted dashboard state: the device binding, every
// account, the shared task catalog and site settings.
type State struct {
	BoundUID string              `json:"bound_uid"`
	Accounts map[string]*Account `json:"accounts"`
	Tasks    []*Task             `json:"tasks"`
	Settings SiteSettings        `json:"settings"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeStake             = "stake"              // Stake request, pending admin approval
	TxTypeWithdraw          = "withdraw"           // Withdrawal request, pending admin approval
	TxTypeTask              = "task"               // Immediate task reward
	TxTypeTaskSubmission    = "task_submission"    // Task claim awaiting admin review
	TxTypeLoginBonus        = "login_bonus"        // Signup bonus on account creation
	TxTypeEarning           = "earning"            // Periodic staking payout
	TxTypeReferralBonus     = "referral_bonus"     // Bonus for a referred user's first stake
	TxTypeReferralMilestone = "referral_milestone" // One-time referral count reward
)

// Transaction statuses. Pending is the only non-terminal status and
// transitions are one-way.
const (
	TxStatusPending   = "pending"
	TxStatusApproved  = "approved"
	TxStatusRejected  = "rejected"
	TxStatusCompleted = "completed"
)

// IsTerminal reports whether a transaction status admits no further
// transitions.
func IsTerminal(status string) bool {
	return status == TxStatusApproved || status == TxStatusRejected || status == TxStatusCompleted
}

// FindTransaction returns the account's transaction with the given id, or nil.
func (a *Account) FindTransaction(txID string) *Transaction {
	for _, tx := range a.Transactions {
		if tx.ID == txID {
			return tx
		}
	}
	return nil
}

// AppendTransaction prepends tx to the account ledger (newest first).
func (a *Account) AppendTransaction(tx *Transaction) {
	a.Transactions = append([]*Transaction{tx}, a.Transactions...)
}

// HasApprovedStake reports whether the account has at least one approved
// stake. Used to detect the first approved stake for referral crediting.
func (a *Account) HasApprovedStake() bool {
	for _, tx := range a.Transactions {
		if tx.Type == TxTypeStake && tx.Status == TxStatusApproved {
			return true
		}
	}
	return false
}

// TotalHoldings returns liquid plus staked balance, used for ranking.
func (a *Account) TotalHoldings() float64 {
	return a.TokenBalance + a.StakedBalance
}

// Clone returns a deep copy of the account. The store hands out clones so
// callers can never mutate owned records.
func (a *Account) Clone() *Account {
	cp := *a
	cp.TasksCompleted = make(map[string]time.Time, len(a.TasksCompleted))
	for k, v := range a.TasksCompleted {
		cp.TasksCompleted[k] = v
	}
	cp.ClaimedMilestones = make(map[string]bool, len(a.ClaimedMilestones))
	for k, v := range a.ClaimedMilestones {
		cp.ClaimedMilestones[k] = v
	}
	cp.Referrals = append([]string(nil), a.Referrals...)
	cp.Transactions = make([]*Transaction, len(a.Transactions))
	for i, tx := range a.Transactions {
		txCopy := *tx
		cp.Transactions[i] = &txCopy
	}
	return &cp
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	cp := *t
	return &cp
}

// Clone returns a deep copy of the whole state.
func (s *State) Clone() *State {
	cp := &State{
		BoundUID: s.BoundUID,
		Accounts: make(map[string]*Account, len(s.Accounts)),
		Tasks:    make([]*Task, len(s.Tasks)),
		Settings: s.Settings,
	}
	for uid, acct := range s.Accounts {
		cp.Accounts[uid] = acct.Clone()
	}
	for i, task := range s.Tasks {
		cp.Tasks[i] = task.Clone()
	}
	return cp
}

// NewState returns an empty state with withdrawals enabled.
func NewState() *State {
	return &State{
		Accounts: make(map[string]*Account),
		Settings: SiteSettings{WithdrawalsEnabled: true},
	}
}

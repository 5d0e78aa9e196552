package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"token-rewards-dashboard/internal/catalog"
	"token-rewards-dashboard/internal/config"
	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

const adminUID = "admin_1"

// testClock is a controllable time source shared by all services in a test.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Admin: config.AdminConfig{IDs: []string{adminUID}},
		Rewards: config.RewardsConfig{
			SignupBonus:     1000,
			StakeAmount:     1000,
			MaxStakeCount:   10,
			MinWithdrawal:   100000,
			ReferralBonus:   100,
			PerStakeRate:    0.05625,
			PayoutInterval:  time.Hour,
			LeaderboardSize: 10,
		},
		Milestones: []config.MilestoneConfig{
			{ID: "bronze", Threshold: 2, Reward: 500},
			{ID: "silver", Threshold: 5, Reward: 1500},
		},
	}
}

// newTestEngine builds an engine over a memory persister with a fixed clock.
func newTestEngine(t *testing.T) (*Engine, *repository.Store, *testClock) {
	t.Helper()

	store, err := repository.NewStore(context.Background(), repository.NewMemoryPersister(), catalog.DefaultTasks())
	require.NoError(t, err)

	eng := NewEngine(store, lock.NewAccountLock(), testConfig())

	clock := newTestClock()
	eng.Accounts.now = clock.Now
	eng.Staking.now = clock.Now
	eng.Approvals.now = clock.Now
	eng.Tasks.now = clock.Now
	eng.Referrals.now = clock.Now
	eng.Payouts.now = clock.Now

	return eng, store, clock
}

// createAccount logs uid in, then clears the device binding to simulate a
// separate device so later logins of other users are possible in one test.
func createAccount(t *testing.T, eng *Engine, store *repository.Store, uid, referrerID string) *model.Account {
	t.Helper()

	ctx := context.Background()
	acct, created, err := eng.Accounts.Login(ctx, uid, referrerID)
	require.NoError(t, err)
	require.True(t, created)

	err = store.Update(ctx, func(st *model.State) error {
		st.BoundUID = ""
		return nil
	})
	require.NoError(t, err)

	return acct
}

// mustAccount reloads an account from the store.
func mustAccount(t *testing.T, store *repository.Store, uid string) *model.Account {
	t.Helper()
	acct, err := store.Account(uid)
	require.NoError(t, err)
	return acct
}

// pendingTx returns uid's newest transaction and asserts it is pending with
// the given type.
func pendingTx(t *testing.T, store *repository.Store, uid, txType string) *model.Transaction {
	t.Helper()
	acct := mustAccount(t, store, uid)
	require.NotEmpty(t, acct.Transactions)
	tx := acct.Transactions[0]
	require.Equal(t, txType, tx.Type)
	require.Equal(t, model.TxStatusPending, tx.Status)
	return tx
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-rewards-dashboard/internal/model"
)

// seedReferrals fills the referral list directly; the full referral flow is
// covered by the approval tests.
func seedReferrals(t *testing.T, eng *Engine, uid string, n int) {
	t.Helper()
	ctx := context.Background()
	err := eng.Accounts.store.Update(ctx, func(st *model.State) error {
		acct := st.Accounts[uid]
		for i := 0; i < n; i++ {
			acct.Referrals = append(acct.Referrals, "friend")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestClaimMilestoneAtThreshold(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "carol", "")
	seedReferrals(t, eng, "carol", 2)

	require.NoError(t, eng.Referrals.ClaimMilestone(ctx, "carol", "bronze"))

	carol := mustAccount(t, store, "carol")
	assert.Equal(t, 1500.0, carol.TokenBalance)
	assert.True(t, carol.ClaimedMilestones["bronze"])
	assert.Equal(t, model.TxTypeReferralMilestone, carol.Transactions[0].Type)
	assert.Equal(t, model.TxStatusCompleted, carol.Transactions[0].Status)
}

func TestClaimMilestoneBelowThreshold(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "carol", "")
	seedReferrals(t, eng, "carol", 1)

	err := eng.Referrals.ClaimMilestone(ctx, "carol", "bronze")
	assert.ErrorIs(t, err, ErrMilestoneNotReached)

	carol := mustAccount(t, store, "carol")
	assert.Equal(t, 1000.0, carol.TokenBalance)
	assert.False(t, carol.ClaimedMilestones["bronze"])
	assert.Len(t, carol.Transactions, 1)
}

func TestClaimMilestoneTwice(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "carol", "")
	seedReferrals(t, eng, "carol", 5)

	require.NoError(t, eng.Referrals.ClaimMilestone(ctx, "carol", "bronze"))
	err := eng.Referrals.ClaimMilestone(ctx, "carol", "bronze")
	assert.ErrorIs(t, err, ErrMilestoneAlreadyClaimed)

	// Higher milestone is independently claimable.
	require.NoError(t, eng.Referrals.ClaimMilestone(ctx, "carol", "silver"))
	carol := mustAccount(t, store, "carol")
	assert.Equal(t, 3000.0, carol.TokenBalance)
}

func TestClaimUnknownMilestone(t *testing.T) {
	eng, store, _ := newTestEngine(t)

	createAccount(t, eng, store, "carol", "")

	err := eng.Referrals.ClaimMilestone(context.Background(), "carol", "platinum")
	assert.ErrorIs(t, err, ErrMilestoneNotFound)
}

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-rewards-dashboard/internal/model"
)

func TestStakeDebitsBalanceAndStaysPending(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "alice", "")

	err := eng.Staking.Stake(ctx, "alice", "ORD-1")
	require.NoError(t, err)

	acct := mustAccount(t, store, "alice")
	assert.Equal(t, 0.0, acct.TokenBalance)
	assert.Equal(t, 0.0, acct.StakedBalance)
	assert.Equal(t, 0, acct.StakeCount)

	tx := pendingTx(t, store, "alice", model.TxTypeStake)
	assert.Equal(t, 1000.0, tx.Amount)
	assert.Contains(t, tx.Description, "ORD-1")
	assert.Contains(t, tx.Description, "Stake #1")
}

func TestStakeRequiresOrderID(t *testing.T) {
	eng, store, _ := newTestEngine(t)

	createAccount(t, eng, store, "alice", "")

	err := eng.Staking.Stake(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrMissingOrderID)

	acct := mustAccount(t, store, "alice")
	assert.Equal(t, 1000.0, acct.TokenBalance)
}

func TestStakeFailsOnInsufficientBalance(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "alice", "")
	require.NoError(t, eng.Staking.Stake(ctx, "alice", "ORD-1"))

	// Balance is now zero; a second request must fail without a new entry.
	err := eng.Staking.Stake(ctx, "alice", "ORD-2")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	acct := mustAccount(t, store, "alice")
	assert.Len(t, acct.Transactions, 2) // login bonus + first stake
}

func TestStakeFailsAtMaxStakeCount(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "alice", "")

	// Fund and approve ten stakes.
	err := store.Update(ctx, func(st *model.State) error {
		st.Accounts["alice"].TokenBalance = 20000
		return nil
	})
	require.NoError(t, err)
	createAccount(t, eng, store, adminUID, "")

	for i := 0; i < 10; i++ {
		require.NoError(t, eng.Staking.Stake(ctx, "alice", fmt.Sprintf("ORD-%d", i)))
		tx := pendingTx(t, store, "alice", model.TxTypeStake)
		require.NoError(t, eng.Approvals.Approve(ctx, adminUID, "alice", tx.ID))
	}

	acct := mustAccount(t, store, "alice")
	require.Equal(t, 10, acct.StakeCount)

	err = eng.Staking.Stake(ctx, "alice", "ORD-10")
	assert.ErrorIs(t, err, ErrMaxStakesReached)
}

func TestWithdrawDebitsImmediately(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "alice", "")
	err := store.Update(ctx, func(st *model.State) error {
		st.Accounts["alice"].TokenBalance = 150000
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, eng.Staking.Withdraw(ctx, "alice", 100000))

	acct := mustAccount(t, store, "alice")
	assert.Equal(t, 50000.0, acct.TokenBalance)

	tx := pendingTx(t, store, "alice", model.TxTypeWithdraw)
	assert.Equal(t, 100000.0, tx.Amount)
}

func TestWithdrawBelowMinimum(t *testing.T) {
	eng, store, _ := newTestEngine(t)

	createAccount(t, eng, store, "alice", "")

	err := eng.Staking.Withdraw(context.Background(), "alice", 500)
	assert.ErrorIs(t, err, ErrBelowMinWithdrawal)

	acct := mustAccount(t, store, "alice")
	assert.Equal(t, 1000.0, acct.TokenBalance)
}

func TestWithdrawNonPositiveAmount(t *testing.T) {
	eng, store, _ := newTestEngine(t)

	createAccount(t, eng, store, "alice", "")

	assert.ErrorIs(t, eng.Staking.Withdraw(context.Background(), "alice", 0), ErrInvalidAmount)
	assert.ErrorIs(t, eng.Staking.Withdraw(context.Background(), "alice", -5), ErrInvalidAmount)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	eng, store, _ := newTestEngine(t)

	createAccount(t, eng, store, "alice", "")

	err := eng.Staking.Withdraw(context.Background(), "alice", 100000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestWithdrawGloballyDisabled(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "alice", "")
	createAccount(t, eng, store, adminUID, "")
	err := store.Update(ctx, func(st *model.State) error {
		st.Accounts["alice"].TokenBalance = 200000
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, eng.Settings.SetWithdrawalsEnabled(ctx, adminUID, false))

	err = eng.Staking.Withdraw(ctx, "alice", 100000)
	assert.ErrorIs(t, err, ErrWithdrawalsOff)

	require.NoError(t, eng.Settings.SetWithdrawalsEnabled(ctx, adminUID, true))
	assert.NoError(t, eng.Staking.Withdraw(ctx, "alice", 100000))
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-rewards-dashboard/internal/model"
)

func TestLeaderboardOrdersByTotalHoldings(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	err := store.Update(ctx, func(st *model.State) error {
		st.Accounts["alice"] = &model.Account{UID: "alice", TokenBalance: 500, StakedBalance: 2000}
		st.Accounts["bob"] = &model.Account{UID: "bob", TokenBalance: 3000}
		st.Accounts["carol"] = &model.Account{UID: "carol", TokenBalance: 100, Referrals: []string{"x", "y"}}
		return nil
	})
	require.NoError(t, err)

	board := eng.Ranking.Leaderboard()
	require.Len(t, board, 3)

	assert.Equal(t, "bob", board[0].UID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 3000.0, board[0].Total)

	assert.Equal(t, "alice", board[1].UID)
	assert.Equal(t, 2500.0, board[1].Total)

	assert.Equal(t, "carol", board[2].UID)
	assert.Equal(t, 2, board[2].Referrals)
}

func TestLeaderboardTruncatesToSize(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	err := store.Update(ctx, func(st *model.State) error {
		for i := 0; i < 15; i++ {
			uid := string(rune('a' + i))
			st.Accounts[uid] = &model.Account{UID: uid, TokenBalance: float64(i * 100)}
		}
		return nil
	})
	require.NoError(t, err)

	board := eng.Ranking.Leaderboard()
	assert.Len(t, board, 10)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 10, board[9].Rank)
	// Descending totals throughout.
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].Total, board[i].Total)
	}
}

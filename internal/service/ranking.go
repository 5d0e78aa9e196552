package service

import (
	"sort"

	"token-rewards-dashboard/internal/repository"
)

// LeaderboardEntry is one row of the holdings leaderboard.
type LeaderboardEntry struct {
	Rank          int
	UID           string
	TokenBalance  float64
	StakedBalance float64
	Total         float64
	Referrals     int
}

// RankingService builds the leaderboard view over all accounts.
type RankingService struct {
	store *repository.Store
	size  int
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(store *repository.Store, size int) *RankingService {
	return &RankingService{store: store, size: size}
}

// Leaderboard returns the top accounts by total holdings (liquid plus
// staked), ties broken by uid for a stable order.
func (s *RankingService) Leaderboard() []LeaderboardEntry {
	accounts := s.store.Accounts()

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for _, acct := range accounts {
		entries = append(entries, LeaderboardEntry{
			UID:           acct.UID,
			TokenBalance:  acct.TokenBalance,
			StakedBalance: acct.StakedBalance,
			Total:         acct.TotalHoldings(),
			Referrals:     len(acct.Referrals),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].UID < entries[j].UID
	})

	if s.size > 0 && len(entries) > s.size {
		entries = entries[:s.size]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

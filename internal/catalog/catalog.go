// Package catalog provides the built-in promotional task catalog.
// The catalog seeds a fresh install; admins can add, edit and delete tasks
// afterwards through the task service.
package catalog

import (
	"time"

	"token-rewards-dashboard/internal/model"
)

// DefaultTasks returns the tasks seeded into a fresh state.
// Claim behavior is fully described by the task fields: one-time flags,
// cooldowns and the stake gate, so new tasks need no engine changes.
func DefaultTasks() []*model.Task {
	return []*model.Task{
		{
			ID:      "follow_x",
			Title:   "Follow us on X (Twitter)",
			Reward:  500,
			OneTime: true,
			URL:     "https://x.com",
			Icon:    "Twitter",
		},
		{
			ID:      "join_channel",
			Title:   "Join our Telegram Channel",
			Reward:  500,
			OneTime: true,
			URL:     "https://t.me",
			Icon:    "Send",
		},
		{
			ID:            "first_stake",
			Title:         "Make your first stake",
			Reward:        1000,
			OneTime:       true,
			RequiresStake: true,
			Icon:          "Gift",
		},
		{
			ID:       "watch_ad",
			Title:    "Watch an Ad",
			Reward:   100,
			Cooldown: 5 * time.Second,
			Icon:     "Tv",
		},
	}
}

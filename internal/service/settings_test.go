package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-rewards-dashboard/internal/model"
)

func TestUpdateSettingsRequiresAdmin(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, "alice", "")

	err := eng.Settings.Update(ctx, "alice", model.SiteSettings{WithdrawalsEnabled: false})
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.True(t, eng.Settings.Settings().WithdrawalsEnabled)
}

func TestUpdateSettingsReplacesAll(t *testing.T) {
	eng, store, _ := newTestEngine(t)
	ctx := context.Background()

	createAccount(t, eng, store, adminUID, "")

	next := model.SiteSettings{
		IconURL:            "https://cdn.example.com/icon.png",
		BackgroundURL:      "https://cdn.example.com/bg.png",
		AdminNotes:         "maintenance friday",
		WithdrawalsEnabled: false,
	}
	require.NoError(t, eng.Settings.Update(ctx, adminUID, next))

	got := eng.Settings.Settings()
	assert.Equal(t, next, got)
}

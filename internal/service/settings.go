package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/repository"
)

// SettingsService manages the admin-editable site settings, including the
// global withdrawals toggle read by the staking service.
type SettingsService struct {
	store *repository.Store
}

// NewSettingsService creates a new SettingsService instance.
func NewSettingsService(store *repository.Store) *SettingsService {
	return &SettingsService{store: store}
}

// Settings returns the current site settings.
func (s *SettingsService) Settings() model.SiteSettings {
	return s.store.Settings()
}

// Update replaces the site settings. Admin only.
func (s *SettingsService) Update(ctx context.Context, adminUID string, settings model.SiteSettings) error {
	return s.store.Update(ctx, func(st *model.State) error {
		if err := requireAdmin(st, adminUID); err != nil {
			return err
		}
		st.Settings = settings
		log.Info().Str("admin", adminUID).Bool("withdrawals_enabled", settings.WithdrawalsEnabled).Msg("Site settings updated")
		return nil
	})
}

// SetWithdrawalsEnabled flips only the withdrawals toggle. Admin only.
func (s *SettingsService) SetWithdrawalsEnabled(ctx context.Context, adminUID string, enabled bool) error {
	return s.store.Update(ctx, func(st *model.State) error {
		if err := requireAdmin(st, adminUID); err != nil {
			return err
		}
		st.Settings.WithdrawalsEnabled = enabled
		return nil
	})
}

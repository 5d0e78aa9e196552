// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"token-rewards-dashboard/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Database   DatabaseConfig    `mapstructure:"database"`
	Admin      AdminConfig       `mapstructure:"admin"`
	Rewards    RewardsConfig     `mapstructure:"rewards"`
	Milestones []MilestoneConfig `mapstructure:"milestones"`
	Scheduler  SchedulerConfig   `mapstructure:"scheduler"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds the admin identifier list. Accounts created for these
// identifiers get the admin role at creation time.
type AdminConfig struct {
	IDs []string `mapstructure:"ids"`
}

// RewardsConfig holds the reward economics.
type RewardsConfig struct {
	SignupBonus     float64       `mapstructure:"signup_bonus"`
	StakeAmount     float64       `mapstructure:"stake_amount"`
	MaxStakeCount   int           `mapstructure:"max_stake_count"`
	MinWithdrawal   float64       `mapstructure:"min_withdrawal"`
	ReferralBonus   float64       `mapstructure:"referral_bonus"`
	PerStakeRate    float64       `mapstructure:"per_stake_rate"`
	PayoutInterval  time.Duration `mapstructure:"payout_interval"`
	LeaderboardSize int           `mapstructure:"leaderboard_size"`
}

// MilestoneConfig describes one referral milestone.
type MilestoneConfig struct {
	ID        string  `mapstructure:"id"`
	Threshold int     `mapstructure:"threshold"`
	Reward    float64 `mapstructure:"reward"`
}

// SchedulerConfig holds the payout scheduler configuration.
type SchedulerConfig struct {
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. DATABASE_HOST, REWARDS_SIGNUP_BONUS.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Milestones) == 0 {
		cfg.Milestones = defaultMilestones()
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rewards")
	v.SetDefault("database.name", "rewards")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Reward economics defaults
	v.SetDefault("rewards.signup_bonus", 1000)
	v.SetDefault("rewards.stake_amount", 1000)
	v.SetDefault("rewards.max_stake_count", 10)
	v.SetDefault("rewards.min_withdrawal", 100000)
	v.SetDefault("rewards.referral_bonus", 100)
	v.SetDefault("rewards.per_stake_rate", 0.05625)
	v.SetDefault("rewards.payout_interval", "1h")
	v.SetDefault("rewards.leaderboard_size", 10)

	// Scheduler defaults
	v.SetDefault("scheduler.check_interval", "60s")
}

// defaultMilestones returns the built-in referral milestone table.
func defaultMilestones() []MilestoneConfig {
	return []MilestoneConfig{
		{ID: "bronze", Threshold: 5, Reward: 500},
		{ID: "silver", Threshold: 10, Reward: 1500},
		{ID: "gold", Threshold: 25, Reward: 5000},
	}
}

// IsAdmin checks if an identifier is in the admin list.
func (c *Config) IsAdmin(uid string) bool {
	for _, id := range c.Admin.IDs {
		if id == uid {
			return true
		}
	}
	return false
}

// MilestoneTable converts the configured milestones to model records.
func (c *Config) MilestoneTable() []model.ReferralMilestone {
	out := make([]model.ReferralMilestone, len(c.Milestones))
	for i, m := range c.Milestones {
		out[i] = model.ReferralMilestone{ID: m.ID, Threshold: m.Threshold, Reward: m.Reward}
	}
	return out
}

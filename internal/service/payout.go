package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

// errNoPayoutDue aborts the store update when no whole interval has elapsed,
// so an idle settle writes nothing.
var errNoPayoutDue = errors.New("no payout due")

// ComputePayout computes the staking earnings due for the account at the
// given instant: StakedBalance * rate * StakeCount per whole interval
// elapsed since LastPayoutTime. Returns zero intervals when the account has
// nothing staked or less than one interval has passed.
func ComputePayout(acct *model.Account, rate float64, interval time.Duration, now time.Time) (earnings float64, intervals int) {
	if acct.StakedBalance <= 0 || interval <= 0 {
		return 0, 0
	}
	elapsed := now.Sub(acct.LastPayoutTime)
	intervals = int(elapsed / interval)
	if intervals <= 0 {
		return 0, 0
	}
	earnings = acct.StakedBalance * rate * float64(acct.StakeCount) * float64(intervals)
	return earnings, intervals
}

// PayoutService applies periodic staking earnings through the store.
type PayoutService struct {
	store    *repository.Store
	locks    *lock.AccountLock
	rate     float64
	interval time.Duration

	now func() time.Time
}

// NewPayoutService creates a new PayoutService instance.
func NewPayoutService(store *repository.Store, locks *lock.AccountLock, rate float64, interval time.Duration) *PayoutService {
	return &PayoutService{
		store:    store,
		locks:    locks,
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

// Settle credits any earnings due and advances LastPayoutTime by exactly the
// paid whole intervals, never to the current instant, so fractional
// intervals are carried forward instead of dropped. Idempotent: a second
// call within the same interval pays nothing.
func (s *PayoutService) Settle(ctx context.Context, uid string) (float64, error) {
	var paid float64

	err := s.locks.WithLock(uid, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			acct, ok := st.Accounts[uid]
			if !ok {
				return repository.ErrAccountNotFound
			}

			earnings, intervals := ComputePayout(acct, s.rate, s.interval, s.now())
			if intervals == 0 {
				return errNoPayoutDue
			}

			acct.TokenBalance += earnings
			acct.LastPayoutTime = acct.LastPayoutTime.Add(time.Duration(intervals) * s.interval)
			acct.AppendTransaction(newTransaction(
				uid, model.TxTypeEarning, earnings,
				fmt.Sprintf("Staking reward for %d interval(s)", intervals),
				model.TxStatusCompleted, s.now(),
			))
			paid = earnings
			return nil
		})
	})
	if errors.Is(err, errNoPayoutDue) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	log.Info().Str("uid", uid).Float64("earnings", paid).Msg("Staking payout settled")
	return paid, nil
}

// PayoutScheduler runs the periodic payout check for the active session.
// Every tick it re-reads the active account id and settles against the
// freshly loaded state; it never acts on a captured account snapshot.
type PayoutScheduler struct {
	payouts       *PayoutService
	accounts      *AccountService
	checkInterval time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewPayoutScheduler creates a new PayoutScheduler instance.
func NewPayoutScheduler(payouts *PayoutService, accounts *AccountService, checkInterval time.Duration) *PayoutScheduler {
	return &PayoutScheduler{
		payouts:       payouts,
		accounts:      accounts,
		checkInterval: checkInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the scheduler loop. It stops when ctx is cancelled or Stop
// is called.
func (s *PayoutScheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.checkInterval)
		defer ticker.Stop()

		log.Info().Dur("check_interval", s.checkInterval).Msg("Payout scheduler started")
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop halts the scheduler and waits for the loop to exit.
func (s *PayoutScheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *PayoutScheduler) tick(ctx context.Context) {
	uid := s.accounts.ActiveUID()
	if uid == "" {
		return
	}
	if _, err := s.payouts.Settle(ctx, uid); err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("Payout settle failed")
	}
}

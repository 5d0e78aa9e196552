// Package lock provides per-account locking for multi-step balance
// operations, so the payout scheduler and a user action on the same account
// are never interleaved between a read and a write.
package lock

import "sync"

// accountMutex wraps a mutex with reference counting for cleanup.
type accountMutex struct {
	mu       sync.Mutex
	refCount int
}

// AccountLock provides per-account mutexes keyed by account id.
type AccountLock struct {
	locks sync.Map // map[string]*accountMutex
	pool  sync.Pool
}

// NewAccountLock creates a new AccountLock instance.
func NewAccountLock() *AccountLock {
	return &AccountLock{
		pool: sync.Pool{
			New: func() any {
				return &accountMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given account id.
func (al *AccountLock) getLock(uid string) *accountMutex {
	if v, ok := al.locks.Load(uid); ok {
		return v.(*accountMutex)
	}

	newLock := al.pool.Get().(*accountMutex)
	newLock.refCount = 0

	actual, loaded := al.locks.LoadOrStore(uid, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		al.pool.Put(newLock)
	}
	return actual.(*accountMutex)
}

// Lock acquires the lock for an account.
func (al *AccountLock) Lock(uid string) {
	lock := al.getLock(uid)
	lock.mu.Lock()
	lock.refCount++
}

// Unlock releases the lock for an account.
func (al *AccountLock) Unlock(uid string) {
	if v, ok := al.locks.Load(uid); ok {
		lock := v.(*accountMutex)
		lock.refCount--
		lock.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (al *AccountLock) TryLock(uid string) bool {
	lock := al.getLock(uid)
	if lock.mu.TryLock() {
		lock.refCount++
		return true
	}
	return false
}

// WithLock executes fn while holding the account's lock.
func (al *AccountLock) WithLock(uid string, fn func() error) error {
	al.Lock(uid)
	defer al.Unlock(uid)
	return fn()
}

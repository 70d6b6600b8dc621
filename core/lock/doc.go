// Package lock serializes work per key across processes.
//
// Reconciliation runs for one channel manager account must not overlap. When
// redis is enabled the lock is a SET NX PX key owned by a random token and
// released only by its owner. Without redis an in-process locker gives the same
// guarantee for a single instance.
//
// # Usage
//
//	locker, err := lock.New(ctx, cfg.Redis)
//	release, err := locker.Acquire(ctx, "sync:acme", 10*time.Minute)
//	if errors.Is(err, lock.ErrLocked) {
//	    // another run owns the account
//	}
//	defer release(ctx)
package lock

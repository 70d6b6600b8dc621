// Package reconcile provides the batch machinery used to merge externally sourced
// records into the local store.
//
// It is deliberately model agnostic. Feature packages supply a Session that knows
// how to apply one record; this package owns everything around it:
//
// 1. Chain: an ordered list of named lookup strategies evaluated until one hits.
//    Identity resolution and reference code fallbacks are both expressed as chains so
//    their precedence is explicit and testable step by step.
//
// 2. RunBatch: opens one transaction per batch, hands it to a fresh Session, applies
//    every record, flushes staged writes and commits. Dry runs roll back. A unique
//    constraint race with a concurrent writer (gorm.ErrDuplicatedKey) rolls the batch
//    back and retries it with a new Session, whose lookups then see the winning rows.
//
// 3. Cache: TTL cache with stampede protection for read-mostly reference data.
//
// Sessions are single goroutine and live exactly as long as one attempt of one batch.
//
// # Usage Example
//
//	summary, err := reconcile.RunBatch(ctx, db, records, func(tx *gorm.DB) reconcile.Session[Record] {
//	    return newSession(tx)
//	}, reconcile.Options{FlushEvery: 100, MaxAttempts: 3})
package reconcile

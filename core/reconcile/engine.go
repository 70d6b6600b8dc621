package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Session applies the records of one batch attempt inside a single transaction.
type Session[T any] interface {
	// Apply merges one record. A returned error aborts the whole batch.
	Apply(ctx context.Context, record T) (ActionType, error)

	// Flush writes everything staged since the previous flush.
	Flush(ctx context.Context) error
}

// SessionFactory creates a fresh Session bound to the batch transaction.
type SessionFactory[T any] func(tx *gorm.DB) Session[T]

// RunBatch applies records in one transaction and commits once.
// The caller decides batch boundaries; the Session never commits on its own.
func RunBatch[T any](ctx context.Context, db *gorm.DB, records []T, newSession SessionFactory[T], opts Options) (*Summary, error) {
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := runOnce(ctx, db, records, newSession, opts)
		if summary != nil {
			summary.Attempts = attempt
		}
		if err == nil {
			return summary, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// A concurrent writer committed a row this batch also created.
		// The next attempt starts from a clean session and finds that row in the store.
		lastErr = err
	}

	return nil, fmt.Errorf("batch still conflicting after %d attempts: %w", attempts, lastErr)
}

func runOnce[T any](ctx context.Context, db *gorm.DB, records []T, newSession SessionFactory[T], opts Options) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Total: len(records), DryRun: opts.DryRun}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := newSession(tx)

		for i, record := range records {
			action, err := session.Apply(ctx, record)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			summary.Count(action)

			if opts.FlushEvery > 0 && (i+1)%opts.FlushEvery == 0 {
				if err := session.Flush(ctx); err != nil {
					return fmt.Errorf("flush after record %d: %w", i, err)
				}
			}
		}

		if err := session.Flush(ctx); err != nil {
			return fmt.Errorf("final flush: %w", err)
		}

		if opts.DryRun {
			return ErrDryRun
		}
		return nil
	})

	summary.Duration = time.Since(start)

	if errors.Is(err, ErrDryRun) {
		return summary, nil
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

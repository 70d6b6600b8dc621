package reconcile

import (
	"context"

	"booking-sync/core/reconcile"
	"booking-sync/feature/booking/models"
)

// Session adapts a Run to the generic batch driver.
type Session struct {
	run *Run
}

// NewSession wraps run.
func NewSession(run *Run) *Session {
	return &Session{run: run}
}

// Apply implements reconcile.Session.
func (s *Session) Apply(ctx context.Context, rec models.ExternalBookingRecord) (reconcile.ActionType, error) {
	result, err := Upsert(ctx, s.run, rec)
	if err != nil {
		return "", err
	}
	return result.Action, nil
}

// Flush implements reconcile.Session.
func (s *Session) Flush(ctx context.Context) error {
	return s.run.Flush(ctx)
}

// Run returns the wrapped run.
func (s *Session) Run() *Run {
	return s.run
}

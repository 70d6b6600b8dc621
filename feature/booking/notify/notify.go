// Package notify tells downstream consumers which reservations a run touched.
//
// The totals listener recomputes money and pax of each reservation from its
// events when it receives a ReservationSynced message.
package notify

import (
	"context"
	"time"

	"booking-sync/core/broker"
	"booking-sync/feature/booking/models"

	"go.uber.org/zap"
)

// ReservationSynced is published once per touched reservation after commit.
type ReservationSynced struct {
	ReservationID     uint      `json:"reservation_id"`
	EffectiveMasterID string    `json:"effective_master_id"`
	Account           string    `json:"account"`
	RunID             string    `json:"run_id"`
	SyncedAt          time.Time `json:"synced_at"`
}

// Notifier publishes ReservationSynced messages.
type Notifier struct {
	publisher broker.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a notifier.
func New(publisher broker.Publisher, logger *zap.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger, now: time.Now}
}

// ReservationsSynced publishes one message per reservation and returns how many
// were delivered. Failures are logged; the data is already committed.
func (n *Notifier) ReservationsSynced(ctx context.Context, account, runID string, reservations []*models.Reservation) int {
	sent := 0
	at := n.now().UTC()
	for _, res := range reservations {
		if res == nil || res.ID == 0 {
			continue
		}
		msg := ReservationSynced{
			ReservationID: res.ID,
			Account:       account,
			RunID:         runID,
			SyncedAt:      at,
		}
		if res.EffectiveMasterID != nil {
			msg.EffectiveMasterID = *res.EffectiveMasterID
		}
		if err := n.publisher.Publish(ctx, msg); err != nil {
			n.logger.Warn("Failed to publish reservation sync",
				zap.Uint("reservation_id", res.ID),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

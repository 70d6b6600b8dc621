package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booking-sync/feature/booking/models"
	"booking-sync/feature/booking/reference"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run is the reconciliation context of one batch.
type Run struct {
	ID      string
	Account models.Account

	tx     *gorm.DB
	refs   *reference.Set
	now    func() time.Time
	logger *zap.Logger

	byMaster  map[string]*models.Reservation
	byBooking map[string]*models.Reservation
	byID      map[uint]*models.Reservation
	identity  identityChain

	mappings map[mappingKey]*models.UnitMapping
	links    map[string]*models.BookingLink

	pending *pendingWrites
	touched []*models.Reservation
	seen    map[*models.Reservation]struct{}
	parked  int
}

// Option configures a Run.
type Option func(*Run)

// WithClock overrides the time source used for LastSeenAt.
func WithClock(now func() time.Time) Option {
	return func(r *Run) { r.now = now }
}

// WithLogger sets the logger for per-record diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Run) { r.logger = l }
}

// WithRunID sets the run identifier instead of a random one.
func WithRunID(id string) Option {
	return func(r *Run) { r.ID = id }
}

// NewRun creates an empty run bound to tx.
func NewRun(tx *gorm.DB, account models.Account, refs *reference.Set, opts ...Option) *Run {
	r := &Run{
		ID:        uuid.NewString(),
		Account:   account,
		tx:        tx,
		refs:      refs,
		now:       time.Now,
		logger:    zap.NewNop(),
		byMaster:  make(map[string]*models.Reservation),
		byBooking: make(map[string]*models.Reservation),
		byID:      make(map[uint]*models.Reservation),
		mappings:  make(map[mappingKey]*models.UnitMapping),
		links:     make(map[string]*models.BookingLink),
		pending:   &pendingWrites{},
		seen:      make(map[*models.Reservation]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.identity = r.newIdentityChain()
	return r
}

// Touched returns every reservation created or updated by this run, in first-touch order.
func (r *Run) Touched() []*models.Reservation {
	return r.touched
}

// Parked returns how many records were set aside.
func (r *Run) Parked() int {
	return r.parked
}

func (r *Run) touch(res *models.Reservation) {
	if _, ok := r.seen[res]; ok {
		return
	}
	r.seen[res] = struct{}{}
	r.touched = append(r.touched, res)
}

// Park stages rec for operator review.
func (r *Run) Park(rec models.ExternalBookingRecord, reason string) {
	payload, err := json.Marshal(rec)
	if err != nil {
		payload = []byte("null")
	}
	r.pending.parked = append(r.pending.parked, &models.ParkedRecord{
		AccountID:         r.Account.ID,
		RunID:             r.ID,
		ExternalBookingID: rec.ID.String(),
		Reason:            reason,
		Payload:           datatypes.JSON(payload),
	})
	r.parked++
	r.logger.Warn("Booking record parked",
		zap.String("booking_id", rec.ID.String()),
		zap.String("reason", reason))
}

// Flush writes the staged entities in dependency order: reservations, events, links.
// Foreign keys are copied from the in-memory references just before each save.
func (r *Run) Flush(ctx context.Context) error {
	tx := r.tx.WithContext(ctx)
	r.logger.Debug("Flushing staged writes", zap.Int("staged", r.pending.size()))

	for _, res := range r.pending.reservations {
		if err := tx.Omit(clause.Associations).Save(res).Error; err != nil {
			return fmt.Errorf("failed to save reservation %s: %w", deref(res.EffectiveMasterID), err)
		}
		r.byID[res.ID] = res
	}

	for _, ev := range r.pending.events {
		if ev.Reservation != nil {
			id := ev.Reservation.ID
			ev.ReservationID = &id
		}
		if err := tx.Omit(clause.Associations).Save(ev).Error; err != nil {
			return fmt.Errorf("failed to save calendar event: %w", err)
		}
	}

	saved := make(map[*models.BookingLink]bool, len(r.pending.links))
	for _, link := range r.pending.links {
		if err := saveLink(tx, link, saved); err != nil {
			return err
		}
	}

	for _, p := range r.pending.parked {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to park booking %s: %w", p.ExternalBookingID, err)
		}
	}

	r.pending.reset()
	return nil
}

// saveLink saves the origin of link before link itself, so a staged origin
// gets its id before it is referenced.
func saveLink(tx *gorm.DB, link *models.BookingLink, saved map[*models.BookingLink]bool) error {
	if saved[link] {
		return nil
	}
	saved[link] = true

	if link.Origin != nil {
		if link.Origin.ID == 0 {
			if err := saveLink(tx, link.Origin, saved); err != nil {
				return err
			}
		}
		if link.Origin.ID != 0 {
			id := link.Origin.ID
			link.OriginLinkID = &id
		}
	}
	if link.Event != nil {
		link.EventID = link.Event.ID
	}
	if err := tx.Omit(clause.Associations).Save(link).Error; err != nil {
		return fmt.Errorf("failed to save booking link %s: %w", link.ExternalBookingID, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

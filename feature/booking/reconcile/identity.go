package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"booking-sync/core/reconcile"
	"booking-sync/feature/booking/models"

	"gorm.io/gorm"
)

// identityKey carries every id a record can be known by.
type identityKey struct {
	Effective string
	RawMaster string
	BookingID string
}

func keyOf(rec models.ExternalBookingRecord) identityKey {
	k := identityKey{Effective: rec.EffectiveMasterID(), BookingID: rec.ID.String()}
	if rec.HasMaster() {
		k.RawMaster = rec.RawMasterID()
	}
	return k
}

// master is the trimmed master id, empty for master records.
func (k identityKey) master() string {
	return strings.TrimSpace(k.RawMaster)
}

type identityChain = reconcile.Chain[identityKey, *models.Reservation]

// Identity step names, in resolution order.
const (
	StepCacheEffective = "run cache by effective master id"
	StepCacheRawMaster = "run cache by raw master id"
	StepCacheBooking   = "run cache by booking id"
	StepPending        = "pending writes"
	StepStoreEffective = "store by effective master id"
	StepStoreMaster    = "store by principal = master id"
	StepStoreBooking   = "store by principal = booking id"
	StepCreated        = "created"
)

func (r *Run) newIdentityChain() identityChain {
	return identityChain{
		{Name: StepCacheEffective, Find: func(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
			return cached(r.byMaster, k.Effective)
		}},
		{Name: StepCacheRawMaster, Find: func(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
			return cached(r.byMaster, k.RawMaster)
		}},
		{Name: StepCacheBooking, Find: func(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
			return cached(r.byBooking, k.BookingID)
		}},
		{Name: StepPending, Find: r.findPending},
		{Name: StepStoreEffective, Find: func(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
			return r.findStored(ctx, "effective_master_id = ?", k.Effective)
		}},
		{Name: StepStoreMaster, Find: func(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
			// legacy rows carry the master only as principal
			return r.findStored(ctx, "principal_booking_id = ?", k.master())
		}},
		{Name: StepStoreBooking, Find: func(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
			return r.findStored(ctx, "principal_booking_id = ?", k.BookingID)
		}},
	}
}

func cached(m map[string]*models.Reservation, key string) (*models.Reservation, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	res, ok := m[key]
	return res, ok, nil
}

func (r *Run) findPending(ctx context.Context, k identityKey) (*models.Reservation, bool, error) {
	master := k.master()
	res := r.pending.findReservation(func(res *models.Reservation) bool {
		eff := deref(res.EffectiveMasterID)
		principal := deref(res.PrincipalBookingID)
		switch {
		case eff != "" && eff == k.Effective:
			return true
		case master != "" && (eff == master || principal == master):
			return true
		case principal != "" && principal == k.BookingID:
			return true
		}
		return false
	})
	return res, res != nil, nil
}

func (r *Run) findStored(ctx context.Context, query string, value string) (*models.Reservation, bool, error) {
	if value == "" {
		return nil, false, nil
	}

	var res models.Reservation
	err := r.tx.WithContext(ctx).Where(query, value).Order("id").Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up reservation: %w", err)
	}

	// a row already materialized in this run keeps its in-memory instance
	if existing, ok := r.byID[res.ID]; ok {
		return existing, true, nil
	}
	r.byID[res.ID] = &res
	return &res, true, nil
}

// ResolveReservation finds the reservation rec belongs to or creates a new one.
// The result is remembered under the effective master id and the booking id.
func (r *Run) ResolveReservation(ctx context.Context, rec models.ExternalBookingRecord) (res *models.Reservation, created bool, step string, err error) {
	key := keyOf(rec)

	res, step, ok, err := r.identity.Resolve(ctx, key)
	if err != nil {
		return nil, false, step, err
	}
	if !ok {
		res = &models.Reservation{}
		created = true
		step = StepCreated
	}

	r.remember(res, key)
	return res, created, step, nil
}

func (r *Run) remember(res *models.Reservation, key identityKey) {
	if key.Effective != "" {
		r.byMaster[key.Effective] = res
	}
	if key.BookingID != "" {
		r.byBooking[key.BookingID] = res
	}
	if res.ID != 0 {
		r.byID[res.ID] = res
	}
}

package reconcile

import (
	"context"
	"errors"

	"booking-sync/core/reconcile"
	"booking-sync/feature/booking/models"

	"go.uber.org/zap"
)

// Result describes what Upsert did with one record.
type Result struct {
	Action      reconcile.ActionType
	Reservation *models.Reservation
	Event       *models.CalendarEvent
	Link        *models.BookingLink
}

// Upsert merges one feed record into the run. It never opens or commits a
// transaction; the caller flushes the run.
//
// Unmapped units and records without id are parked and reported as skipped.
// Reference configuration errors are returned and must abort the batch.
func Upsert(ctx context.Context, run *Run, rec models.ExternalBookingRecord) (*Result, error) {
	bookingID := rec.ID.String()
	if bookingID == "" {
		run.Park(rec, "missing booking id")
		return &Result{Action: reconcile.ActionSkipped}, nil
	}

	mapping, err := run.LookupMapping(ctx, rec.PropertyID.String(), rec.RoomID.String())
	if errors.Is(err, ErrUnitMappingNotFound) {
		run.Park(rec, err.Error())
		return &Result{Action: reconcile.ActionSkipped}, nil
	}
	if err != nil {
		return nil, err
	}

	link, err := run.FindLink(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	mirror := link != nil && link.IsMirror

	var res *models.Reservation
	if !mirror {
		if res, _, err = UpsertReservation(ctx, run, rec); err != nil {
			return nil, err
		}
	}

	event, created, err := UpsertEvent(ctx, run, rec, mapping, link, res, mirror)
	if err != nil {
		return nil, err
	}

	link = UpsertLink(run, bookingID, event, mapping, link, nil)

	result := &Result{Reservation: res, Event: event, Link: link}
	switch {
	case mirror:
		result.Action = reconcile.ActionMirrored
	case created:
		result.Action = reconcile.ActionCreated
	default:
		result.Action = reconcile.ActionUpdated
	}

	run.logger.Debug("Booking record applied",
		logBooking(bookingID),
		zap.String("action", string(result.Action)))
	return result, nil
}

func logBooking(id string) zap.Field { return zap.String("booking_id", id) }

func logStep(step string) zap.Field { return zap.String("identity_step", step) }

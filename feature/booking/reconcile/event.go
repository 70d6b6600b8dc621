package reconcile

import (
	"context"
	"errors"
	"fmt"

	"booking-sync/core/utils"
	"booking-sync/feature/booking/models"

	"gorm.io/gorm"
)

// UpsertEvent creates or refreshes the calendar event of rec, located through link.
// Mirror events never get a reservation or display caches. The payment status is
// only set when the event is created.
func UpsertEvent(
	ctx context.Context,
	run *Run,
	rec models.ExternalBookingRecord,
	mapping *models.UnitMapping,
	link *models.BookingLink,
	res *models.Reservation,
	mirror bool,
) (*models.CalendarEvent, bool, error) {
	event, err := run.eventOf(ctx, link)
	if err != nil {
		return nil, false, err
	}
	created := event == nil
	if created {
		event = &models.CalendarEvent{}
	}

	event.UnitID = mapping.UnitID
	if !mirror && res != nil {
		event.Reservation = res
		if res.ID != 0 {
			id := res.ID
			event.ReservationID = &id
		}
	}

	var est *models.Establishment
	if mapping.Unit != nil {
		est = mapping.Unit.Establishment
	}
	event.StartAt, event.EndAt = Schedule(rec.StayFrom, rec.StayTo, est)

	event.ExternalStatus = rec.Status
	event.ExternalSubStatus = rec.SubStatus
	statusID, err := run.refs.Status.Resolve(ctx, rec.Status)
	if err != nil {
		return nil, false, err
	}
	event.StatusID = statusID

	if created {
		paymentID, err := run.refs.PaymentStatus.Resolve(ctx, rec.PaymentStatus)
		if err != nil {
			return nil, false, err
		}
		event.PaymentStatusID = paymentID
	}

	event.Adults = int(rec.Adults)
	event.Children = int(rec.Children)
	event.Infants = int(rec.Infants)
	event.Amount = utils.NormalizeDecimal(rec.Price)
	event.Commission = utils.NormalizeDecimal(rec.Commission)
	event.RateDescription = rec.RateDescription

	if !mirror {
		event.GuestNameCache = utils.OptionalString(rec.GuestFullName())
		event.ChannelCache = utils.OptionalString(rec.ChannelCode)
	}

	run.pending.stageEvent(event)
	return event, created, nil
}

// eventOf returns the event behind link, or nil when there is none yet.
func (r *Run) eventOf(ctx context.Context, link *models.BookingLink) (*models.CalendarEvent, error) {
	if link == nil {
		return nil, nil
	}
	if link.Event != nil {
		return link.Event, nil
	}
	if link.EventID == 0 {
		return nil, nil
	}

	var ev models.CalendarEvent
	err := r.tx.WithContext(ctx).Take(&ev, link.EventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar event %d: %w", link.EventID, err)
	}
	link.Event = &ev
	return &ev, nil
}

package reconcile

import (
	"context"
	"errors"
	"fmt"

	"booking-sync/feature/booking/models"

	"gorm.io/gorm"
)

// FindLink returns the booking link of an external booking id, or nil.
func (r *Run) FindLink(ctx context.Context, externalID string) (*models.BookingLink, error) {
	if link, ok := r.links[externalID]; ok {
		return link, nil
	}

	var link models.BookingLink
	err := r.tx.WithContext(ctx).
		Preload("Event").
		Where("external_booking_id = ?", externalID).
		Take(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking link %s: %w", externalID, err)
	}

	r.links[externalID] = &link
	return &link, nil
}

// UpsertLink points the link of externalID at event and mapping, creating it
// when link is nil, and stamps LastSeenAt. origin is optional.
func UpsertLink(
	run *Run,
	externalID string,
	event *models.CalendarEvent,
	mapping *models.UnitMapping,
	link *models.BookingLink,
	origin *models.BookingLink,
) *models.BookingLink {
	if link == nil {
		link = &models.BookingLink{}
	}

	link.ExternalBookingID = externalID
	link.Event = event
	link.EventID = event.ID
	link.UnitMappingID = mapping.ID
	if origin != nil {
		link.Origin = origin
		if origin.ID != 0 {
			id := origin.ID
			link.OriginLinkID = &id
		}
	}
	link.LastSeenAt = run.now()

	run.pending.stageLink(link)
	run.links[externalID] = link
	return link
}

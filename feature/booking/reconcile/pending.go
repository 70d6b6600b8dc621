package reconcile

import "booking-sync/feature/booking/models"

// pendingWrites holds entities staged since the last flush.
// Each entity appears once, in the order it was first staged.
type pendingWrites struct {
	reservations []*models.Reservation
	events       []*models.CalendarEvent
	links        []*models.BookingLink
	parked       []*models.ParkedRecord
}

func stage[T any](list []*T, v *T) []*T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func (p *pendingWrites) stageReservation(res *models.Reservation) {
	p.reservations = stage(p.reservations, res)
}

func (p *pendingWrites) stageEvent(ev *models.CalendarEvent) {
	p.events = stage(p.events, ev)
}

func (p *pendingWrites) stageLink(link *models.BookingLink) {
	p.links = stage(p.links, link)
}

// findReservation returns the first staged reservation accepted by match.
func (p *pendingWrites) findReservation(match func(*models.Reservation) bool) *models.Reservation {
	for _, res := range p.reservations {
		if match(res) {
			return res
		}
	}
	return nil
}

// size counts every staged entity.
func (p *pendingWrites) size() int {
	return len(p.reservations) + len(p.events) + len(p.links) + len(p.parked)
}

func (p *pendingWrites) reset() {
	p.reservations = nil
	p.events = nil
	p.links = nil
	p.parked = nil
}

// Package models defines the booking feed record and the gorm models of the
// reconciliation store.
//
// A Reservation groups every room of one stay under its effective master id.
// Each external booking id owns exactly one CalendarEvent, reached through its
// BookingLink. Reference tables (statuses, payment statuses, channels, countries,
// languages) are keyed by a stable external code.
package models

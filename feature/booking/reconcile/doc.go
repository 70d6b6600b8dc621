// Package reconcile merges channel manager booking records into reservations,
// calendar events and booking links.
//
// All state of one batch lives in a Run: the identity caches, the unit mapping
// and link caches and the pending writes staged for the next Flush. A Run is
// bound to the batch transaction and must not be shared between goroutines.
//
// Upsert handles one record:
//
//  1. resolve the unit mapping (unmapped records are parked)
//  2. look up the booking link to learn whether the booking is a mirror
//  3. resolve or create the reservation, unless mirror
//  4. upsert the calendar event and the booking link
//
// Nothing is written until Flush, which the batch driver calls inside its
// transaction.
package reconcile

// Package booking exposes channel manager synchronization as a feature.
//
// The Service pulls batch exports of an account from object storage, applies
// each export in one transaction through the reconciliation engine, archives it
// and notifies the totals listener about every touched reservation. Runs of the
// same account are serialized by a lock.
//
// # Routes
//
//	GET  /booking/reservations/:master   reservation with its events
//	GET  /booking/parked?account=code    records set aside for review
//	POST /booking/sync/:account          pull and apply pending exports
package booking

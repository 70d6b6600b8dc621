// Package feed reads channel manager batch exports.
//
// Exports are JSON arrays of booking records stored per account under
// <feed prefix>/<account>/. Each object is one batch. After a batch commits,
// its object is moved to <archive prefix>/<account>/ so it is not applied again.
package feed

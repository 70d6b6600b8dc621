package reconcile

import (
	"errors"
	"time"
)

// ActionType describes what applying one record did to the store.
type ActionType string

const (
	// ActionCreated means the record produced a new local entity.
	ActionCreated ActionType = "created"
	// ActionUpdated means the record refreshed an existing local entity.
	ActionUpdated ActionType = "updated"
	// ActionMirrored means the record only refreshed a blocking mirror entity.
	ActionMirrored ActionType = "mirrored"
	// ActionSkipped means the record could not be applied and was set aside.
	ActionSkipped ActionType = "skipped"
)

// ErrDryRun rolls back a batch transaction after a dry run.
var ErrDryRun = errors.New("reconcile: dry run")

// Options controls batch behaviour.
type Options struct {
	// DryRun applies every record and then rolls the transaction back.
	DryRun bool

	// FlushEvery flushes staged writes after this many records. Zero flushes once.
	FlushEvery int

	// MaxAttempts bounds how often a batch is retried after a duplicate key conflict.
	// Values below one mean a single attempt.
	MaxAttempts int
}

// Summary provides aggregate statistics for one batch.
type Summary struct {
	// Total is the number of records in the batch.
	Total int `json:"total"`

	// Created counts records that created a new entity.
	Created int `json:"created"`

	// Updated counts records that refreshed an existing entity.
	Updated int `json:"updated"`

	// Mirrored counts records that only touched mirror entities.
	Mirrored int `json:"mirrored"`

	// Skipped counts records set aside for review.
	Skipped int `json:"skipped"`

	// Attempts is how many times the batch ran before it committed.
	Attempts int `json:"attempts"`

	// DryRun reports whether the batch was rolled back on purpose.
	DryRun bool `json:"dry_run"`

	// Duration is the wall time of the committed attempt.
	Duration time.Duration `json:"duration"`
}

// Count records the action taken for one record.
func (s *Summary) Count(action ActionType) {
	switch action {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionMirrored:
		s.Mirrored++
	case ActionSkipped:
		s.Skipped++
	}
}

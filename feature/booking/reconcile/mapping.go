package reconcile

import (
	"context"
	"errors"
	"fmt"

	"booking-sync/feature/booking/models"

	"gorm.io/gorm"
)

// ErrUnitMappingNotFound means the external property/room pair is not mapped for the account.
var ErrUnitMappingNotFound = errors.New("unit mapping not found")

type mappingKey struct {
	property string
	room     string
}

// LookupMapping resolves the unit of an external property/room pair.
// Results, misses included, are cached for the rest of the run.
func (r *Run) LookupMapping(ctx context.Context, property, room string) (*models.UnitMapping, error) {
	key := mappingKey{property: property, room: room}
	if m, ok := r.mappings[key]; ok {
		if m == nil {
			return nil, notMapped(property, room)
		}
		return m, nil
	}

	var m models.UnitMapping
	err := r.tx.WithContext(ctx).
		Preload("Unit.Establishment").
		Where("account_id = ? AND external_property_id = ? AND external_room_id = ?", r.Account.ID, property, room).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.mappings[key] = nil
		return nil, notMapped(property, room)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load unit mapping: %w", err)
	}

	r.mappings[key] = &m
	return &m, nil
}

func notMapped(property, room string) error {
	return fmt.Errorf("%w: property %s room %s", ErrUnitMappingNotFound, property, room)
}

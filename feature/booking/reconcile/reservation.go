package reconcile

import (
	"context"

	"booking-sync/core/utils"
	"booking-sync/feature/booking/models"

	"go.uber.org/zap"
)

// UpsertReservation resolves the reservation of rec and merges the record into it.
//
// A master record always becomes the principal; a child only fills an empty
// principal. The channel is set on creation only. Guest and contact data of a
// locked reservation are only filled where still empty.
func UpsertReservation(ctx context.Context, run *Run, rec models.ExternalBookingRecord) (*models.Reservation, bool, error) {
	res, created, step, err := run.ResolveReservation(ctx, rec)
	if err != nil {
		return nil, false, err
	}

	if eff := rec.EffectiveMasterID(); eff != "" {
		res.EffectiveMasterID = &eff
	}

	own := rec.ID.String()
	if !rec.HasMaster() || res.PrincipalBookingID == nil {
		res.PrincipalBookingID = &own
	}

	if created {
		channelID, err := run.refs.Channel.Resolve(ctx, rec.ChannelCode)
		if err != nil {
			return nil, false, err
		}
		res.ChannelID = &channelID
	}

	countryID, err := run.refs.Country.Resolve(ctx, rec.CountryCode)
	if err != nil {
		return nil, false, err
	}
	languageID, err := run.refs.Language.Resolve(ctx, rec.LanguageCode)
	if err != nil {
		return nil, false, err
	}

	locked := res.DataLocked
	merge(&res.GuestName, utils.OptionalString(rec.GuestName), locked)
	merge(&res.GuestSurname, utils.OptionalString(rec.GuestSurname), locked)
	merge(&res.Email, utils.OptionalString(rec.Email), locked)
	merge(&res.Phone, utils.OptionalString(rec.Phone), locked)
	merge(&res.Notes, utils.OptionalString(rec.CombinedNotes()), locked)
	merge(&res.CountryID, &countryID, locked)
	merge(&res.LanguageID, &languageID, locked)

	if t := ParseTimestamp(rec.BookedAt); t != nil {
		res.BookedAt = t
	}
	if t := ParseTimestamp(rec.ModifiedAt); t != nil {
		res.ModifiedAt = t
	}

	if created {
		res.DataLocked = true
	}

	run.pending.stageReservation(res)
	run.touch(res)

	run.logger.Debug("Reservation resolved",
		zap.String("effective_master_id", deref(res.EffectiveMasterID)),
		logStep(step), logBooking(own))
	return res, created, nil
}

// merge copies incoming into dst unless it is nil or dst is locked and already set.
func merge[T any](dst **T, incoming *T, locked bool) {
	if incoming == nil {
		return
	}
	if locked && *dst != nil {
		return
	}
	v := *incoming
	*dst = &v
}
